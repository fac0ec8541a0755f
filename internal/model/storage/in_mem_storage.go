package storage

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/finances-bots/finances-bots/internal/entity/transaction"
	"github.com/finances-bots/finances-bots/internal/entity/user"
)

// InMemStorage is a process-local store for development and tests.
type InMemStorage struct {
	mu           sync.RWMutex
	usersByEmail map[string]user.Record
	transactions map[int64][]transaction.Record
	lastUserID   int64
	lastTxID     int64
}

func NewInMemStorage() *InMemStorage {
	return &InMemStorage{
		usersByEmail: make(map[string]user.Record),
		transactions: make(map[int64][]transaction.Record),
	}
}

func (s *InMemStorage) Close() error {
	return nil
}

func (s *InMemStorage) CreateUser(_ context.Context, email, passwordHash string) (user.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByEmail[email]; ok {
		return user.Record{}, errors.Wrap(ErrAlreadyExists, "create user")
	}
	s.lastUserID++
	rec := user.Record{ID: s.lastUserID, Email: email, PasswordHash: passwordHash}
	s.usersByEmail[email] = rec
	return rec, nil
}

func (s *InMemStorage) GetUserByEmail(_ context.Context, email string) (user.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.usersByEmail[email]
	if !ok {
		return user.Record{}, errors.Wrap(ErrNotFound, "get user")
	}
	return rec, nil
}

func (s *InMemStorage) SaveTransaction(_ context.Context, userID int64, d transaction.Details) (transaction.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastTxID++
	rec := transaction.Record{ID: s.lastTxID, UserID: userID, Details: d}
	s.transactions[userID] = append(s.transactions[userID], rec)
	return rec, nil
}

func (s *InMemStorage) GetUserTransactions(_ context.Context, userID int64) ([]transaction.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]transaction.Record, len(s.transactions[userID]))
	copy(res, s.transactions[userID])
	return res, nil
}

// UserCount is used by tests to check that a flow did not create users.
func (s *InMemStorage) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.usersByEmail)
}
