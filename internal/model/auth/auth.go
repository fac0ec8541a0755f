package auth

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/finances-bots/finances-bots/internal/entity/user"
	"github.com/finances-bots/finances-bots/internal/logger"
	"github.com/finances-bots/finances-bots/internal/model/storage"
)

var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("wrong password")
)

type userStorage interface {
	CreateUser(ctx context.Context, email, passwordHash string) (user.Record, error)
	GetUserByEmail(ctx context.Context, email string) (user.Record, error)
}

type config interface {
	BcryptCost() int
}

type Service struct {
	storage userStorage
	cost    int
}

func New(storage userStorage, config config) *Service {
	cost := config.BcryptCost()
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{storage: storage, cost: cost}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.storage.GetUserByEmail(ctx, NormalizeEmail(email))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, storage.ErrNotFound):
		return false, nil
	default:
		return false, errors.Wrap(err, "check email")
	}
}

// Register hashes password and creates the account. The existence check in
// EmailExists and this insert are separate calls, a concurrent registration
// is caught by the unique email constraint and reported as ErrEmailTaken.
func (s *Service) Register(ctx context.Context, email, password string) (user.Record, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return user.Record{}, errors.Wrap(err, "hash password")
	}

	rec, err := s.storage.CreateUser(ctx, NormalizeEmail(email), string(hash))
	if errors.Is(err, storage.ErrAlreadyExists) {
		return user.Record{}, ErrEmailTaken
	}
	if err != nil {
		return user.Record{}, errors.Wrap(err, "register")
	}

	logger.Info("user registered", zap.Int64("userID", rec.ID))
	return rec, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (user.Record, error) {
	rec, err := s.storage.GetUserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		return user.Record{}, ErrUserNotFound
	}
	if err != nil {
		return user.Record{}, errors.Wrap(err, "login")
	}

	err = bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		logger.Info("login rejected", zap.Int64("userID", rec.ID))
		return user.Record{}, ErrWrongPassword
	}
	if err != nil {
		return user.Record{}, errors.Wrap(err, "compare password")
	}
	return rec, nil
}
