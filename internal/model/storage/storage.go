package storage

import (
	"context"

	"github.com/finances-bots/finances-bots/internal/entity/transaction"
	"github.com/finances-bots/finances-bots/internal/entity/user"
)

// Storage is implemented by SQLStorage and InMemStorage.
type Storage interface {
	CreateUser(ctx context.Context, email, passwordHash string) (user.Record, error)
	GetUserByEmail(ctx context.Context, email string) (user.Record, error)
	SaveTransaction(ctx context.Context, userID int64, d transaction.Details) (transaction.Record, error)
	GetUserTransactions(ctx context.Context, userID int64) ([]transaction.Record, error)
	Close() error
}

// New picks the backend named by the config driver.
func New(config config) (Storage, error) {
	if config.Driver() == DriverMemory {
		return NewInMemStorage(), nil
	}
	return NewSQLStorage(config)
}
