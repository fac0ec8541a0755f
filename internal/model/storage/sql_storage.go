package storage

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	// sqlite driver
	_ "modernc.org/sqlite"

	"github.com/finances-bots/finances-bots/internal/entity/transaction"
	"github.com/finances-bots/finances-bots/internal/entity/user"
	"github.com/finances-bots/finances-bots/internal/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"

	uniqueViolationCode = "23505"
)

var transactionColumns = []string{
	"id", "user_id", "kind", "amount", "description", "category",
	"occurred_at", "payment_method", "account", "installments", "status",
}

type config interface {
	Driver() string
	DSN() string
}

// SQLStorage keeps users and transactions in Postgres or SQLite. Both share
// the same queries, only the placeholder format differs.
type SQLStorage struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

func NewSQLStorage(config config) (*SQLStorage, error) {
	driver := config.Driver()

	var builder sq.StatementBuilderType
	switch driver {
	case DriverPostgres:
		builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	case DriverSQLite:
		builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)
	default:
		return nil, errors.Errorf("unsupported storage driver %s", driver)
	}

	if err := RunMigrations(driver, config.DSN()); err != nil {
		return nil, errors.Wrap(err, "cannot migrate database")
	}

	db, err := sql.Open(driver, config.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	return &SQLStorage{db: db, builder: builder}, nil
}

func (s *SQLStorage) Close() error {
	return s.db.Close()
}

func (s *SQLStorage) CreateUser(ctx context.Context, email, passwordHash string) (user.Record, error) {
	query := s.builder.Insert("users").
		Columns("email", "password_hash").
		Values(email, passwordHash).
		Suffix("RETURNING id")

	res := user.Record{Email: email, PasswordHash: passwordHash}
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&res.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return user.Record{}, errors.Wrap(ErrAlreadyExists, "create user")
		}
		return user.Record{}, errors.Wrap(err, "create user")
	}
	return res, nil
}

func (s *SQLStorage) GetUserByEmail(ctx context.Context, email string) (user.Record, error) {
	query := s.builder.Select("id", "email", "password_hash").
		From("users").
		Where(sq.Eq{"email": email})

	var res user.Record
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&res.ID, &res.Email, &res.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return user.Record{}, errors.Wrap(ErrNotFound, "get user")
	}
	if err != nil {
		return user.Record{}, errors.Wrap(err, "get user")
	}
	return res, nil
}

func (s *SQLStorage) SaveTransaction(ctx context.Context, userID int64, d transaction.Details) (transaction.Record, error) {
	query := s.builder.Insert("transactions").
		Columns(transactionColumns[1:]...).
		Values(userID, d.Kind, d.Amount, d.Description, d.Category,
			d.OccurredAt, d.PaymentMethod, d.Account, d.Installments, d.Status).
		Suffix("RETURNING id")

	res := transaction.Record{UserID: userID, Details: d}
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&res.ID)
	if err != nil {
		return transaction.Record{}, errors.Wrap(err, "save transaction")
	}
	return res, nil
}

func (s *SQLStorage) GetUserTransactions(ctx context.Context, userID int64) ([]transaction.Record, error) {
	query := s.builder.Select(transactionColumns...).
		From("transactions").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("occurred_at", "id")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get transactions")
	}
	defer func() {
		if rowErr := rows.Close(); rowErr != nil {
			logger.Error("error closing rows", zap.Error(rowErr))
		}
	}()

	records := make([]transaction.Record, 0)
	for rows.Next() {
		var r transaction.Record
		err = rows.Scan(&r.ID, &r.UserID, &r.Kind, &r.Amount, &r.Description, &r.Category,
			&r.OccurredAt, &r.PaymentMethod, &r.Account, &r.Installments, &r.Status)
		if err != nil {
			return nil, errors.Wrap(err, "get transactions")
		}
		records = append(records, r)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "get transactions")
	}

	return records, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
