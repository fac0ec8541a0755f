package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finances-bots/finances-bots/internal/entity/transaction"
)

type testConfig struct {
	driver string
	dsn    string
}

func (c testConfig) Driver() string { return c.driver }
func (c testConfig) DSN() string    { return c.dsn }

func newSQLiteStorage(t *testing.T) *SQLStorage {
	t.Helper()

	s, err := NewSQLStorage(testConfig{
		driver: DriverSQLite,
		dsn:    filepath.Join(t.TempDir(), "bots.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func expense(amount string, category string, day int) transaction.Details {
	return transaction.Details{
		Kind:          transaction.KindExpense,
		Amount:        decimal.RequireFromString(amount),
		Description:   "Uber",
		Category:      category,
		OccurredAt:    time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
		PaymentMethod: transaction.MethodCreditCard,
		Account:       "Credit card bank x",
		Installments:  transaction.InstallmentsNotApplicable,
		Status:        transaction.StatusPending,
	}
}

func Test_OnCreateUser_ShouldFindItByEmail(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStorage(t)

	created, err := s.CreateUser(ctx, "ana@example.com", "hash")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	found, err := s.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, created, found)
}

func Test_OnCreateDuplicateUser_ShouldReturnAlreadyExists(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStorage(t)

	_, err := s.CreateUser(ctx, "ana@example.com", "hash")
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "ana@example.com", "other")
	assert.True(t, errors.Is(err, ErrAlreadyExists), err)
}

func Test_OnGetMissingUser_ShouldReturnNotFound(t *testing.T) {
	s := newSQLiteStorage(t)

	_, err := s.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.True(t, errors.Is(err, ErrNotFound), err)
}

func Test_OnSaveTransactions_ShouldReturnOnlyUserTransactionsInDateOrder(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStorage(t)

	ana, err := s.CreateUser(ctx, "ana@example.com", "hash")
	require.NoError(t, err)
	bob, err := s.CreateUser(ctx, "bob@example.com", "hash")
	require.NoError(t, err)

	_, err = s.SaveTransaction(ctx, ana.ID, expense("30.50", "Food", 7))
	require.NoError(t, err)
	_, err = s.SaveTransaction(ctx, ana.ID, expense("47", "Transportation", 5))
	require.NoError(t, err)
	_, err = s.SaveTransaction(ctx, bob.ID, expense("10", "Other", 6))
	require.NoError(t, err)

	records, err := s.GetUserTransactions(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, ana.ID, records[0].UserID)
	assert.Equal(t, "Transportation", records[0].Category)
	assert.True(t, decimal.NewFromInt(47).Equal(records[0].Amount), records[0].Amount.String())
	assert.True(t, records[0].OccurredAt.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, transaction.MethodCreditCard, records[0].PaymentMethod)
	assert.Equal(t, transaction.StatusPending, records[0].Status)
	assert.Equal(t, transaction.InstallmentsNotApplicable, records[0].Installments)

	assert.Equal(t, "Food", records[1].Category)
	assert.True(t, decimal.RequireFromString("30.5").Equal(records[1].Amount), records[1].Amount.String())
}

func Test_OnGetTransactionsWithoutAny_ShouldReturnEmptySlice(t *testing.T) {
	s := newSQLiteStorage(t)

	records, err := s.GetUserTransactions(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func Test_OnReopenDatabase_ShouldKeepSchemaAndData(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig{driver: DriverSQLite, dsn: filepath.Join(t.TempDir(), "bots.db")}

	first, err := NewSQLStorage(cfg)
	require.NoError(t, err)
	_, err = first.CreateUser(ctx, "ana@example.com", "hash")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewSQLStorage(cfg)
	require.NoError(t, err)
	defer second.Close()

	_, err = second.GetUserByEmail(ctx, "ana@example.com")
	assert.NoError(t, err)
}

func Test_OnUnsupportedDriver_ShouldFail(t *testing.T) {
	_, err := NewSQLStorage(testConfig{driver: "oracle"})
	assert.Error(t, err)
}

func Test_OnMissingMigrationSource_ShouldFailAndCloseDatabase(t *testing.T) {
	db, err := sql.Open(DriverSQLite, filepath.Join(t.TempDir(), "bots.db"))
	require.NoError(t, err)

	err = migrateDB(db, DriverSQLite, "migrations/missing")

	assert.Error(t, err)
	assert.Error(t, db.Ping(), "database must be closed after a failed migration")
}

func Test_OnMigrate_ShouldCloseDatabase(t *testing.T) {
	db, err := sql.Open(DriverSQLite, filepath.Join(t.TempDir(), "bots.db"))
	require.NoError(t, err)

	require.NoError(t, migrateDB(db, DriverSQLite, "migrations/"+DriverSQLite))
	assert.Error(t, db.Ping())
}
