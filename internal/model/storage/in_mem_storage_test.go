package storage

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_OnInMemCreateDuplicateUser_ShouldReturnAlreadyExists(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()

	_, err := s.CreateUser(ctx, "ana@example.com", "hash")
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, "ana@example.com", "hash")

	assert.True(t, errors.Is(err, ErrAlreadyExists))
	assert.Equal(t, 1, s.UserCount())
}

func Test_OnInMemGetTransactions_ShouldReturnCopy(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()

	_, err := s.SaveTransaction(ctx, 1, expense("10", "Food", 1))
	require.NoError(t, err)

	records, err := s.GetUserTransactions(ctx, 1)
	require.NoError(t, err)
	records[0].Category = "Changed"

	again, err := s.GetUserTransactions(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Food", again[0].Category)
}

func Test_OnNewWithMemoryDriver_ShouldReturnInMemStorage(t *testing.T) {
	s, err := New(testConfig{driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &InMemStorage{}, s)
}
