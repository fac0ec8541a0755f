package transaction

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraft() Details {
	return Details{
		Kind:          KindExpense,
		Amount:        decimal.NewFromInt(47),
		Description:   "Uber",
		Category:      "Transportation",
		OccurredAt:    time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local),
		PaymentMethod: MethodCreditCard,
		Account:       "Credit card bank x",
		Installments:  InstallmentsNotApplicable,
		Status:        StatusPending,
	}
}

func Test_OnSetCategory_ShouldChangeOnlyCategory(t *testing.T) {
	d := newDraft()
	want := newDraft()
	want.Category = "Food"

	require.NoError(t, d.Set("Category", " Food "))
	assert.Equal(t, want, d)
}

func Test_OnSetAmount_ShouldAcceptCommaAndCurrencyPrefix(t *testing.T) {
	d := newDraft()

	require.NoError(t, d.Set("amount", "R$ 50,00"))
	assert.True(t, decimal.NewFromInt(50).Equal(d.Amount))

	require.NoError(t, d.Set("amount", "1.234,56"))
	assert.True(t, decimal.RequireFromString("1234.56").Equal(d.Amount))
}

func Test_OnSetInvalidAmount_ShouldKeepDraft(t *testing.T) {
	for _, value := range []string{"abc", "-5", "0", ""} {
		d := newDraft()
		err := d.Set("amount", value)
		assert.True(t, errors.Is(err, ErrInvalidValue), value)
		assert.Equal(t, newDraft(), d)
	}
}

func Test_OnSetDate_ShouldParseDayMonthYear(t *testing.T) {
	d := newDraft()

	require.NoError(t, d.Set("date", "31/12/2023"))
	assert.Equal(t, "31/12/2023", d.OccurredAt.Format(DateLayout))

	err := d.Set("date", "2023-12-31")
	assert.True(t, errors.Is(err, ErrInvalidValue))
}

func Test_OnSetPaymentMethod_ShouldNormalizeFieldName(t *testing.T) {
	d := newDraft()

	require.NoError(t, d.Set("  Payment   Method ", "Pix"))
	assert.Equal(t, MethodPix, d.PaymentMethod)
}

func Test_OnSetUnknownField_ShouldReturnError(t *testing.T) {
	d := newDraft()

	err := d.Set("colour", "blue")
	assert.True(t, errors.Is(err, ErrUnknownField))
	assert.Equal(t, newDraft(), d)
}

func Test_OnFields_ShouldFollowFieldNamesOrder(t *testing.T) {
	d := newDraft()

	fields := d.Fields()
	require.Len(t, fields, len(FieldNames()))
	for i, name := range FieldNames() {
		assert.Equal(t, name, fields[i].Name)
	}
	assert.Equal(t, "47.00", fields[1].Value)
	assert.Equal(t, "05/03/2024", fields[4].Value)
}
