package transaction

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const DateLayout = "02/01/2006"

const (
	KindExpense = "Expense"

	MethodCreditCard = "Credit card"
	MethodPix        = "Pix"

	StatusPending  = "pending"
	StatusExecuted = "executed"

	InstallmentsNotApplicable = "not applicable"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid value")
)

// Details are the user-editable fields of a transaction. A Details value held
// in a chat session is a draft until the user confirms it.
type Details struct {
	Kind          string
	Amount        decimal.Decimal
	Description   string
	Category      string
	OccurredAt    time.Time
	PaymentMethod string
	Account       string
	Installments  string
	Status        string
}

type Record struct {
	ID     int64
	UserID int64
	Details
}

type Field struct {
	Name  string
	Value string
}

const (
	fieldKind          = "kind"
	fieldAmount        = "amount"
	fieldDescription   = "description"
	fieldCategory      = "category"
	fieldDate          = "date"
	fieldPaymentMethod = "payment method"
	fieldAccount       = "account"
	fieldInstallments  = "installments"
	fieldStatus        = "status"
)

// FieldNames lists editable fields in display order.
func FieldNames() []string {
	return []string{
		fieldKind, fieldAmount, fieldDescription, fieldCategory, fieldDate,
		fieldPaymentMethod, fieldAccount, fieldInstallments, fieldStatus,
	}
}

func (d *Details) Fields() []Field {
	return []Field{
		{fieldKind, d.Kind},
		{fieldAmount, d.Amount.StringFixed(2)},
		{fieldDescription, d.Description},
		{fieldCategory, d.Category},
		{fieldDate, d.OccurredAt.Format(DateLayout)},
		{fieldPaymentMethod, d.PaymentMethod},
		{fieldAccount, d.Account},
		{fieldInstallments, d.Installments},
		{fieldStatus, d.Status},
	}
}

// Set changes a single field by its display name. On error d is left as is.
func (d *Details) Set(field, value string) error {
	field = strings.ToLower(strings.Join(strings.Fields(field), " "))
	value = strings.TrimSpace(value)

	switch field {
	case fieldKind:
		d.Kind = value
	case fieldAmount:
		amount, err := ParseAmount(value)
		if err != nil {
			return err
		}
		d.Amount = amount
	case fieldDescription:
		d.Description = value
	case fieldCategory:
		d.Category = value
	case fieldDate:
		date, err := time.ParseInLocation(DateLayout, value, time.Local)
		if err != nil {
			return errors.Wrap(ErrInvalidValue, fmt.Sprintf("date %q", value))
		}
		d.OccurredAt = date
	case fieldPaymentMethod:
		d.PaymentMethod = value
	case fieldAccount:
		d.Account = value
	case fieldInstallments:
		d.Installments = value
	case fieldStatus:
		d.Status = value
	default:
		return errors.Wrap(ErrUnknownField, field)
	}
	return nil
}

// ParseAmount reads a positive amount written as "50", "50,00", "R$ 50.00"
// or "1.234,56".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimPrefix(s, "r$")
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	amount, err := decimal.NewFromString(s)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, errors.Wrap(ErrInvalidValue, fmt.Sprintf("amount %q", s))
	}
	return amount, nil
}
