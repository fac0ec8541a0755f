package parser

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"

	"github.com/finances-bots/finances-bots/internal/entity/transaction"
)

const (
	expenseKeyword  = "spent"
	defaultCategory = "Other"
)

// amountNumber accepts "47", "30,50", "47.5" and "1.234,56".
const amountNumber = `\d{1,3}(?:\.\d{3})+(?:,\d+)?|\d+(?:[.,]\d+)?`

var (
	currencyAmountRe = regexp.MustCompile(`(?:r\$\s*)?(` + amountNumber + `)\s*(?:reais|real|brl)\b|r\$\s*(` + amountNumber + `)`)
	plainAmountRe    = regexp.MustCompile(`\b(` + amountNumber + `)\b`)
	descriptionRe    = regexp.MustCompile(`\bon\s+(.+?)\s+via\b`)
	paymentRe        = regexp.MustCompile(`\bvia\s+(.+)`)
	cardRe           = regexp.MustCompile(`\b(?:credit\s+)?card\b\s*`)
	pixRe            = regexp.MustCompile(`\bpix\b\s*`)
)

var categories = map[string]string{
	"uber":        "Transportation",
	"99":          "Transportation",
	"taxi":        "Transportation",
	"bus":         "Transportation",
	"subway":      "Transportation",
	"fuel":        "Transportation",
	"gas":         "Transportation",
	"parking":     "Transportation",
	"nails":       "Personal expenses",
	"haircut":     "Personal expenses",
	"barber":      "Personal expenses",
	"gym":         "Personal expenses",
	"lunch":       "Food",
	"dinner":      "Food",
	"breakfast":   "Food",
	"groceries":   "Food",
	"market":      "Food",
	"restaurant":  "Food",
	"ifood":       "Food",
	"pharmacy":    "Health",
	"doctor":      "Health",
	"rent":        "Housing",
	"electricity": "Housing",
	"water":       "Housing",
	"internet":    "Housing",
	"netflix":     "Subscriptions",
	"spotify":     "Subscriptions",
	"cinema":      "Leisure",
}

type Parser struct {
	clock func() time.Time
}

func New() *Parser {
	return &Parser{clock: time.Now}
}

// NewWithClock is used by tests to pin the occurrence date.
func NewWithClock(clock func() time.Time) *Parser {
	return &Parser{clock: clock}
}

// IsExpense reports whether text looks like an expense message.
func IsExpense(text string) bool {
	return strings.Contains(strings.ToLower(text), expenseKeyword)
}

// Parse is permissive: parts it cannot find are left zero or empty.
func (p *Parser) Parse(text string) transaction.Details {
	text = strings.ToLower(strings.TrimSpace(text))
	amount, text := parseAmount(text)

	details := transaction.Details{
		Kind:         transaction.KindExpense,
		Amount:       amount,
		Description:  parseDescription(text),
		OccurredAt:   now.With(p.clock()).BeginningOfDay(),
		Installments: transaction.InstallmentsNotApplicable,
	}
	details.Category = Categorize(details.Description)
	details.PaymentMethod, details.Account, details.Status = parsePayment(text)

	return details
}

// Categorize looks the description up in the static category table.
func Categorize(description string) string {
	if category, ok := categories[strings.ToLower(strings.TrimSpace(description))]; ok {
		return category
	}
	return defaultCategory
}

// parseAmount prefers an amount marked as money ("40 reais", "r$ 40") over
// the first bare number, and returns text without the money phrase so it
// does not leak into the description or the account.
func parseAmount(text string) (decimal.Decimal, string) {
	if loc := currencyAmountRe.FindStringSubmatchIndex(text); loc != nil {
		start, end := loc[2], loc[3]
		if start < 0 {
			start, end = loc[4], loc[5]
		}
		rest := strings.Join(strings.Fields(text[:loc[0]]+" "+text[loc[1]:]), " ")
		return toDecimal(text[start:end]), rest
	}
	if match := plainAmountRe.FindStringSubmatch(text); match != nil {
		return toDecimal(match[1]), text
	}
	return decimal.Zero, text
}

func toDecimal(number string) decimal.Decimal {
	amount, err := transaction.ParseAmount(number)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

func parseDescription(text string) string {
	match := descriptionRe.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return capitalize(strings.TrimSpace(match[1]))
}

func parsePayment(text string) (method, account, status string) {
	match := paymentRe.FindStringSubmatch(text)
	if match == nil {
		return "", "", ""
	}
	payment := strings.TrimSpace(match[1])

	switch {
	case cardRe.MatchString(payment):
		card := strings.TrimSpace(cardRe.ReplaceAllString(payment, ""))
		return transaction.MethodCreditCard,
			strings.TrimSpace(transaction.MethodCreditCard + " " + card),
			transaction.StatusPending
	case pixRe.MatchString(payment):
		return transaction.MethodPix,
			strings.TrimSpace(pixRe.ReplaceAllString(payment, "")),
			transaction.StatusExecuted
	}
	return "", "", ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
