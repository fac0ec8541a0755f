package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/finances-bots/finances-bots/internal/entity/transaction"
	"github.com/finances-bots/finances-bots/internal/logger"
	"github.com/finances-bots/finances-bots/internal/model/parser"
)

func (m *Machine) handleExpenseAction(_ context.Context, sess *Session, text string) ([]Reply, error) {
	if !sess.Authenticated() {
		return m.requireLogin(sess)
	}
	if parser.IsExpense(text) {
		return m.draftExpense(sess, text)
	}
	sess.State = StateConfirmExpense
	return []Reply{textReply(askExpenseMessage)}, nil
}

// handleConfirmExpense waits for a message that reads as an expense.
func (m *Machine) handleConfirmExpense(_ context.Context, sess *Session, text string) ([]Reply, error) {
	if !sess.Authenticated() {
		return m.requireLogin(sess)
	}
	if !parser.IsExpense(text) {
		return []Reply{textReply(expenseFormatMessage)}, nil
	}
	return m.draftExpense(sess, text)
}

// draftExpense parses the expense text into a draft the user reviews.
func (m *Machine) draftExpense(sess *Session, text string) ([]Reply, error) {
	draft := m.deps.Parser.Parse(text)
	sess.Draft = &draft
	sess.State = StateAlterExpense
	return []Reply{textReply(draftText(draftHeader, &draft))}, nil
}

func (m *Machine) handleAlterExpense(ctx context.Context, sess *Session, text string) ([]Reply, error) {
	if !sess.Authenticated() {
		return m.requireLogin(sess)
	}
	if sess.Draft == nil {
		sess.State = StateAction
		return []Reply{textReply(askExpenseMessage)}, nil
	}

	switch strings.ToLower(text) {
	case confirmWord:
		return m.saveDraft(ctx, sess)
	case cancelWord:
		sess.Draft = nil
		sess.State = StateAction
		return []Reply{textReply(expenseCanceledMessage)}, nil
	}

	field, value, ok := strings.Cut(text, ":")
	if !ok || strings.TrimSpace(field) == "" {
		return []Reply{textReply(editFormatMessage)}, nil
	}

	err := sess.Draft.Set(field, value)
	switch {
	case errors.Is(err, transaction.ErrUnknownField):
		msg := fmt.Sprintf(unknownFieldFormat, strings.TrimSpace(field), strings.Join(transaction.FieldNames(), ", "))
		return []Reply{textReply(msg)}, nil
	case errors.Is(err, transaction.ErrInvalidValue):
		msg := fmt.Sprintf(invalidValueFormat, strings.TrimSpace(field), strings.TrimSpace(value))
		return []Reply{textReply(msg)}, nil
	case err != nil:
		return nil, errors.Wrap(err, "alter expense")
	}
	return []Reply{textReply(draftText(updatedDraftHeader, sess.Draft))}, nil
}

func (m *Machine) saveDraft(ctx context.Context, sess *Session) ([]Reply, error) {
	if !sess.Draft.Amount.IsPositive() {
		return []Reply{textReply(nonPositiveAmountMessage)}, nil
	}

	rec, err := m.deps.Transactions.SaveTransaction(ctx, sess.UserID, *sess.Draft)
	if err != nil {
		return nil, errors.Wrap(err, "save expense")
	}
	if m.deps.Reports != nil {
		m.deps.Reports.Invalidate(ctx, sess.UserID)
	}
	logger.Info("transaction saved", zap.Int64("userID", sess.UserID), zap.Int64("transactionID", rec.ID))

	sess.Draft = nil
	sess.State = StateAction
	return []Reply{textReply(expenseSavedMessage)}, nil
}

func (m *Machine) requireLogin(sess *Session) ([]Reply, error) {
	sess.State = StateStart
	sess.Draft = nil
	return []Reply{textReply(loginRequiredMessage)}, nil
}

func draftText(header string, d *transaction.Details) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")
	for _, f := range d.Fields() {
		fmt.Fprintf(&sb, "• %s: %s\n", f.Name, f.Value)
	}
	sb.WriteString("\n")
	sb.WriteString(editFormatMessage)
	return sb.String()
}
