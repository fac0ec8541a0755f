package conversation

import (
	"context"

	"github.com/pkg/errors"

	"github.com/finances-bots/finances-bots/internal/model/reports"
)

func (m *Machine) handleReportAction(_ context.Context, sess *Session, _ string) ([]Reply, error) {
	if !sess.Authenticated() {
		return m.requireLogin(sess)
	}
	return []Reply{textReply(reportMenuMessage)}, nil
}

func (m *Machine) handleChartReport(ctx context.Context, sess *Session, _ string) ([]Reply, error) {
	if !sess.Authenticated() {
		return []Reply{textReply(loginRequiredMessage)}, nil
	}
	sess.State = StateAction

	summary, err := m.deps.Reports.Summary(ctx, sess.UserID)
	if errors.Is(err, reports.ErrNoTransactions) {
		return []Reply{textReply(noTransactionsMessage)}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "chart report")
	}

	png, err := m.deps.Renderer.Chart(ctx, summary)
	if errors.Is(err, reports.ErrEmptyChart) {
		return []Reply{textReply(noTransactionsMessage)}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "chart report")
	}
	return []Reply{photoReply(png, chartFileName)}, nil
}

func (m *Machine) handlePDFReport(ctx context.Context, sess *Session, _ string) ([]Reply, error) {
	if !sess.Authenticated() {
		return []Reply{textReply(loginRequiredMessage)}, nil
	}
	sess.State = StateAction

	report, err := m.deps.Reports.Full(ctx, sess.UserID)
	if errors.Is(err, reports.ErrNoTransactions) {
		return []Reply{textReply(noTransactionsMessage)}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "pdf report")
	}

	doc, err := m.deps.Renderer.PDF(ctx, report)
	if err != nil {
		return nil, errors.Wrap(err, "pdf report")
	}
	return []Reply{documentReply(doc, pdfFileName)}, nil
}
