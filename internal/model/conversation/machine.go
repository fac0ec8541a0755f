package conversation

import (
	"context"
	"strings"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"go.uber.org/zap"

	"github.com/finances-bots/finances-bots/internal/entity/transaction"
	"github.com/finances-bots/finances-bots/internal/entity/user"
	"github.com/finances-bots/finances-bots/internal/logger"
	"github.com/finances-bots/finances-bots/internal/model/reports"
)

type authService interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	Register(ctx context.Context, email, password string) (user.Record, error)
	Login(ctx context.Context, email, password string) (user.Record, error)
}

type expenseParser interface {
	Parse(text string) transaction.Details
}

type transactionStorage interface {
	SaveTransaction(ctx context.Context, userID int64, details transaction.Details) (transaction.Record, error)
}

type reportGenerator interface {
	Summary(ctx context.Context, userID int64) (*reports.Summary, error)
	Full(ctx context.Context, userID int64) (*reports.Report, error)
	Invalidate(ctx context.Context, userID int64)
}

type reportRenderer interface {
	Chart(ctx context.Context, summary *reports.Summary) ([]byte, error)
	PDF(ctx context.Context, report *reports.Report) ([]byte, error)
}

// Deps are the services a machine talks to. The financial bot needs Parser
// and Transactions, the report bot needs Renderer, both need Auth and Reports.
type Deps struct {
	Auth         authService
	Parser       expenseParser
	Transactions transactionStorage
	Reports      reportGenerator
	Renderer     reportRenderer
}

type handler func(ctx context.Context, sess *Session, text string) ([]Reply, error)

type handlerMap map[string]handler

type stateMap map[State]handler

// Machine runs the conversation of one bot over all of its chats.
type Machine struct {
	kind     Kind
	deps     Deps
	sessions *Sessions
	commands handlerMap
	states   stateMap
}

func New(kind Kind, deps Deps) *Machine {
	m := &Machine{
		kind:     kind,
		deps:     deps,
		sessions: NewSessions(),
	}
	m.commands = newCommandMap(m)
	m.states = newStateMap(m)
	return m
}

func newCommandMap(m *Machine) handlerMap {
	cmds := handlerMap{
		startCommand:         m.handleStartCommand,
		helpCommand:          m.handleHelp,
		createAccountCommand: m.handleCreateAccount,
		loginCommand:         m.handleLogin,
		logoutCommand:        m.handleLogout,
	}
	if m.kind == KindReport {
		cmds[chartReportCommand] = m.handleChartReport
		cmds[pdfReportCommand] = m.handlePDFReport
	}
	return cmds
}

func newStateMap(m *Machine) stateMap {
	states := stateMap{
		StateStart:    m.handleStart,
		StateEmail:    m.handleEmail,
		StatePassword: m.handlePassword,
	}
	switch m.kind {
	case KindFinancial:
		states[StateAction] = m.handleExpenseAction
		states[StateConfirmExpense] = m.handleConfirmExpense
		states[StateAlterExpense] = m.handleAlterExpense
	case KindReport:
		states[StateAction] = m.handleReportAction
	}
	return states
}

func (m *Machine) Kind() Kind {
	return m.kind
}

// Handle feeds one text message of chatID into the machine and returns the
// replies to send back. An error means a dependency failed, the session is
// left in the state it had before the message.
func (m *Machine) Handle(ctx context.Context, chatID int64, text string) ([]Reply, error) {
	sess := m.sessions.Acquire(chatID)
	defer sess.Release()

	from := sess.State
	span, ctx := opentracing.StartSpanFromContext(ctx, "conversation."+strings.ToLower(from.String()))
	defer span.Finish()
	span.SetTag("bot", m.kind.String())

	text = strings.TrimSpace(text)
	h := m.route(sess, text)

	saved := sess.save()
	replies, err := h(ctx, sess, text)
	if err != nil {
		ext.Error.Set(span, true)
		sess.restore(saved)
		return nil, err
	}

	if sess.State != from {
		logger.Debug("conversation transition",
			zap.String("bot", m.kind.String()),
			zap.Int64("chatID", chatID),
			zap.Stringer("from", from),
			zap.Stringer("to", sess.State),
		)
	}
	observeTransition(m.kind, from, sess.State)
	return replies, nil
}

func (m *Machine) route(sess *Session, text string) handler {
	if strings.HasPrefix(text, "/") {
		if h, ok := m.commands[commandName(text)]; ok {
			return h
		}
		if sess.State != StatePassword {
			return m.handleUnknownCommand
		}
	}
	if h, ok := m.states[sess.State]; ok {
		return h
	}
	return m.handleStart
}

// commandName strips arguments and the @botname suffix Telegram adds in groups.
func commandName(text string) string {
	cmd, _, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd)
}

func (m *Machine) greeting() string {
	if m.kind == KindReport {
		return reportGreeting
	}
	return financialGreeting
}

func (m *Machine) actionPrompt() string {
	if m.kind == KindReport {
		return reportMenuMessage
	}
	return askExpenseMessage
}

func (m *Machine) handleStartCommand(_ context.Context, sess *Session, _ string) ([]Reply, error) {
	sess.State = StateStart
	sess.Flow = FlowNone
	sess.Email = ""
	sess.Draft = nil
	if sess.Authenticated() {
		return []Reply{textReply(m.greeting()), textReply(m.actionPrompt())}, nil
	}
	return []Reply{textReply(m.greeting())}, nil
}

func (m *Machine) handleHelp(_ context.Context, _ *Session, _ string) ([]Reply, error) {
	if m.kind == KindReport {
		return []Reply{textReply(reportHelp)}, nil
	}
	return []Reply{textReply(financialHelp)}, nil
}

func (m *Machine) handleUnknownCommand(_ context.Context, _ *Session, _ string) ([]Reply, error) {
	return []Reply{textReply(unknownCommandMessage)}, nil
}

// handleStart answers free text before any flow. Authenticated users are
// moved straight to the action stage.
func (m *Machine) handleStart(ctx context.Context, sess *Session, text string) ([]Reply, error) {
	if sess.Authenticated() {
		sess.State = StateAction
		return m.states[StateAction](ctx, sess, text)
	}
	sess.State = StateStart
	return []Reply{textReply(m.greeting())}, nil
}
