package conversation

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/finances-bots/finances-bots/internal/logger"
	"github.com/finances-bots/finances-bots/internal/model/auth"
)

func (m *Machine) handleCreateAccount(_ context.Context, sess *Session, _ string) ([]Reply, error) {
	sess.State = StateEmail
	sess.Flow = FlowCreate
	sess.Email = ""
	sess.Draft = nil
	return []Reply{textReply(askNewEmailMessage)}, nil
}

// handleLogin drops any current login, the user is authenticated again only
// after the password is checked.
func (m *Machine) handleLogin(_ context.Context, sess *Session, _ string) ([]Reply, error) {
	sess.State = StateEmail
	sess.Flow = FlowLogin
	sess.Email = ""
	sess.UserID = 0
	sess.Draft = nil
	return []Reply{textReply(askEmailMessage)}, nil
}

func (m *Machine) handleLogout(_ context.Context, sess *Session, _ string) ([]Reply, error) {
	if sess.Authenticated() {
		logger.Info("user logged out", zap.String("bot", m.kind.String()), zap.Int64("userID", sess.UserID))
	}
	sess.reset()
	return []Reply{textReply(loggedOutMessage)}, nil
}

func (m *Machine) handleEmail(ctx context.Context, sess *Session, text string) ([]Reply, error) {
	email := auth.NormalizeEmail(text)
	if !looksLikeEmail(email) {
		return []Reply{textReply(invalidEmailMessage)}, nil
	}

	exists, err := m.deps.Auth.EmailExists(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "handle email")
	}

	switch sess.Flow {
	case FlowCreate:
		if exists {
			return []Reply{textReply(emailTakenMessage)}, nil
		}
		sess.Email = email
		sess.State = StatePassword
		return []Reply{textReply(askNewPasswordMessage)}, nil
	case FlowLogin:
		if !exists {
			sess.State = StateStart
			sess.Flow = FlowNone
			return []Reply{textReply(accountMissingMessage)}, nil
		}
		sess.Email = email
		sess.State = StatePassword
		return []Reply{textReply(askPasswordMessage)}, nil
	}

	sess.State = StateStart
	return []Reply{textReply(m.greeting())}, nil
}

func (m *Machine) handlePassword(ctx context.Context, sess *Session, text string) ([]Reply, error) {
	if text == "" {
		return []Reply{textReply(emptyPasswordMessage)}, nil
	}

	switch sess.Flow {
	case FlowCreate:
		return m.register(ctx, sess, text)
	case FlowLogin:
		return m.login(ctx, sess, text)
	}

	sess.State = StateStart
	return []Reply{textReply(m.greeting())}, nil
}

func (m *Machine) register(ctx context.Context, sess *Session, password string) ([]Reply, error) {
	rec, err := m.deps.Auth.Register(ctx, sess.Email, password)
	if errors.Is(err, auth.ErrEmailTaken) {
		sess.Email = ""
		sess.State = StateEmail
		return []Reply{textReply(emailTakenMessage)}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "handle password")
	}

	m.authenticate(sess, rec.ID)
	return []Reply{textReply(accountCreatedMessage), textReply(m.actionPrompt())}, nil
}

func (m *Machine) login(ctx context.Context, sess *Session, password string) ([]Reply, error) {
	rec, err := m.deps.Auth.Login(ctx, sess.Email, password)
	switch {
	case errors.Is(err, auth.ErrWrongPassword):
		sess.reset()
		return []Reply{textReply(wrongPasswordMessage)}, nil
	case errors.Is(err, auth.ErrUserNotFound):
		sess.reset()
		return []Reply{textReply(accountMissingMessage)}, nil
	case err != nil:
		return nil, errors.Wrap(err, "handle password")
	}

	m.authenticate(sess, rec.ID)
	return []Reply{textReply(loggedInMessage), textReply(m.actionPrompt())}, nil
}

func (m *Machine) authenticate(sess *Session, userID int64) {
	sess.UserID = userID
	sess.Email = ""
	sess.Flow = FlowNone
	sess.State = StateAction
	logger.Info("user authenticated", zap.String("bot", m.kind.String()), zap.Int64("userID", userID))
}

func looksLikeEmail(email string) bool {
	local, domain, ok := strings.Cut(email, "@")
	return ok && local != "" && domain != "" && !strings.ContainsAny(email, " \t\n")
}
