package conversation

import (
	"sync"

	"github.com/finances-bots/finances-bots/internal/entity/transaction"
)

// Session is the per-chat conversation state. It is only touched while its
// lock is held, see Sessions.Acquire.
type Session struct {
	mu sync.Mutex

	ChatID int64
	State  State
	Flow   Flow
	Email  string
	UserID int64
	Draft  *transaction.Details
}

func (s *Session) Authenticated() bool {
	return s.UserID != 0
}

// Release unlocks a session obtained from Sessions.Acquire.
func (s *Session) Release() {
	s.mu.Unlock()
}

type snapshot struct {
	state  State
	flow   Flow
	email  string
	userID int64
	draft  *transaction.Details
}

func (s *Session) save() snapshot {
	return snapshot{state: s.State, flow: s.Flow, email: s.Email, userID: s.UserID, draft: s.Draft}
}

func (s *Session) restore(snap snapshot) {
	s.State = snap.state
	s.Flow = snap.flow
	s.Email = snap.email
	s.UserID = snap.userID
	s.Draft = snap.draft
}

func (s *Session) reset() {
	s.State = StateStart
	s.Flow = FlowNone
	s.Email = ""
	s.UserID = 0
	s.Draft = nil
}

// Sessions keeps conversation state in memory, it does not survive restarts.
type Sessions struct {
	mu     sync.Mutex
	byChat map[int64]*Session
}

func NewSessions() *Sessions {
	return &Sessions{byChat: make(map[int64]*Session)}
}

// Acquire returns the locked session of chatID, creating it on first use.
// Updates for the same chat are therefore handled one at a time.
func (s *Sessions) Acquire(chatID int64) *Session {
	s.mu.Lock()
	sess, ok := s.byChat[chatID]
	if !ok {
		sess = &Session{ChatID: chatID}
		s.byChat[chatID] = sess
	}
	s.mu.Unlock()

	sess.mu.Lock()
	return sess
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byChat)
}
