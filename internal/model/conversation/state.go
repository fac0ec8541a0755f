package conversation

// State is the stage of a chat conversation.
type State int

const (
	StateStart State = iota
	StateEmail
	StatePassword
	StateAction
	StateConfirmExpense
	StateAlterExpense
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateEmail:
		return "EMAIL"
	case StatePassword:
		return "PASSWORD"
	case StateAction:
		return "ACTION"
	case StateConfirmExpense:
		return "CONFIRM_EXPENSE"
	case StateAlterExpense:
		return "ALTER_EXPENSE"
	}
	return "UNKNOWN"
}

// Flow tells the shared EMAIL and PASSWORD states which entry command started
// the authentication.
type Flow int

const (
	FlowNone Flow = iota
	FlowCreate
	FlowLogin
)

func (f Flow) String() string {
	switch f {
	case FlowCreate:
		return "create"
	case FlowLogin:
		return "login"
	}
	return "none"
}

// Kind selects which bot a machine drives.
type Kind int

const (
	KindFinancial Kind = iota
	KindReport
)

func (k Kind) String() string {
	if k == KindReport {
		return "report"
	}
	return "financial"
}
