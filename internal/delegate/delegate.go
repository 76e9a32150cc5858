package delegate

import "context"

// Turn is one conversational exchange in delegate wire format.
type Turn struct {
	Role    string
	Content string
}

// Roles in the delegate protocol. The respondent's spoken input is sent as
// "user"; our own lines are sent as "assistant".
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Delegate proposes the next spoken line for a call given the instructions
// built at dial-out and the full conversation so far. Implementations are
// stateless across calls; all state is passed in.
//
// The returned string is the raw model output. It may embed an outcome
// marker; callers run it through Parse before speaking it.
type Delegate interface {
	NextTurn(ctx context.Context, instructions string, history []Turn) (string, error)
}
