package flow

import "github.com/finchat/finchat/core"

// Decision is the router's verdict on the latest model turn.
type Decision string

const (
	// ContinueWithTools means the assistant requested tool execution.
	ContinueWithTools Decision = "continue_with_tools"
	// Terminate means the turn is complete and the assistant content is the
	// final answer.
	Terminate Decision = "terminate"
)

// Decide inspects the latest message and chooses the next phase. It is pure,
// deterministic and total over all reachable message shapes: it returns
// ContinueWithTools if and only if the message is an assistant turn with a
// non-empty tool call set, and Terminate otherwise, including for assistant
// turns with empty content and no tool calls.
func Decide(last core.Message) Decision {
	if last.HasToolCalls() {
		return ContinueWithTools
	}
	return Terminate
}
