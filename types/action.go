package types

// Action is a discrete choice from the agent's action vocabulary
type Action string

// Hash returns the key of the action in policy tables
func (a Action) Hash() string {
	return string(a)
}

var (
	MoveAhead   Action = "MoveAhead"
	RotateLeft  Action = "RotateLeft"
	RotateRight Action = "RotateRight"
	LookUp      Action = "LookUp"
	LookDown    Action = "LookDown"
	// Done is the terminal "declare done" action, it does not move the agent
	Done Action = "Done"

	DefaultActions = []Action{
		MoveAhead,
		RotateLeft,
		RotateRight,
		LookUp,
		LookDown,
		Done,
	}
)
