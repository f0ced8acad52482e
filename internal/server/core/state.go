package core

// Phase is the selection state of a session between clicks
type Phase int

const (
	PhaseIdle         Phase = iota // No piece selected
	PhaseSelected                  // A piece of the side to move is armed
	PhaseChainCapture              // The piece that just captured must capture again
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSelected:
		return "selected"
	case PhaseChainCapture:
		return "chain_capture"
	default:
		return "unknown"
	}
}
