package domain

// TransitionDirection describes the most recent router transition.
// It is presentation metadata only and never drives decisions.
type TransitionDirection string

const (
	DirectionNone     TransitionDirection = "none"
	DirectionForward  TransitionDirection = "forward"
	DirectionBackward TransitionDirection = "backward"
	DirectionModal    TransitionDirection = "modal"
)
