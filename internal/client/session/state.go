package session

import "time"

type State int

const (
	StateSignedOut State = iota
	StateActive
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "ACTIVE"
	case StateExpired:
		return "EXPIRED"
	default:
		return "SIGNED_OUT"
	}
}

// Authenticated reports whether views may render in this state.
func (s State) Authenticated() bool {
	return s == StateActive
}

// Reason explains why a session ended.
type Reason string

const (
	ReasonIdle              Reason = "idle timeout"
	ReasonCredentialMissing Reason = "credential missing"
	ReasonCredentialInvalid Reason = "credential invalid"
	ReasonLogout            Reason = "logout"
)

// Signal is a kind of user interaction that counts as activity.
type Signal string

const (
	SignalPointer Signal = "pointer"
	SignalKey     Signal = "key"
	SignalScroll  Signal = "scroll"
	SignalTouch   Signal = "touch"
)

// SignalFromEvent maps DOM-style event names onto signals.
func SignalFromEvent(name string) (Signal, bool) {
	switch name {
	case "mousedown", "mousemove", "pointer":
		return SignalPointer, true
	case "keypress", "key":
		return SignalKey, true
	case "scroll":
		return SignalScroll, true
	case "touchstart", "touch":
		return SignalTouch, true
	}
	return "", false
}

func (s Signal) valid() bool {
	switch s {
	case SignalPointer, SignalKey, SignalScroll, SignalTouch:
		return true
	}
	return false
}

// Event is a state change published to subscribers.
type Event struct {
	State     State
	SessionID string
	Reason    Reason
	At        time.Time
}
