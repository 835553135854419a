package pipeline

import (
	"errors"
	"fmt"
)

// State is the lifecycle position of one interaction.
type State int

const (
	Idle State = iota
	Pending
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Event drives a transition.
type Event int

const (
	EventStart Event = iota
	EventSuccess
	EventFailure
	EventClose
)

func (e Event) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventSuccess:
		return "success"
	case EventFailure:
		return "failure"
	case EventClose:
		return "close"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

var ErrInvalidTransition = errors.New("invalid transition")

// Next returns the state reached from s on e. Close is accepted from any state.
func Next(s State, e Event) (State, error) {
	switch {
	case e == EventClose:
		return Idle, nil
	case s == Idle && e == EventStart:
		return Pending, nil
	case s == Pending && e == EventSuccess:
		return Succeeded, nil
	case s == Pending && e == EventFailure:
		return Failed, nil
	}
	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e, s)
}
