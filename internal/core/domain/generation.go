package domain

// StreamEvent is a single event on an answer stream. Exactly one of
// the discriminants applies: a token fragment, a terminal error, or a
// completion marker. After an error or done event the channel closes.
//
// Modelling failure as an event rather than an interrupted stream keeps
// the terminal state observable to consumers already mid-render.
type StreamEvent struct {
	// Token is an incremental answer fragment, in arrival order.
	Token string

	// Err is the terminal failure, when the backend call failed
	// mid-stream. The stream ends after this event.
	Err error

	// Done marks successful completion of the stream.
	Done bool
}

// TokenEvent builds a token fragment event.
func TokenEvent(token string) StreamEvent {
	return StreamEvent{Token: token}
}

// ErrorEvent builds a terminal error event.
func ErrorEvent(err error) StreamEvent {
	return StreamEvent{Err: err}
}

// DoneEvent builds a completion event.
func DoneEvent() StreamEvent {
	return StreamEvent{Done: true}
}
