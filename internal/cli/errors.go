package cli

// lastErrorer is implemented by every view-state holder.
type lastErrorer interface {
	LastError() string
}

// userError shows the holder's message while keeping the cause for
// errors.Is.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

// failure prefers the message a holder recorded over the raw error.
func failure(h lastErrorer, err error) error {
	if err == nil {
		return nil
	}
	if msg := h.LastError(); msg != "" {
		return &userError{msg: msg, err: err}
	}
	return err
}
