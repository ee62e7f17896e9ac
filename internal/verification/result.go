package verification

// Result is returned by every workflow.
//
// Three outcomes are distinct: full failure (Success=false), partial success
// (Success=true with Error set: the account change committed but a follow-up
// such as the email did not), and full success.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`

	// Err is the classified error behind Error. Not serialised.
	Err error `json:"-"`
}

// Partial reports whether the primary change committed but a follow-up failed.
func (r Result) Partial() bool {
	return r.Success && r.Err != nil
}

func succeeded(message string) Result {
	return Result{Success: true, Message: message}
}

func partial(err error, message string) Result {
	return Result{Success: true, Error: err.Error(), Message: message, Err: err}
}

func failure(err error) Result {
	return Result{Success: false, Error: err.Error(), Err: err}
}
