package errcode

// Code is a stable, comparable error identifier.
// It is a string newtype, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	Busy          Code = "busy"
	Unsupported   Code = "unsupported"
	InvalidParams Code = "invalid_params"
	Timeout       Code = "timeout"

	// Clock configuration.
	InvalidDivider    Code = "invalid_divider"
	FrequencyTooHigh  Code = "frequency_too_high"
	ConflictingSource Code = "conflicting_source"
	InvalidSource     Code = "invalid_source"
	AlreadyFrozen     Code = "already_frozen"

	// Ownership.
	PeripheralInUse Code = "peripheral_in_use"
	PinInUse        Code = "pin_in_use"

	// Transfers.
	WouldBlock      Code = "would_block"
	Nack            Code = "nack"
	ArbitrationLost Code = "arbitration_lost"
	Overrun         Code = "overrun"
	Framing         Code = "framing"
	Parity          Code = "parity"

	// Host tooling.
	Protocol Code = "protocol"
	Checksum Code = "checksum"

	Error Code = "error" // generic fallback
)

// E keeps context and a cause alongside a Code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, errcode.X) match a wrapped code.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// New builds an *E without a cause.
func New(c Code, op, msg string) *E { return &E{C: c, Op: op, Msg: msg} }

// Wrap builds an *E around err. A nil err yields nil.
func Wrap(c Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	type unwrapper interface{ Unwrap() error }
	if u, ok := err.(unwrapper); ok {
		if inner := u.Unwrap(); inner != nil {
			return Of(inner)
		}
	}
	return Error
}

// IsWouldBlock reports whether err is the not-ready indicator of a
// non-blocking operation.
func IsWouldBlock(err error) bool { return err != nil && Of(err) == WouldBlock }
