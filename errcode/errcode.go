package errcode

// Code is a stable error identifier shared by telemetry, logs and tests.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Single-wire sensor protocol, one per wait waypoint.
	ResponseTimeout Code = "response_timeout" // sensor never pulled the line low
	AckTimeout      Code = "ack_timeout"      // acknowledgement pulse stuck low or high
	BitRiseTimeout  Code = "bit_rise_timeout" // data slot never started
	BitFallTimeout  Code = "bit_fall_timeout" // data slot never ended
	Checksum        Code = "checksum_mismatch"
	HumidityRange   Code = "humidity_range" // valid frame above 100.0 %RH

	// Analog light channel.
	ADCTimeout       Code = "adc_timeout"
	LightImplausible Code = "light_implausible"

	QueueFull     Code = "queue_full"
	InvalidConfig Code = "invalid_config"
	Unsupported   Code = "unsupported"

	Error Code = "error" // generic fallback
)

// E keeps a Code together with the operation that failed and an optional cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s += " (" + e.Op + ")"
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is match an *E against its bare Code.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Wrap builds an *E for op. A nil cause is allowed.
func Wrap(c Code, op string, err error) *E {
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
		return Of(u.Unwrap())
	}
	return Error
}
