package clock

import (
	"fr2x5x-go/errcode"
	"fr2x5x-go/x/conv"
)

// FrequencyTooHighError reports a bus above its rated maximum.
type FrequencyTooHighError struct {
	Bus      Bus
	Computed uint32
	Max      uint32
}

func (e *FrequencyTooHighError) Error() string {
	return "clock: " + e.Bus.String() + " at " + conv.Hz(e.Computed) + " exceeds " + conv.Hz(e.Max)
}

func (e *FrequencyTooHighError) Code() errcode.Code { return errcode.FrequencyTooHigh }

// Is matches errcode.FrequencyTooHigh.
func (e *FrequencyTooHighError) Is(target error) bool {
	c, ok := target.(errcode.Code)
	return ok && c == errcode.FrequencyTooHigh
}
