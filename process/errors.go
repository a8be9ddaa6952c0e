package process

import "errors"

// ErrMetricsRegister is returned when the invocation collectors cannot be
// registered, typically because they already are.
var ErrMetricsRegister = errors.New("process: register metrics")
