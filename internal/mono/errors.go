package mono

import "errors"

// errNilProgram is returned by Transform when called without a program
// to operate on — a caller-misuse condition, not a diagnosable HIR
// anomaly, so it is a Go error rather than a diag.Diagnostic.
var errNilProgram = errors.New("mono: Transform called with a nil program")
