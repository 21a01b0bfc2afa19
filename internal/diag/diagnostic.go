// Package diag carries non-fatal, stage-tagged notices out of the
// monomorphizer. Every anomaly the core handles by silently skipping
// work (spec §7's error-handling table) can still be surfaced here for a
// caller that wants to know why a function was never specialized.
package diag

// Stage identifies which pipeline phase produced the diagnostic.
type Stage string

const (
	StageMono Stage = "mono"
)

// Severity captures how impactful the diagnostic is. The monomorphizer
// never produces SeverityError: it reports notes, plus a warning when a
// specialization target is missing — every condition it reports is a
// skip, not a failure.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic, stable across versions
// so tooling can match on it rather than on Message text.
type Code string

const (
	CodeMonoSkipNilCompared        Code = "MONO_SKIP_NIL_COMPARED"
	CodeMonoSkipInconsistentSite   Code = "MONO_SKIP_INCONSISTENT_SITE"
	CodeMonoSkipUnresolvedGeneric  Code = "MONO_SKIP_UNRESOLVED_GENERIC"
	CodeMonoSkipUntypedArg         Code = "MONO_SKIP_UNTYPED_ARG"
	CodeMonoSkipMissingTarget      Code = "MONO_SKIP_MISSING_TARGET"
	CodeMonoSpecialized            Code = "MONO_SPECIALIZED"
	CodeMonoUnionDispatch          Code = "MONO_UNION_DISPATCH"
)

// Where locates a diagnostic within the HIR rather than within source
// text: the monomorphizer never sees source spans, only function and
// call identity.
type Where struct {
	Function string
	Call     string // method name of the call site, when applicable
}

// Diagnostic is a single notice surfaced to a caller.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Where    Where
}
