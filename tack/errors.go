package tack

import "fmt"

// ConfigError reports a malformed rule table: asymmetric swap pairs, unknown
// partner fields, non-positive moduli. It is raised once when the table is
// built and is fatal for that table instance; no rows are processed after it.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("rule table: field %s: %s", e.Field, e.Reason)
}

// InputError reports a bad row: a missing or non-boolean tack flag, a
// non-numeric value under a numeric rule, or a missing swap partner. It is
// scoped to the offending row; batch processing counts it and moves on
// unless the caller asked for strict mode.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row: %s", e.Reason)
	}
	return fmt.Sprintf("row: field %s: %s", e.Field, e.Reason)
}
