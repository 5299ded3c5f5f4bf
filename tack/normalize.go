package tack

import (
	"f50-race-telemetry/telemetry"
)

// Normalize applies the rule table to one row and returns the normalized
// copy. It is a pure function: the input row is never mutated and the output
// depends only on (row, table).
//
// Starboard-tack rows pass through unchanged for every rule kind. On port
// tack every ruled field is transformed against a snapshot of the original
// row, so swap pairs read their partner's pre-transform value and the result
// is independent of field iteration order. Identifiers, timestamps and the
// tack flag itself are untouched.
//
// Normalization is one-way: the output is the canonical representation, and
// feeding it back in under a forced port flag is not meaningful.
func Normalize(row telemetry.Row, table *RuleTable) (telemetry.Row, error) {
	port, err := row.PortTack()
	if err != nil {
		return nil, &InputError{Field: telemetry.FieldPortTack, Reason: err.Error()}
	}

	out := row.Clone()
	if !port {
		return out, nil
	}

	for field, rule := range table.rules {
		raw, ok := row[field]
		if !ok {
			// Field not sampled in this row; its partner (if any) is
			// checked under the partner's own rule.
			continue
		}

		switch rule.Kind {
		case KindIdentity:
			// Explicit identity, value already in the clone.

		case KindNegate:
			v, ok := telemetry.ToFloat64(raw)
			if !ok {
				return nil, &InputError{Field: field, Reason: "non-numeric value under negate rule"}
			}
			out[field] = -v

		case KindOffsetWrap:
			v, ok := telemetry.ToFloat64(raw)
			if !ok {
				return nil, &InputError{Field: field, Reason: "non-numeric value under offset_wrap rule"}
			}
			out[field] = wrap(v, rule.Offset, rule.Modulus)

		case KindSwapPair:
			// Sensor dropout on one side leaves the pair ambiguous, so the
			// whole row is rejected rather than half-swapped.
			partnerVal, ok := row[rule.Partner]
			if !ok {
				return nil, &InputError{Field: field, Reason: "swap partner " + rule.Partner + " missing from row"}
			}
			out[field] = partnerVal
		}
	}

	return out, nil
}

// RowFailure records one rejected row in a batch.
type RowFailure struct {
	Index int
	Err   error
}

// BatchResult is the outcome of normalizing a batch: the rows that made it
// through plus counts the caller can report alongside them.
type BatchResult struct {
	Rows     []telemetry.Row
	OK       int
	Skipped  int
	Failures []RowFailure
}

// NormalizeBatch normalizes an ordered sequence of rows. Rows are
// independent, so an input error is scoped to its row: the row is counted and
// skipped and the rest of the batch proceeds. In strict mode the first input
// error aborts the batch instead.
//
// A ConfigError can never surface here; tables are validated before any row
// is processed.
func NormalizeBatch(rows []telemetry.Row, table *RuleTable, strict bool) (BatchResult, error) {
	res := BatchResult{Rows: make([]telemetry.Row, 0, len(rows))}

	for i, row := range rows {
		normalized, err := Normalize(row, table)
		if err != nil {
			if strict {
				return res, err
			}
			res.Skipped++
			res.Failures = append(res.Failures, RowFailure{Index: i, Err: err})
			continue
		}
		res.Rows = append(res.Rows, normalized)
		res.OK++
	}

	return res, nil
}
