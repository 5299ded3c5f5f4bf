package tack

import "sort"

// RuleTable maps field names to their tack transforms. Tables are validated
// once at construction and read-only afterwards, so concurrent row
// normalization needs no locking. Fields absent from the table are treated
// as Identity.
type RuleTable struct {
	rules map[string]Transform
}

// NewRuleTable validates a rule set and returns the table. Validation fails
// fast with a ConfigError: swap pairs must be declared symmetrically on both
// fields, partners must exist in the table, and offset-wrap moduli must be
// positive.
func NewRuleTable(rules map[string]Transform) (*RuleTable, error) {
	for field, rule := range rules {
		switch rule.Kind {
		case KindIdentity, KindNegate:
			// No parameters to check.
		case KindOffsetWrap:
			if rule.Modulus <= 0 {
				return nil, &ConfigError{Field: field, Reason: "offset_wrap modulus must be positive"}
			}
		case KindSwapPair:
			if rule.Partner == "" {
				return nil, &ConfigError{Field: field, Reason: "swap_pair missing partner"}
			}
			if rule.Partner == field {
				return nil, &ConfigError{Field: field, Reason: "swap_pair partner is the field itself"}
			}
			partner, ok := rules[rule.Partner]
			if !ok {
				return nil, &ConfigError{Field: field, Reason: "swap_pair partner " + rule.Partner + " not in table"}
			}
			if partner.Kind != KindSwapPair || partner.Partner != field {
				return nil, &ConfigError{Field: field, Reason: "swap_pair with " + rule.Partner + " is not declared symmetrically"}
			}
		default:
			return nil, &ConfigError{Field: field, Reason: "unknown transform kind " + rule.Kind.String()}
		}
	}

	copied := make(map[string]Transform, len(rules))
	for field, rule := range rules {
		copied[field] = rule
	}
	return &RuleTable{rules: copied}, nil
}

// MustRuleTable builds a table from a statically known rule set, panicking on
// validation failure.
func MustRuleTable(rules map[string]Transform) *RuleTable {
	t, err := NewRuleTable(rules)
	if err != nil {
		panic(err)
	}
	return t
}

// Rule returns the transform for a field, defaulting to Identity for fields
// the table does not mention.
func (t *RuleTable) Rule(field string) Transform {
	if rule, ok := t.rules[field]; ok {
		return rule
	}
	return Identity()
}

// Len returns the number of explicit rules.
func (t *RuleTable) Len() int {
	return len(t.rules)
}

// Fields returns the sorted names of fields with explicit rules.
func (t *RuleTable) Fields() []string {
	names := make([]string, 0, len(t.rules))
	for f := range t.rules {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}
