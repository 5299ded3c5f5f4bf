package tack

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// yamlRule is one entry of the on-disk rule table. The file enumerates, per
// field, the transform and its parameters:
//
//	rules:
//	  - field: TWA_SGP_deg
//	    transform: negate
//	  - field: HEADING_deg
//	    transform: offset_wrap
//	    offset: 180
//	    modulus: 360
//	  - field: LENGTH_RH_P_mm
//	    transform: swap_pair
//	    partner: LENGTH_RH_S_mm
type yamlRule struct {
	Field     string  `yaml:"field"`
	Transform string  `yaml:"transform"`
	Offset    float64 `yaml:"offset"`
	Modulus   float64 `yaml:"modulus"`
	Partner   string  `yaml:"partner"`
}

type yamlRuleFile struct {
	Rules []yamlRule `yaml:"rules"`
}

// ParseRules parses a YAML rule table and returns the validated RuleTable.
// Any malformed entry is a ConfigError before any row is processed.
func ParseRules(data []byte) (*RuleTable, error) {
	var file yamlRuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rule table: %w", err)
	}

	rules := make(map[string]Transform, len(file.Rules))
	for _, r := range file.Rules {
		if r.Field == "" {
			return nil, &ConfigError{Field: "(unnamed)", Reason: "rule entry missing field name"}
		}
		if _, dup := rules[r.Field]; dup {
			return nil, &ConfigError{Field: r.Field, Reason: "duplicate rule entry"}
		}

		switch r.Transform {
		case "", "identity":
			rules[r.Field] = Identity()
		case "negate":
			rules[r.Field] = Negate()
		case "offset_wrap":
			rules[r.Field] = OffsetWrap(r.Offset, r.Modulus)
		case "swap_pair":
			rules[r.Field] = SwapPair(r.Partner)
		default:
			return nil, &ConfigError{Field: r.Field, Reason: "unknown transform " + r.Transform}
		}
	}

	return NewRuleTable(rules)
}

// LoadRules reads and parses a YAML rule table from disk.
func LoadRules(path string) (*RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule table: %w", err)
	}
	return ParseRules(data)
}
