package settings

import (
	"encoding/json"
	"fmt"

	"esg-matching/core/reconcile"
	"esg-matching/core/utils"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk form of the settings, in JSON or YAML.
type Document struct {
	Datasources []DatasourceDoc `json:"datasources" yaml:"datasources"`
	Policies    []PolicyDoc     `json:"matching_policy" yaml:"matching_policy"`
}

// DatasourceDoc describes one datasource.
type DatasourceDoc struct {
	Name          string              `json:"name" yaml:"name"`
	Role          string              `json:"matching_role" yaml:"matching_role"`
	Table         string              `json:"table_name" yaml:"table_name"`
	Attributes    map[string]string   `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Aliases       map[string]string   `json:"matching_alias,omitempty" yaml:"matching_alias,omitempty"`
	MapToMatching []reconcile.Mapping `json:"map_to_matching,omitempty" yaml:"map_to_matching,omitempty"`
	MatchingID    string              `json:"matching_id,omitempty" yaml:"matching_id,omitempty"`
	IfTableExists string              `json:"if_table_exists,omitempty" yaml:"if_table_exists,omitempty"`
	CreateTable   Bool                `json:"create_table,omitempty" yaml:"create_table,omitempty"`
}

// PolicyDoc describes one matching policy. Rule keys are rule types
// (full, residual, indirect or dfm, drm, ifm).
type PolicyDoc struct {
	Name        string                      `json:"name" yaml:"name"`
	Referential string                      `json:"referential" yaml:"referential"`
	Targets     []string                    `json:"targets,omitempty" yaml:"targets,omitempty"`
	Matching    string                      `json:"matching" yaml:"matching"`
	NoMatching  string                      `json:"no_matching" yaml:"no_matching"`
	Rules       map[string][]reconcile.Rule `json:"rules" yaml:"rules"`
}

// Bool is a boolean setting written as true/false, yes/no or 1/0.
type Bool bool

// UnmarshalJSON accepts JSON booleans, 0/1 and the strings ParseBool knows.
func (b *Bool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := utils.ToBool(v)
	if err != nil {
		return err
	}
	*b = Bool(parsed)
	return nil
}

// UnmarshalYAML accepts any scalar ParseBool knows.
func (b *Bool) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: boolean expected: %w", node.Line, utils.ErrInvalidBool)
	}
	parsed, err := utils.ParseBool(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*b = Bool(parsed)
	return nil
}
