package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"esg-matching/core/reconcile"
	"esg-matching/core/storage"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a settings document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	// ErrUnknownPolicy is returned when a policy name is not declared.
	ErrUnknownPolicy = fmt.Errorf("unknown policy: %w", reconcile.ErrInvalidPolicy)
	// ErrUnknownDatasource is returned when a datasource name is not declared.
	ErrUnknownDatasource = fmt.Errorf("unknown datasource: %w", reconcile.ErrInvalidDescriptor)
	// ErrNoStorage is returned when an s3:// source is loaded without a storage client.
	ErrNoStorage = errors.New("object storage is not configured")
)

// Settings holds the validated datasources and policies of a document.
type Settings struct {
	Descriptors map[string]*reconcile.Descriptor
	Policies    map[string]*reconcile.Policy
}

// Loader reads settings documents from local files or object storage.
type Loader struct {
	client storage.Client
}

// NewLoader creates a loader. client may be nil when only local files are read.
func NewLoader(client storage.Client) *Loader {
	return &Loader{client: client}
}

// Load reads and validates the settings at src, a file path or an
// "s3://bucket/key" location.
func Load(ctx context.Context, src string) (*Settings, error) {
	return NewLoader(nil).Load(ctx, src)
}

// Load reads and validates the settings at src.
func (l *Loader) Load(ctx context.Context, src string) (*Settings, error) {
	var data []byte
	if bucket, key, ok := storage.ParseURI(src); ok {
		if l.client == nil {
			return nil, fmt.Errorf("settings %s: %w", src, ErrNoStorage)
		}
		obj, err := storage.ReadObject(ctx, l.client, bucket, key)
		if err != nil {
			return nil, fmt.Errorf("settings %s: %w", src, err)
		}
		data = obj
	} else {
		file, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("settings %s: %w", src, err)
		}
		data = file
	}

	s, err := Parse(data, DetectFormat(src, data))
	if err != nil {
		return nil, fmt.Errorf("settings %s: %w", src, err)
	}
	return s, nil
}

// DetectFormat picks the format from the file extension, then from the first
// non-blank byte of the content.
func DetectFormat(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

// Parse decodes a document and validates it. Unknown fields are rejected.
func Parse(data []byte, format Format) (*Settings, error) {
	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported settings format %q", format)
	}
	return FromDocument(doc)
}

// FromDocument converts and validates a decoded document. Every problem is
// reported.
func FromDocument(doc Document) (*Settings, error) {
	s := &Settings{
		Descriptors: make(map[string]*reconcile.Descriptor, len(doc.Datasources)),
		Policies:    make(map[string]*reconcile.Policy, len(doc.Policies)),
	}

	var err error
	for _, dd := range doc.Datasources {
		d, derr := dd.descriptor()
		if derr != nil {
			err = multierr.Append(err, derr)
			continue
		}
		if _, dup := s.Descriptors[d.Name]; dup {
			err = multierr.Append(err, fmt.Errorf("datasource %q is declared twice: %w", d.Name, reconcile.ErrInvalidDescriptor))
			continue
		}
		s.Descriptors[d.Name] = d
	}

	for _, pd := range doc.Policies {
		p, perr := pd.policy()
		if perr != nil {
			err = multierr.Append(err, perr)
			continue
		}
		if _, dup := s.Policies[p.Name]; dup {
			err = multierr.Append(err, fmt.Errorf("policy %q is declared twice: %w", p.Name, reconcile.ErrInvalidPolicy))
			continue
		}
		s.Policies[p.Name] = p
		err = multierr.Append(err, s.checkReferences(p))
	}

	if err != nil {
		return nil, err
	}
	return s, nil
}

func (dd DatasourceDoc) descriptor() (*reconcile.Descriptor, error) {
	var err error
	role, rerr := reconcile.ParseRole(dd.Role)
	if rerr != nil {
		err = multierr.Append(err, fmt.Errorf("datasource %q: %w", dd.Name, rerr))
	}
	var ifExists reconcile.TableExistsPolicy
	if dd.IfTableExists != "" || role.IsResult() {
		p, perr := reconcile.ParseTableExistsPolicy(dd.IfTableExists)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("datasource %q: %w", dd.Name, perr))
		}
		ifExists = p
	}
	if err != nil {
		return nil, err
	}

	d := &reconcile.Descriptor{
		Name:          dd.Name,
		Role:          role,
		Table:         dd.Table,
		Attributes:    dd.Attributes,
		Aliases:       dd.Aliases,
		MapToMatching: dd.MapToMatching,
		MatchingID:    dd.MatchingID,
		IfTableExists: ifExists,
		CreateTable:   bool(dd.CreateTable),
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (pd PolicyDoc) policy() (*reconcile.Policy, error) {
	p := &reconcile.Policy{
		Name:        pd.Name,
		Referential: pd.Referential,
		Targets:     pd.Targets,
		Matching:    pd.Matching,
		NoMatching:  pd.NoMatching,
		Rules:       make(map[reconcile.RuleType][]reconcile.Rule, len(pd.Rules)),
	}

	var err error
	keys := make([]string, 0, len(pd.Rules))
	for k := range pd.Rules {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		t, terr := reconcile.ParseRuleType(k)
		if terr != nil {
			err = multierr.Append(err, fmt.Errorf("policy %q: %w", pd.Name, terr))
			continue
		}
		if _, dup := p.Rules[t]; dup {
			err = multierr.Append(err, fmt.Errorf("policy %q: rule type %s is declared twice: %w", pd.Name, t, reconcile.ErrInvalidPolicy))
			continue
		}
		p.Rules[t] = pd.Rules[k]
	}
	err = multierr.Append(err, p.Validate())
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Settings) checkReferences(p *reconcile.Policy) error {
	var err error
	check := func(name string, role reconcile.Role) {
		d, ok := s.Descriptors[name]
		switch {
		case !ok:
			err = multierr.Append(err, fmt.Errorf("policy %q: %s %q: %w", p.Name, role, name, ErrUnknownDatasource))
		case d.Role != role:
			err = multierr.Append(err, fmt.Errorf("policy %q: datasource %q has role %s, want %s: %w",
				p.Name, name, d.Role, role, reconcile.ErrInvalidPolicy))
		}
	}
	check(p.Referential, reconcile.RoleReferential)
	check(p.Matching, reconcile.RoleMatching)
	check(p.NoMatching, reconcile.RoleNoMatching)
	for _, t := range p.Targets {
		check(t, reconcile.RoleTarget)
	}
	return err
}

// PolicyNames returns the declared policy names, sorted.
func (s *Settings) PolicyNames() []string {
	names := make([]string, 0, len(s.Policies))
	for name := range s.Policies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Policy returns the named policy.
func (s *Settings) Policy(name string) (*reconcile.Policy, error) {
	p, ok := s.Policies[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownPolicy)
	}
	return p, nil
}

// Targets returns the targets of a policy in declaration order. A policy
// without an explicit list applies to every target datasource, sorted by name.
func (s *Settings) Targets(policy string) ([]string, error) {
	p, err := s.Policy(policy)
	if err != nil {
		return nil, err
	}
	if len(p.Targets) > 0 {
		return slices.Clone(p.Targets), nil
	}
	var targets []string
	for name, d := range s.Descriptors {
		if d.Role == reconcile.RoleTarget {
			targets = append(targets, name)
		}
	}
	slices.Sort(targets)
	return targets, nil
}

// Bind resolves a policy and a target into a binding for the matchers.
func (s *Settings) Bind(policy, target string) (reconcile.Binding, error) {
	p, err := s.Policy(policy)
	if err != nil {
		return reconcile.Binding{}, err
	}
	t, ok := s.Descriptors[target]
	if !ok {
		return reconcile.Binding{}, fmt.Errorf("target %q: %w", target, ErrUnknownDatasource)
	}
	b := reconcile.Binding{
		Policy:      p,
		Target:      t,
		Referential: s.Descriptors[p.Referential],
		Matching:    s.Descriptors[p.Matching],
		NoMatching:  s.Descriptors[p.NoMatching],
	}
	if err := b.Validate(); err != nil {
		return reconcile.Binding{}, err
	}
	return b, nil
}
