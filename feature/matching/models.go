package matching

import (
	"time"

	"esg-matching/core/reconcile"
)

// RunRequest selects what a run matches.
type RunRequest struct {
	// Policy is the policy name. The configured default is used when empty.
	Policy string `json:"policy" example:"esg"`
	// Targets restricts the run to some targets of the policy.
	Targets []string `json:"targets,omitempty" example:"portfolio"`
	// Types restricts the run to some matching types (full, residual, indirect).
	Types []string `json:"types,omitempty" example:"full"`
	// DryRun renders the statements without executing them.
	DryRun bool `json:"dry_run,omitempty"`
}

// TargetReport is what a run did for one target.
type TargetReport struct {
	Target    string              `json:"target"`
	Seeded    int64               `json:"seeded"`
	Summaries []reconcile.Summary `json:"summaries"`
}

// RunReport is the outcome of a run.
type RunReport struct {
	RunID      string         `json:"run_id"`
	Policy     string         `json:"policy"`
	DryRun     bool           `json:"dry_run"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Targets    []TargetReport `json:"targets"`
	Matched    int64          `json:"matched"`
	// ReportURI is where the report was uploaded, if it was.
	ReportURI string `json:"report_uri,omitempty"`
}

// PolicyInfo describes a policy for listings.
type PolicyInfo struct {
	Name        string   `json:"name"`
	Referential string   `json:"referential"`
	Targets     []string `json:"targets"`
	Types       []string `json:"types"`
}
