package matching

// Config holds the matching settings of the application.
type Config struct {
	// Settings is the settings document: a file path or "s3://bucket/key".
	Settings string `mapstructure:"settings" default:"settings.yaml"`
	// Policy is used when a run does not name one.
	Policy string `mapstructure:"policy" default:""`
	// ReportPrefix is the object key prefix of uploaded run reports.
	ReportPrefix string `mapstructure:"report_prefix" default:"runs/"`
	// Enabled exposes the HTTP routes.
	Enabled bool `mapstructure:"enabled" default:"true"`
}
