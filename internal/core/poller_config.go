package core

// PollerConfig represents one entry of the pollers.yml file. Each entry is an
// independent polling configuration with its own dedup state.
type PollerConfig struct {
	// Name scopes the dedup state. It must be unique.
	Name string `yaml:"name"`

	// TargetJob is the build job triggered for every new review.
	TargetJob string `yaml:"target_job"`

	// LookbackHours is kept as text: blank, non-numeric or negative
	// values fall back to one hour when the window is computed.
	LookbackHours string `yaml:"lookback_hours"`

	// RepositoryID restricts polling to one repository. -1 polls all of them.
	RepositoryID int64 `yaml:"repository_id"`

	RestrictToUser         bool `yaml:"restrict_to_user"`
	DisableAdvisoryComment bool `yaml:"disable_advisory_comment"`
}

// DefaultPollerConfig returns a config with default values.
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		LookbackHours:  "1",
		RepositoryID:   -1,
		RestrictToUser: true,
	}
}
