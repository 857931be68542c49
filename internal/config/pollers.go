package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sevigo/build-warden/internal/core"
)

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParsing  = errors.New("config parsing failed")
	ErrInvalidPoller  = errors.New("invalid poller definition")
)

type pollersFile struct {
	Pollers []yamlPoller `yaml:"pollers"`
}

// yamlPoller uses pointers so that omitted keys keep their defaults.
type yamlPoller struct {
	Name                   string `yaml:"name"`
	TargetJob              string `yaml:"target_job"`
	LookbackHours          string `yaml:"lookback_hours"`
	RepositoryID           *int64 `yaml:"repository_id"`
	RestrictToUser         *bool  `yaml:"restrict_to_user"`
	DisableAdvisoryComment bool   `yaml:"disable_advisory_comment"`
}

// LoadPollers parses the pollers file. When the file does not exist a single
// poller is built from the POLL_* environment keys and ErrConfigNotFound is
// returned alongside it, mirroring how missing repo files are reported.
func LoadPollers(path string) ([]core.PollerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			p, envErr := pollerFromEnv()
			if envErr != nil {
				return nil, envErr
			}
			return []core.PollerConfig{p}, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParsePollers(data)
}

// ParsePollers decodes and validates a pollers document.
func ParsePollers(data []byte) ([]core.PollerConfig, error) {
	var doc pollersFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParsing, err)
	}
	if len(doc.Pollers) == 0 {
		return nil, fmt.Errorf("%w: no pollers defined", ErrConfigParsing)
	}

	seen := make(map[string]struct{}, len(doc.Pollers))
	result := make([]core.PollerConfig, 0, len(doc.Pollers))
	for i, yp := range doc.Pollers {
		p := core.DefaultPollerConfig()
		p.Name = yp.Name
		p.TargetJob = yp.TargetJob
		p.LookbackHours = yp.LookbackHours
		p.DisableAdvisoryComment = yp.DisableAdvisoryComment
		if yp.RepositoryID != nil {
			p.RepositoryID = *yp.RepositoryID
		}
		if yp.RestrictToUser != nil {
			p.RestrictToUser = *yp.RestrictToUser
		}
		if p.Name == "" {
			p.Name = p.TargetJob
		}
		if err := validatePoller(p); err != nil {
			return nil, fmt.Errorf("poller %d: %w", i, err)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate poller name %q", ErrInvalidPoller, p.Name)
		}
		seen[p.Name] = struct{}{}
		result = append(result, p)
	}
	return result, nil
}

func pollerFromEnv() (core.PollerConfig, error) {
	viper.AutomaticEnv()

	p := core.DefaultPollerConfig()
	p.TargetJob = viper.GetString("POLL_TARGET_JOB")
	p.Name = viper.GetString("POLL_NAME")
	if p.Name == "" {
		p.Name = p.TargetJob
	}
	if v := viper.GetString("POLL_LOOKBACK_HOURS"); v != "" {
		p.LookbackHours = v
	}
	if viper.IsSet("POLL_REPOSITORY_ID") {
		p.RepositoryID = viper.GetInt64("POLL_REPOSITORY_ID")
	}
	if viper.IsSet("POLL_RESTRICT_TO_USER") {
		p.RestrictToUser = viper.GetBool("POLL_RESTRICT_TO_USER")
	}
	p.DisableAdvisoryComment = viper.GetBool("POLL_DISABLE_ADVISORY_COMMENT")
	if err := validatePoller(p); err != nil {
		return core.PollerConfig{}, err
	}
	return p, nil
}

func validatePoller(p core.PollerConfig) error {
	if p.TargetJob == "" {
		return fmt.Errorf("%w: target_job must be set", ErrInvalidPoller)
	}
	if p.RepositoryID < -1 {
		return fmt.Errorf("%w: repository_id must be -1 or a repository id", ErrInvalidPoller)
	}
	return nil
}
