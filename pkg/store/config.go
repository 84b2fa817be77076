package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/daily/pkg/logging"
	"tableflip.dev/daily/pkg/report"
)

// Policy decides what happens when a report with an existing token is
// generated again.
type Policy string

const (
	// PolicyOverwrite keeps one record per user, department and date.
	PolicyOverwrite Policy = "overwrite"
	// PolicyAppend keeps every generation as its own record.
	PolicyAppend Policy = "append"
)

// ParsePolicy converts a config value to a Policy. Empty means overwrite.
func ParsePolicy(raw string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return PolicyOverwrite, nil
	case PolicyOverwrite, PolicyAppend:
		return p, nil
	default:
		return PolicyOverwrite, fmt.Errorf("store: unknown history policy %q (expected overwrite or append)", raw)
	}
}

// Config is what the persistence layer needs to know.
type Config interface {
	BasePath() string
	HistoryPolicy() Policy
	TemplateVariant() string
}

// FileConfig is the resolved configuration.
type FileConfig struct {
	Path    string         `json:"path"`
	Policy  Policy         `json:"policy"`
	Variant string         `json:"variant"`
	Log     logging.Config `json:"log"`
	Source  string         `json:"source,omitempty"`
}

// BasePath is the data directory.
func (f *FileConfig) BasePath() string {
	return f.Path
}

// HistoryPolicy is the duplicate token policy.
func (f *FileConfig) HistoryPolicy() Policy {
	if f.Policy == "" {
		return PolicyOverwrite
	}
	return f.Policy
}

// TemplateVariant selects the built-in template.
func (f *FileConfig) TemplateVariant() string {
	if f.Variant == "" {
		return report.VariantFull
	}
	return f.Variant
}

// ConfigPathEnv overrides the directory searched for .daily.yaml.
const ConfigPathEnv = "DAILY_CONFIG_PATH"

// LoadConfig reads .daily.yaml from $DAILY_CONFIG_PATH, the working
// directory or the home directory, with DAILY_* environment overrides. A
// .env file in the working directory fills in unset variables.
func LoadConfig() (*FileConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("store: read .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("path", "~/.daily")
	v.SetDefault("history.policy", string(PolicyOverwrite))
	v.SetDefault("template.variant", report.VariantFull)
	v.SetDefault("log.level", logging.DefaultLevel)
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)

	v.SetConfigName(".daily") // .yaml is implicit
	v.SetEnvPrefix("DAILY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv(ConfigPathEnv); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	policy, err := ParsePolicy(v.GetString("history.policy"))
	if err != nil {
		return nil, err
	}

	return &FileConfig{
		Path:    path,
		Policy:  policy,
		Variant: v.GetString("template.variant"),
		Log: logging.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),

			MaxSizeMB:  v.GetInt("log.max_size"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age"),
		},
		Source: v.ConfigFileUsed(),
	}, nil
}
