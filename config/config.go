// Package config holds the settings value the analysis engine is built with.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lciaqsar/qsarstats/aggregate"
	"github.com/lciaqsar/qsarstats/pkg/errors"
)

// Environment variables read by LoadFromEnv.
const (
	EnvConfigPath = "QSARSTATS_CONFIG"
	EnvLogLevel   = "QSARSTATS_LOG_LEVEL"
	EnvManifest   = "QSARSTATS_MANIFEST"
)

// FeatureSelection holds the parameters feature selection was trained with.
type FeatureSelection struct {
	CriterionMetric string `yaml:"criterion_metric"`
	NFeatures       int    `yaml:"n_features"`
	NSplitsSelect   int    `yaml:"n_splits_select"`
	NRepeatsSelect  int    `yaml:"n_repeats_select"`
	NRepeatsPerm    int    `yaml:"n_repeats_perm"`
}

// Settings configures labels and parameters of an analysis run.
type Settings struct {
	FeatureSelection FeatureSelection `yaml:"feature_selection"`

	// Display labels keyed by metric, effect, exposure column and scoring
	// name. Their order is the output order.
	LabelForMetric         LabelMap `yaml:"label_for_metric"`
	LabelForEffect         LabelMap `yaml:"label_for_effect"`
	LabelForExposureColumn LabelMap `yaml:"label_for_exposure_column"`
	LabelForScoring        LabelMap `yaml:"label_for_scoring"`

	AuthoritativeLabel string `yaml:"authoritative_label"`
	SurrogateLabel     string `yaml:"surrogate_label"`
	QSARLabel          string `yaml:"qsar_label"`

	// Model key dimensions holding the target effect and the model variant
	// compared in performance summaries.
	EffectKeyName string `yaml:"effect_key_name"`
	ModelKeyName  string `yaml:"model_key_name"`

	Quantiles []float64 `yaml:"quantiles"`
	ZScore    float64   `yaml:"z_score"`

	// Aggregation reduces replicate out-of-sample predictions when no
	// method is given on the command line.
	Aggregation aggregate.Method `yaml:"aggregation"`

	// Manifest and LogLevel are used by the command line only.
	Manifest string `yaml:"manifest,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
}

// Default returns the settings used when no file overrides them.
func Default() *Settings {
	return &Settings{
		FeatureSelection: FeatureSelection{
			CriterionMetric: "r2",
			NFeatures:       10,
			NSplitsSelect:   5,
			NRepeatsSelect:  1,
			NRepeatsPerm:    5,
		},
		LabelForMetric: LabelMap{
			{Key: "r2", Label: "R²"},
			{Key: "root_mean_squared_error", Label: "RMSE"},
			{Key: "median_absolute_error", Label: "MedAE"},
		},
		LabelForScoring: LabelMap{
			{Key: "r2", Label: "R²"},
			{Key: "neg_root_mean_squared_error", Label: "-RMSE"},
		},
		LabelForEffect:         LabelMap{},
		LabelForExposureColumn: LabelMap{},
		AuthoritativeLabel:     "Authoritative",
		SurrogateLabel:         "ToxValDB",
		QSARLabel:              "QSAR",
		EffectKeyName:          "target_effect",
		ModelKeyName:           "model_build",
		Quantiles:              append([]float64(nil), aggregate.DefaultQuantiles...),
		ZScore:                 1.645,
		Aggregation:            aggregate.Mean,
		LogLevel:               "info",
	}
}

// Load reads settings from a YAML file on top of Default. A missing file
// yields the defaults.
func Load(path string) (*Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrap(err, "failed to read config")
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}
	if s.Manifest != "" && !filepath.IsAbs(s.Manifest) {
		s.Manifest = filepath.Join(filepath.Dir(path), s.Manifest)
	}
	return s, nil
}

// LoadFromEnv loads envFile when it exists, then reads the settings named by
// QSARSTATS_CONFIG (or fallback) and applies environment overrides.
func LoadFromEnv(envFile, fallback string) (*Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to load %s", envFile)
		}
	}

	path := fallback
	if p := os.Getenv(EnvConfigPath); p != "" {
		path = p
	}
	s := Default()
	if path != "" {
		var err error
		if s, err = Load(path); err != nil {
			return nil, err
		}
	}
	s.applyEnvOverrides()
	return s, nil
}

func (s *Settings) applyEnvOverrides() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		s.LogLevel = level
	}
	if manifest := os.Getenv(EnvManifest); manifest != "" {
		s.Manifest = manifest
	}
}

// Save writes the settings as YAML.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "failed to write config")
}

// Validate rejects settings the engine cannot run with.
func (s *Settings) Validate() error {
	fs := s.FeatureSelection
	for _, p := range []struct {
		name  string
		value int
	}{
		{"n_features", fs.NFeatures},
		{"n_splits_select", fs.NSplitsSelect},
		{"n_repeats_select", fs.NRepeatsSelect},
		{"n_repeats_perm", fs.NRepeatsPerm},
	} {
		if p.value <= 0 {
			return errors.NewInvalidParameterError("config.Validate", "feature_selection."+p.name, p.value, "must be positive")
		}
	}
	if fs.CriterionMetric == "" {
		return errors.NewInvalidParameterError("config.Validate", "feature_selection.criterion_metric", "", "must be set")
	}
	if s.ZScore <= 0 {
		return errors.NewInvalidParameterError("config.Validate", "z_score", s.ZScore, "must be positive")
	}
	for _, q := range s.Quantiles {
		if q < 0 || q > 1 {
			return errors.NewInvalidParameterError("config.Validate", "quantiles", q, "must be in [0, 1]")
		}
	}
	if s.EffectKeyName == "" || s.ModelKeyName == "" {
		return errors.NewValueError("config.Validate", "effect_key_name and model_key_name must be set")
	}
	return nil
}
