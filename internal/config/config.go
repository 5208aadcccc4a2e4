// Package config loads the engine's scoring weights and heuristic word
// lists: built-in defaults, overridden by an optional YAML config file. A
// .env file is loaded and viper is bound to VAPT_-prefixed environment
// variables, but no setting is read from the environment; CLI flags are
// handled in cmd/scanner. Grounded in the teacher's flag-driven
// models.ScanConfig, generalized with spf13/viper for the file layer the
// teacher's single-scanner CLI never needed.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/SpaceLeam/vapt-engine/internal/models"
)

// fileConfig mirrors the subset of models.ScanConfig a YAML file may set:
// scoring weights and heuristic word lists, per spec.md §9's "externalize
// as configuration" open-question decision.
type fileConfig struct {
	Weights   *models.ScoringWeights     `yaml:"weights"`
	Wordlists *models.HeuristicWordlists `yaml:"wordlists"`
}

// Load returns the default weights and word lists, where each section the
// optional YAML file sets (weights, wordlists) replaces the whole default
// section. It is preceded by a best-effort .env load (a missing .env is not
// an error — it is optional, same as the teacher's session-cache file being
// optional); environment variables do not override any value.
func Load(configFile string) (models.ScoringWeights, models.HeuristicWordlists, error) {
	_ = godotenv.Load()

	weights := models.DefaultScoringWeights()
	wordlists := models.DefaultHeuristicWordlists()

	v := viper.New()
	v.SetEnvPrefix("VAPT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configFile == "" {
		return weights, wordlists, nil
	}

	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return weights, wordlists, fmt.Errorf("reading config file %s: %w", configFile, err)
	}

	// viper's default mapstructure decoder does not understand the yaml
	// tags on ScoringWeights/HeuristicWordlists, so the file is decoded
	// with a direct yaml.Unmarshal of the raw file bytes, which does.
	fc, err := loadRawYAML(configFile)
	if err != nil {
		return weights, wordlists, fmt.Errorf("parsing config file %s: %w", configFile, err)
	}
	if fc.Weights != nil {
		weights = *fc.Weights
	}
	if fc.Wordlists != nil {
		wordlists = *fc.Wordlists
	}
	return weights, wordlists, nil
}

func loadRawYAML(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}
