package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//
// Interpreter settings.  Everything has a default, and any of it can
// be overridden from a YAML file: $BASIC_CONFIG if set, otherwise
// ~/.basic.yaml if it exists
//

const configEnvVar = "BASIC_CONFIG"
const configFileName = ".basic.yaml"
const historyFileName = ".basic_history"

type config struct {
	Prompt           string `yaml:"prompt"`
	HistoryFile      string `yaml:"history_file"`
	Editor           string `yaml:"editor"`
	MaxLines         int    `yaml:"max_lines"`
	MaxVariables     int    `yaml:"max_variables"`
	MaxArrays        int    `yaml:"max_arrays"`
	MaxArrayElements int    `yaml:"max_array_elements"`
	ForStackDepth    int    `yaml:"for_stack_depth"`
	GosubStackDepth  int    `yaml:"gosub_stack_depth"`
	FnRecursionDepth int    `yaml:"fn_recursion_depth"`
	TabWidth         int    `yaml:"tab_width"`
}

func defaultConfig() *config {

	cfg := &config{
		Prompt:           "] ",
		Editor:           "nano",
		MaxLines:         2000,
		MaxVariables:     100,
		MaxArrays:        50,
		MaxArrayElements: 1000000,
		ForStackDepth:    100,
		GosubStackDepth:  100,
		FnRecursionDepth: 1000,
		TabWidth:         8,
	}

	if editor := os.Getenv("EDITOR"); editor != "" {
		cfg.Editor = editor
	}

	if home, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = filepath.Join(home, historyFileName)
	}

	return cfg
}

func configPath() string {

	if path := os.Getenv(configEnvVar); path != "" {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, configFileName)
}

//
// A missing default config file is fine; a missing file named by
// $BASIC_CONFIG is not
//

func loadConfig() (*config, error) {

	path := configPath()
	if path == "" {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && os.Getenv(configEnvVar) == "" {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	cfg, err := parseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

func parseConfig(data []byte) (*config, error) {

	cfg := defaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *config) validate() error {

	limits := []struct {
		name string
		val  int
	}{
		{"max_lines", cfg.MaxLines},
		{"max_variables", cfg.MaxVariables},
		{"max_arrays", cfg.MaxArrays},
		{"max_array_elements", cfg.MaxArrayElements},
		{"for_stack_depth", cfg.ForStackDepth},
		{"gosub_stack_depth", cfg.GosubStackDepth},
		{"fn_recursion_depth", cfg.FnRecursionDepth},
		{"tab_width", cfg.TabWidth},
	}

	for _, lim := range limits {
		if lim.val <= 0 {
			return fmt.Errorf("%s must be positive, got %d", lim.name, lim.val)
		}
	}

	return nil
}
