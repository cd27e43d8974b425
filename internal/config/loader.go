package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFlappy loads the Flappy Dragon config.
func LoadFlappy(customPath string) (FlappyConfig, error) {
	return load("flappy", customPath, defaultFlappyYAML, DefaultFlappyConfig)
}

// LoadBouncy loads the Bouncy Balls config.
func LoadBouncy(customPath string) (BouncyConfig, error) {
	return load("bouncy", customPath, defaultBouncyYAML, DefaultBouncyConfig)
}

// LoadMars loads the Mars Base One config.
func LoadMars(customPath string) (MarsConfig, error) {
	return load("marsbase", customPath, defaultMarsYAML, DefaultMarsConfig)
}

// load searches customPath, then ~/.arcade/configs/<id>.yaml, then
// ./configs/<id>.yaml, then the embedded default. Only an explicit
// customPath that cannot be read or parsed is an error; the other locations
// are skipped when missing or malformed. Fields missing from a file keep
// their hardcoded defaults.
func load[T any](id, customPath string, embedded []byte, defaults func() T) (T, error) {
	if customPath != "" {
		cfg := defaults()
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range searchPaths(id) {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		cfg := defaults()
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	cfg := defaults()
	if err := yaml.Unmarshal(embedded, &cfg); err != nil {
		return defaults(), nil
	}
	return cfg, nil
}

func searchPaths(id string) []string {
	name := id + ".yaml"
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".arcade", "configs", name))
	}
	return append(paths, filepath.Join("configs", name))
}
