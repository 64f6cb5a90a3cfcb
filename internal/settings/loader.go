package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Overrides carries CLI-flag-supplied values, the highest-precedence layer.
// A nil pointer/empty slice field means "not set on the command line".
type Overrides struct {
	DefaultPaths       []string
	Color              *bool
	GitignoreLabel     string
	SpawnableLanguages []string
	PartialsRepo       string
	EnvFile            string
}

// Load resolves RunbookSettings with precedence: Overrides (CLI flags) >
// nearest .runbookrc.yaml discovered by walking up from startDir > built-in
// defaults. Color, when neither the file nor CLI flags set it, is
// auto-detected from whether stdout is a terminal.
func Load(startDir string, overrides Overrides) (RunbookSettings, error) {
	result := Defaults()

	path, found, err := discoverConfigFile(startDir)
	if err != nil {
		return RunbookSettings{}, err
	}
	colorSetByFile := false
	if found {
		fileSettings, colorSet, err := readConfigFile(path)
		if err != nil {
			return RunbookSettings{}, err
		}
		if err := mergo.Merge(&result, fileSettings, mergo.WithOverride); err != nil {
			return RunbookSettings{}, fmt.Errorf("merge %s: %w", path, err)
		}
		colorSetByFile = colorSet
	}

	applyOverrides(&result, overrides)

	if overrides.Color == nil && !colorSetByFile {
		result.Color = term.IsTerminal(int(os.Stdout.Fd()))
	}

	if err := Validate(result); err != nil {
		return RunbookSettings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return result, nil
}

func applyOverrides(result *RunbookSettings, overrides Overrides) {
	if len(overrides.DefaultPaths) > 0 {
		result.DefaultPaths = overrides.DefaultPaths
	}
	if overrides.Color != nil {
		result.Color = *overrides.Color
	}
	if overrides.GitignoreLabel != "" {
		result.GitignoreLabel = overrides.GitignoreLabel
	}
	if len(overrides.SpawnableLanguages) > 0 {
		result.SpawnableLanguages = overrides.SpawnableLanguages
	}
	if overrides.PartialsRepo != "" {
		result.PartialsRepo = overrides.PartialsRepo
	}
	if overrides.EnvFile != "" {
		result.EnvFile = overrides.EnvFile
	}
}

// discoverConfigFile walks up from startDir looking for .runbookrc.yaml.
func discoverConfigFile(startDir string) (path string, found bool, err error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, err
	}
	for {
		candidate := filepath.Join(dir, ".runbookrc.yaml")
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, true, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// rawSettings mirrors RunbookSettings with a pointer Color field so the
// parser can distinguish "unset" from "explicitly false".
type rawSettings struct {
	DefaultPaths       []string `yaml:"default_paths,omitempty"`
	Color              *bool    `yaml:"color,omitempty"`
	GitignoreLabel     string   `yaml:"gitignore_label,omitempty"`
	SpawnableLanguages []string `yaml:"spawnable_languages,omitempty"`
	PartialsRepo       string   `yaml:"partials_repo,omitempty"`
	EnvFile            string   `yaml:"env_file,omitempty"`
}

func readConfigFile(path string) (RunbookSettings, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunbookSettings{}, false, fmt.Errorf("read %s: %w", path, err)
	}

	var raw rawSettings
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return RunbookSettings{}, false, fmt.Errorf("parse %s: %w", path, err)
	}

	settings := RunbookSettings{
		DefaultPaths:       raw.DefaultPaths,
		GitignoreLabel:     raw.GitignoreLabel,
		SpawnableLanguages: raw.SpawnableLanguages,
		PartialsRepo:       raw.PartialsRepo,
		EnvFile:            raw.EnvFile,
	}
	colorSet := raw.Color != nil
	if colorSet {
		settings.Color = *raw.Color
	}
	return settings, colorSet, nil
}
