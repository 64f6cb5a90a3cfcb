// Package settings loads RunbookSettings: ambient configuration discovered
// by walking up from the working directory for a .runbookrc.yaml, merged
// over built-in defaults and validated before use.
package settings

import "github.com/go-playground/validator/v10"

// RunbookSettings is the engine's ambient configuration, optional at every
// field — defaults cover a runbook with no .runbookrc.yaml at all.
type RunbookSettings struct {
	DefaultPaths       []string `yaml:"default_paths,omitempty" validate:"omitempty,min=1,dive,required"`
	Color              bool     `yaml:"color,omitempty"`
	GitignoreLabel     string   `yaml:"gitignore_label,omitempty"`
	SpawnableLanguages []string `yaml:"spawnable_languages,omitempty" validate:"omitempty,min=1,dive,required"`
	PartialsRepo       string   `yaml:"partials_repo,omitempty" validate:"omitempty,url"`
	EnvFile            string   `yaml:"env_file,omitempty"`
}

// Defaults returns the built-in RunbookSettings baseline.
func Defaults() RunbookSettings {
	return RunbookSettings{
		DefaultPaths:       []string{"Runbook.md"},
		Color:              false,
		GitignoreLabel:     "runbook capture",
		SpawnableLanguages: []string{"shell", "sh", "bash"},
	}
}

var (
	validatorInst *validator.Validate
)

func validatorInstance() *validator.Validate {
	if validatorInst == nil {
		validatorInst = validator.New()
	}
	return validatorInst
}

// Validate runs struct-tag validation over s.
func Validate(s RunbookSettings) error {
	return validatorInstance().Struct(s)
}
