package directive

import (
	"os"
	"strings"
)

// UnknownPolicy controls how the inspector pipeline responds to a fence that
// no inspector claims.
type UnknownPolicy string

const (
	// PolicyStrict turns an unrecognized fence into a fence-issue.
	PolicyStrict UnknownPolicy = "strict"
	// PolicyWarn proceeds silently, leaving the fence unscheduled.
	PolicyWarn UnknownPolicy = "warn"
)

// InspectorPolicy configures the pipeline's handling of unclaimed fences.
type InspectorPolicy struct {
	OnUnknown UnknownPolicy
}

// DefaultPolicy returns an environment-aware default: strict under CI,
// warn otherwise.
func DefaultPolicy() InspectorPolicy {
	if isCIEnvironment() {
		return InspectorPolicy{OnUnknown: PolicyStrict}
	}
	return InspectorPolicy{OnUnknown: PolicyWarn}
}

func isCIEnvironment() bool {
	ciEnvVars := []string{
		"CI",
		"CONTINUOUS_INTEGRATION",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_HOME",
	}

	for _, key := range ciEnvVars {
		value := strings.TrimSpace(os.Getenv(key))
		if value != "" && strings.ToLower(value) != "false" && value != "0" {
			return true
		}
	}

	return false
}
