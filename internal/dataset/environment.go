package dataset

import (
	"fmt"
	"strings"
)

// EnvironmentTag classifies the deployment context a dataset lives in.
type EnvironmentTag string

const (
	EnvDev     EnvironmentTag = "DEV"
	EnvTest    EnvironmentTag = "TEST"
	EnvQA      EnvironmentTag = "QA"
	EnvUAT     EnvironmentTag = "UAT"
	EnvEI      EnvironmentTag = "EI"
	EnvPre     EnvironmentTag = "PRE"
	EnvStaging EnvironmentTag = "STG"
	EnvNonProd EnvironmentTag = "NON_PROD"
	EnvProd    EnvironmentTag = "PROD"
	EnvCorp    EnvironmentTag = "CORP"
)

var knownEnvironments = []EnvironmentTag{
	EnvDev, EnvTest, EnvQA, EnvUAT, EnvEI, EnvPre, EnvStaging, EnvNonProd, EnvProd, EnvCorp,
}

// ParseEnvironmentTag resolves s case-insensitively to a known tag.
func ParseEnvironmentTag(s string) (EnvironmentTag, error) {
	tag := EnvironmentTag(strings.ToUpper(strings.TrimSpace(s)))
	if err := tag.Validate(); err != nil {
		return "", err
	}
	return tag, nil
}

// Validate checks that the tag is one of the known environments.
func (e EnvironmentTag) Validate() error {
	if e == "" {
		return fmt.Errorf("environment cannot be empty")
	}
	for _, known := range knownEnvironments {
		if e == known {
			return nil
		}
	}
	return fmt.Errorf("unknown environment %q", string(e))
}

// String returns the tag as a string.
func (e EnvironmentTag) String() string {
	return string(e)
}
