package config

import (
	"fmt"
	"os"

	"github.com/signadot/transdoc/debug"
	"github.com/signadot/transdoc/ir"
)

// EnvVar holds a YAML object overriding configuration fields.
const EnvVar = "TRANSDOC_ENV"

func LoadEnv() (map[string]any, error) {
	s := os.Getenv(EnvVar)
	if s == "" {
		return nil, nil
	}
	y, err := ir.FromYAML([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("error decoding env $%s: %w", EnvVar, err)
	}
	env, ok := ir.ToAny(y).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("error decoding env $%s: wrong type %s", EnvVar, y.Type)
	}
	if debug.Config() {
		debug.Logf("loaded env from $%s: %v\n", EnvVar, env)
	}
	return env, nil
}
