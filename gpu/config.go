package gpu

import (
	"strings"

	"github.com/gobuffalo/envy"
	log "github.com/sirupsen/logrus"
)

// Config carries environment-driven settings shared by the commands and
// examples. Library code never reads the environment on its own.
type Config struct {
	// BackendOrder overrides the default backend preference.
	BackendOrder []Backend

	// ShaderDir is the root of the on-disk shader binary tree.
	ShaderDir string

	// Debug enables verbose logging and driver validation layers where
	// a backend has them.
	Debug bool
}

// DefaultBackendOrder is used when no override is configured: the native
// API first, the browser-style API next, software last.
func DefaultBackendOrder() []Backend {
	return []Backend{BackendVulkan, BackendWebGPU, BackendSoftware}
}

// ConfigFromEnv assembles a Config from KAON_BACKENDS (comma-separated
// backend names), KAON_SHADER_DIR and KAON_DEBUG. Unset variables fall
// back to defaults; an unparsable backend name is skipped with a warning
// rather than failing startup.
func ConfigFromEnv() Config {
	cfg := Config{
		BackendOrder: DefaultBackendOrder(),
		ShaderDir:    envy.Get("KAON_SHADER_DIR", "shaders"),
		Debug:        envy.Get("KAON_DEBUG", "") != "",
	}
	if raw := envy.Get("KAON_BACKENDS", ""); raw != "" {
		var order []Backend
		for _, name := range strings.Split(raw, ",") {
			b, err := ParseBackend(strings.TrimSpace(name))
			if err != nil {
				log.WithField("name", name).Warn("gpu: skipping unknown backend in KAON_BACKENDS")
				continue
			}
			order = append(order, b)
		}
		if len(order) > 0 {
			cfg.BackendOrder = order
		}
	}
	return cfg
}
