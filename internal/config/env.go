package config

import (
	"fmt"
	"strconv"
)

// Environment variables read by ApplyEnv.
const (
	EnvLogLevel      = "PARALLAX_LOG_LEVEL"
	EnvLogFormat     = "PARALLAX_LOG_FORMAT"
	EnvPluginDir     = "PARALLAX_PLUGIN_DIR"
	EnvPluginWatch   = "PARALLAX_PLUGIN_WATCH"
	EnvPluginScripts = "PARALLAX_PLUGIN_SCRIPTS"
	EnvTargetFPS     = "PARALLAX_TARGET_FPS"
)

// ApplyEnv overrides settings from environment variables. lookup is usually
// os.LookupEnv. Empty values are treated as set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok {
		c.Logging.Format = v
	}
	if v, ok := lookup(EnvPluginDir); ok {
		c.Plugins.Directory = v
	}
	if err := envBool(lookup, EnvPluginWatch, &c.Plugins.Watch); err != nil {
		return err
	}
	if err := envBool(lookup, EnvPluginScripts, &c.Plugins.Scripts); err != nil {
		return err
	}
	if v, ok := lookup(EnvTargetFPS); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTargetFPS, err)
		}
		c.Editor.TargetFPS = n
	}
	return c.Validate()
}

func envBool(lookup func(string) (string, bool), name string, dst *bool) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	switch v {
	case "yes", "on":
		*dst = true
		return nil
	case "no", "off":
		*dst = false
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = b
	return nil
}
