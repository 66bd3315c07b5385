// Package config loads editor settings.
//
// Settings are layered: built-in defaults, then a TOML or YAML file, then
// PARALLAX_* environment variables, then command line flags applied by the
// caller.
//
//	# parallax.toml
//	[editor]
//	target_fps = 60
//
//	[plugins]
//	directory = "plugins"
//	watch = true
//
//	[logging]
//	level = "debug"
//	format = "console"
package config
