// Package config loads the epubkit TOML configuration file.
//
// Values are read from --config, else ~/.config/epubkit/config.toml, else
// built-in defaults; command-line flags override whatever is loaded here.
package config
