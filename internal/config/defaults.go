// Package config provides configuration loading and defaults for codepulse.
package config

// DefaultConfigDir is the default location for codepulse configuration.
const DefaultConfigDir = "~/.config/codepulse"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "codepulse.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultServer holds the default HTTP server settings.
var DefaultServer = Server{
	Host: "localhost",
	Port: 3000,
}

// DefaultSync holds the default client sync settings. ServerURL points at
// a locally running collection server.
var DefaultSync = Sync{
	ServerURL:       "http://localhost:3000",
	IntervalMinutes: 1,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}
