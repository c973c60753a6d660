package config

const (
	defaultConfigPath    = "~/.config/musicbraille/config.toml"
	configPathEnv        = "MUSICBRAILLE_CONFIG"
	defaultMaxLineLength = 40
	minLineLength        = 10
	defaultWorkers       = 4
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)
