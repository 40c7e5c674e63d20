package config

type LogConfig struct {
	Level  string
	Pretty bool
}

func loadLog() LogConfig {
	return LogConfig{
		Level:  getenv("LOG_LEVEL", "info"),
		Pretty: boolenv("LOG_PRETTY", false),
	}
}
