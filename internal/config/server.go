package config

import "strings"

type ServerConfig struct {
	HTTPAddr     string
	ServiceName  string
	Version      string
	AllowOrigins []string
}

func loadServer() ServerConfig {
	return ServerConfig{
		HTTPAddr:     getenv("HTTP_ADDR", ":3001"),
		ServiceName:  getenv("SERVICE_NAME", "privatepay-backend"),
		Version:      getenv("SERVICE_VERSION", "1.0.0"),
		AllowOrigins: splitList(getenv("CORS_ALLOW_ORIGINS", "*")),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
