package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "SEVERITY_"

// parseEnv overlays SEVERITY_* variables. A .env file in the working
// directory is loaded first when present; real environment variables win.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	strVar(&config.EndpointAddrHTTP, "HTTP_ADDR")
	strVar(&config.EndpointAddrGRPC, "GRPC_ADDR")
	strVar(&config.MetricsAddr, "METRICS_ADDR")
	strVar(&config.DatabaseDSN, "DATABASE_DSN")
	strVar(&config.SecretKey, "SECRET_KEY")
	strVar(&config.ModelPath, "MODEL_PATH")
	strVar(&config.TimeZone, "TIME_ZONE")
	strVar(&config.LogFile, "LOG_FILE")
	strVar(&config.LogLevel, "LOG_LEVEL")
	strVar(&config.S3Region, "S3_REGION")
	strVar(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	strVar(&config.S3RootUser, "S3_ROOT_USER")
	strVar(&config.S3RootPassword, "S3_ROOT_PASSWORD")

	if v, ok := lookup("SESSION_VALIDITY_DURATION"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("%sSESSION_VALIDITY_DURATION: %w", envPrefix, err))
		}
		config.SessionValidityDuration = d
	}

	if v, ok := lookup("SECURE_COOKIES"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("%sSECURE_COOKIES: %w", envPrefix, err))
		}
		config.SecureCookies = b
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func strVar(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}
