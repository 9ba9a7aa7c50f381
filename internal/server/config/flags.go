package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/severity/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-g string     gRPC bind address (e.g., ":50051")
//	-m string     metrics bind address, "" disables
//	-d string     PostgreSQL DSN or memory://
//	-k string     session signing key
//	-t duration   session validity (e.g., "12h")
//	-model string classifier artifact path or s3:// URI
//	-tz string    time zone for prediction timestamps
//	-log string   log file, rotated
//	-level string log level (debug, info, warn, error)
//	-r string     S3 region
//	-e string     S3 base endpoint
//	-u string     S3 access key
//	-p string     S3 secret key
//	-secure       set the Secure attribute on session cookies
//
// Only these flags are parsed; -c/-config are handled by parseFile.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-g", "-m", "-d", "-k", "-t", "-model", "-tz", "-log", "-level",
		"-r", "-e", "-u", "-p", "-secure",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "metrics address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "k", config.SecretKey, "session signing key")
	fs.DurationVar(&config.SessionValidityDuration, "t", config.SessionValidityDuration, "session validity")
	fs.StringVar(&config.ModelPath, "model", config.ModelPath, "model artifact path or s3:// URI")
	fs.StringVar(&config.TimeZone, "tz", config.TimeZone, "time zone for timestamps")
	fs.StringVar(&config.LogFile, "log", config.LogFile, "log file")
	fs.StringVar(&config.LogLevel, "level", config.LogLevel, "log level")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 access key")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 secret key")
	fs.BoolVar(&config.SecureCookies, "secure", config.SecureCookies, "secure cookies")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
