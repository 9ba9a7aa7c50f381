// Package ctl implements severityctl, the operator tool: it trains and
// evaluates classifier artifacts, creates accounts and talks to a running
// server over gRPC.
package ctl

import (
	"context"
	"os"

	"github.com/dmitrijs2005/severity/internal/artifactstore"
	"github.com/dmitrijs2005/severity/internal/buildinfo"
	"github.com/dmitrijs2005/severity/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// objectStore is the part of artifactstore.Store the commands use.
type objectStore interface {
	Get(ctx context.Context, uri string) ([]byte, error)
	Put(ctx context.Context, uri string, data []byte) error
}

// newStore is a test seam.
var newStore = func(ctx context.Context, o artifactstore.Options) (objectStore, error) {
	return artifactstore.New(ctx, o)
}

type app struct {
	verbose bool
	log     *logging.ZapLogger
	s3      artifactstore.Options
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// NewRootCommand builds the severityctl command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "severityctl",
		Short:         "Operate the severity prediction service",
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.NewCLILogger(a.verbose)
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	_ = godotenv.Load()

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&a.s3.Region, "s3-region", envOr("SEVERITY_S3_REGION", "us-east-1"), "object storage region")
	pf.StringVar(&a.s3.BaseEndpoint, "s3-endpoint", os.Getenv("SEVERITY_S3_BASE_ENDPOINT"), "object storage endpoint (MinIO etc.)")
	pf.StringVar(&a.s3.AccessKey, "s3-user", os.Getenv("SEVERITY_S3_ROOT_USER"), "object storage access key")
	pf.StringVar(&a.s3.SecretKey, "s3-password", os.Getenv("SEVERITY_S3_ROOT_PASSWORD"), "object storage secret key")

	root.AddCommand(
		a.trainCommand(),
		a.evaluateCommand(),
		a.userCommand(),
		a.predictCommand(),
		a.historyCommand(),
	)
	return root
}

// Execute runs severityctl with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
