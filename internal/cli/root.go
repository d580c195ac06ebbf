// Package cli implements the seoscan command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/seo-scanner/pkg/config"
	"github.com/user/seo-scanner/pkg/logger"
)

type rootOptions struct {
	envFile  string
	logLevel string

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand builds the command tree. Subcommands share the loaded
// configuration and logger through opts.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "seoscan",
		Short:         "Website SEO scanner: redirects, security headers, robots.txt, broken links, WHOIS",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.envFile)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.LogLevel = opts.logLevel
			}
			l, err := logger.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "path to a .env file (default ./.env)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	root.AddCommand(
		newServeCommand(opts),
		newScanCommand(opts),
		newRedirectsCommand(opts),
		newWhoisCommand(opts),
	)
	return root
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", colorError("✗"), err)
		os.Exit(1)
	}
}
