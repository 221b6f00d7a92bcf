// Package cli provides the certctl administration commands.
package cli

import (
	"context"
	"errors"
	"fmt"

	"certify-backend/internal/config"
	"certify-backend/internal/infrastructure/database"
	"certify-backend/internal/pkg/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

var ErrInvalidOutputFormat = errors.New("invalid output format")

// GlobalFlags holds flags available to all commands. Empty values fall back to the
// environment (DATABASE_URL_*, CERT_SIGNING_SECRET, LOG_LEVEL).
type GlobalFlags struct {
	DatabaseURL   string
	SigningSecret string
	LogLevel      string
	Output        string
}

// env is what subcommands share after PersistentPreRunE.
type env struct {
	flags *GlobalFlags
	cfg   *config.Config
}

func (e *env) openDB() (*gorm.DB, error) {
	if e.cfg.DatabaseURL == "" {
		return nil, errors.New("no database configured: set DATABASE_URL or --database-url")
	}
	return database.Open(e.cfg.DatabaseURL)
}

func newRootCmd(flags *GlobalFlags) *cobra.Command {
	e := &env{flags: flags}

	cmd := &cobra.Command{
		Use:   "certctl",
		Short: "Administer the certificate issuance service",
		Long: `certctl runs maintenance tasks against the certificate database:
schema migration, bootstrap accounts, batch issuance from a YAML file and
verification lookups.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if flags.Output != OutputText && flags.Output != OutputJSON {
				return fmt.Errorf("%w: %q must be text or json", ErrInvalidOutputFormat, flags.Output)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if flags.DatabaseURL != "" {
				cfg.DatabaseURL = flags.DatabaseURL
			}
			if flags.SigningSecret != "" {
				cfg.SigningSecret = flags.SigningSecret
			}
			if flags.LogLevel != "" {
				cfg.LogLevel = flags.LogLevel
			}
			logger.InitWithWriter(cfg.LogLevel, cmd.ErrOrStderr())
			e.cfg = cfg
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.DatabaseURL, "database-url", "", "database DSN (postgres URL or sqlite://<path>)")
	cmd.PersistentFlags().StringVar(&flags.SigningSecret, "signing-secret", "", "certificate signing secret")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", OutputText, "output format (text|json)")

	cmd.AddCommand(newMigrateCmd(e))
	cmd.AddCommand(newCreateAdminCmd(e))
	cmd.AddCommand(newIssueCmd(e))
	cmd.AddCommand(newVerifyCmd(e))

	return cmd
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return newRootCmd(&GlobalFlags{}).ExecuteContext(ctx)
}
