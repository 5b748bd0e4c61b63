// Package cli implements cartactl, the operator command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"carta/internal/config"
	"carta/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DatabaseURL string
	RedisURL    string
	Verbose     bool
}

// NewRootCommand creates the root command of cartactl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "cartactl",
		Short:         "cartactl - operator tasks for the Carta backend",
		Long:          "Seeds accounts and catalog data and inspects the background job queues.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if opts.Verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).Level(level)
		},
	}

	// Global flags; empty values fall back to DATABASE_URL / REDIS_URL
	cmd.PersistentFlags().StringVar(&opts.DatabaseURL, "database", "", "database URL (postgres://… or sqlite://path)")
	cmd.PersistentFlags().StringVar(&opts.RedisURL, "redis", "", "redis URL")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewHashPasswordCommand())
	cmd.AddCommand(NewSeedAdminCommand(opts))
	cmd.AddCommand(NewSeedCatalogCommand(opts))
	cmd.AddCommand(NewDLQCommand(opts))

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func (o *RootOptions) openDB() (*gorm.DB, error) {
	dsn := o.DatabaseURL
	if dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		dsn = cfg.DatabaseURL
	}
	return infra.NewDatabase(dsn)
}

func (o *RootOptions) openRedis() (*redis.Client, error) {
	url := o.RedisURL
	if url == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		url = cfg.RedisURL
	}
	return infra.NewRedis(url)
}
