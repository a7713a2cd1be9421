package main

import (
	"context"
	"fmt"
	stdLog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/bandcoord/gateway/app"
	"github.com/Astemirdum/bandcoord/gateway/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

type flags struct {
	backendURL string
	token      string
	debug      bool
	lang       string
}

func (f *flags) config() config.Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Println("load envs from .env:", err)
	}
	ops := []config.Option{config.WithWriteTimeout(time.Minute)}
	if f.debug {
		ops = append(ops, config.WithLogLevel(zapcore.DebugLevel))
	}
	if f.backendURL != "" {
		ops = append(ops, config.WithBackendURL(f.backendURL))
	}
	return config.NewConfig(ops...)
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "bandcoord",
		Short:         "Gateway and maintenance tasks for the band coordination backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&f.backendURL, "backend-url", "", "REST backend base URL (overrides BACKEND_BASE_URL)")
	root.PersistentFlags().StringVar(&f.token, "token", "", "bearer token sent to the backend")
	root.PersistentFlags().BoolVar(&f.debug, "debug", false, "debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP gateway",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				app.Run(f.config())
			},
		},
		&cobra.Command{
			Use:   "sweep-events",
			Short: "Mark every past event as finished",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				res, err := app.SweepEvents(cmd.Context(), f.config(), f.token)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "finalized %d events (%d not saved)\n", res.Finalized, res.Failed)
				return nil
			},
		},
		&cobra.Command{
			Use:   "check-inventory",
			Short: "Report drift between instruments, loans and type counters",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				warnings, err := app.CheckInventory(cmd.Context(), f.config(), f.token)
				if err != nil {
					return err
				}
				if len(warnings) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "inventory is consistent")
					return nil
				}
				for _, w := range warnings {
					fmt.Fprintln(cmd.OutOrStdout(), w)
				}
				return fmt.Errorf("%d inconsistencies", len(warnings))
			},
		},
	)

	root.AddCommand(&cobra.Command{
		Use:   "audit-tail",
		Short: "Print mutations published to Kafka",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.TailMutations(cmd.Context(), f.config(), cmd.OutOrStdout())
		},
	})

	t := &cobra.Command{
		Use:   "t <key>",
		Short: "Look up a translation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := app.Translate(f.config(), f.lang, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	t.Flags().StringVar(&f.lang, "lang", "", "language code, defaults to I18N_DEFAULT_LANG")
	root.AddCommand(t)

	return root
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "bandcoord:", err)
		os.Exit(1)
	}
}
