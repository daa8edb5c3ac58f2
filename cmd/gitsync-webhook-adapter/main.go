package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/thediveo/enumflag/v2"

	"github.com/gitsync-reloader/webhook-adapter/internal/allowlist"
	"github.com/gitsync-reloader/webhook-adapter/internal/config"
	"github.com/gitsync-reloader/webhook-adapter/internal/kube"
	"github.com/gitsync-reloader/webhook-adapter/internal/logging"
	"github.com/gitsync-reloader/webhook-adapter/internal/server"
	"github.com/gitsync-reloader/webhook-adapter/internal/webhook"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gitsync-webhook-adapter",
		Short:         "Bridge git-sync webhook notifications to ConfigMap annotations",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newValidateCommand())
	return cmd
}

var logLevels = map[logging.Level][]string{
	logging.LevelDebug: {"debug"},
	logging.LevelInfo:  {"info"},
	logging.LevelWarn:  {"warn", "warning"},
	logging.LevelError: {"error"},
}

func newRunCommand() *cobra.Command {
	var (
		addr        string
		port        int
		configFiles []string
		logLevel    = logging.LevelInfo
	)

	cmd := &cobra.Command{
		Use:   "run [namespace/name ...]",
		Short: "Serve the git-sync webhook",
		Long: `Serve the git-sync webhook.

The allowlist is the union of the configured configmaps and the positional
namespace/name arguments. A malformed entry anywhere fails startup; the
service never comes up with a partial allowlist.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFiles)
			if err != nil {
				return err
			}

			// The flag wins over the config when given explicitly.
			if !cmd.Flags().Changed("log-level") {
				logLevel, err = logging.ParseLevel(cfg.Logging.LevelName())
				if err != nil {
					return err
				}
			}
			log := logging.NewLogger(logging.Config{Level: logLevel})

			allowed, err := allowlist.New(append(cfg.ConfigMaps, args...))
			if err != nil {
				return err
			}
			if allowed.Len() == 0 {
				log.Warnf("allowlist is empty, every notification will be denied")
			}
			for _, ref := range allowed.Refs() {
				log.Debugf("allowing %v", ref)
			}

			client, err := kube.NewClientset(cfg.Kubernetes)
			if err != nil {
				return err
			}

			store := kube.NewStore(client).
				WithFieldManager(cfg.Kubernetes.Manager()).
				WithLogger(log)

			handler := webhook.New().
				WithAllowlist(allowed).
				WithStore(store).
				WithLogger(log)

			service := cfg.Service
			if cmd.Flags().Changed("addr") || cmd.Flags().Changed("port") {
				service = &config.Service{Addr: net.JoinHostPort(addr, strconv.Itoa(port))}
				if cfg.Service != nil {
					service.GracefulShutdown = cfg.Service.GracefulShutdown
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Infof("allowlist has %d entries", allowed.Len())

			return server.New().
				WithConfig(service).
				WithHandler(handler).
				WithLogger(log).
				Init().
				Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "0.0.0.0", "address to listen on")
	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")
	cmd.Flags().StringArrayVarP(&configFiles, "config", "c", nil, "path to configuration file (repeatable)")
	cmd.Flags().Var(
		enumflag.New(&logLevel, "log-level", logLevels, enumflag.EnumCaseInsensitive),
		"log-level",
		"log verbosity; one of 'debug', 'info', 'warn' or 'error'")
	return cmd
}

func newValidateCommand() *cobra.Command {
	var configFiles []string

	cmd := &cobra.Command{
		Use:   "validate [namespace/name ...]",
		Short: "Validate configuration and print the effective allowlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFiles)
			if err != nil {
				return err
			}

			allowed, err := allowlist.New(append(cfg.ConfigMaps, args...))
			if err != nil {
				return err
			}

			for _, ref := range allowed.Refs() {
				fmt.Fprintln(cmd.OutOrStdout(), ref)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&configFiles, "config", "c", nil, "path to configuration file (repeatable)")
	return cmd
}

func loadConfig(paths []string) (*config.Root, error) {
	if len(paths) == 0 {
		return &config.Root{}, nil
	}

	bs, err := config.Merge(paths, false)
	if err != nil {
		return nil, err
	}
	return config.Parse(bs)
}
