package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"database/sql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kevinkouketsu/odin-emulator/internal/config"
	"github.com/kevinkouketsu/odin-emulator/internal/handlers"
	"github.com/kevinkouketsu/odin-emulator/internal/logging"
	"github.com/kevinkouketsu/odin-emulator/internal/metrics"
	"github.com/kevinkouketsu/odin-emulator/internal/repository/postgres"
	"github.com/kevinkouketsu/odin-emulator/internal/server"
	"github.com/kevinkouketsu/odin-emulator/internal/wire"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var debug bool
	var metricsAddr string

	root := &cobra.Command{
		Use:   "odin-server",
		Short: "Account and character-selection front-end server",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML configuration file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable development-mode logging")
	root.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", ":9090", "address the Prometheus /metrics endpoint listens on")

	root.AddCommand(newServeCmd(&configPath, &debug, &metricsAddr))
	root.AddCommand(newMigrateCmd(&configPath))
	return root
}

func newServeCmd(configPath *string, debug *bool, metricsAddr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve <listen_addr> <database_url>",
		Short: "Run the account/character-selection server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath, *debug, *metricsAddr, args[0], args[1])
		},
	}
}

func runServe(configPath string, debug bool, metricsAddr, listenAddr, databaseURL string) error {
	log, err := logging.New(debug)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := config.Load(configPath, listenAddr, databaseURL)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	repo, err := postgres.Open(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}
	defer repo.Close()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	go serveMetrics(metricsAddr, reg, log)

	dispatcher := handlers.NewDispatcher(repo, cfg, log, m)
	srv := server.New(cfg, &wire.DefaultKeytable, dispatcher, log, m)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return srv.Serve(ctx, cfg.ListenAddr())
}

func serveMetrics(addr string, reg *prometheus.Registry, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("metrics server stopped", zap.Error(err))
	}
}

func newMigrateCmd(configPath *string) *cobra.Command {
	var direction string
	cmd := &cobra.Command{
		Use:   "migrate <database_url>",
		Short: "Apply or roll back database schema migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(*configPath, direction, args[0])
		},
	}
	cmd.Flags().StringVar(&direction, "direction", "up", "migration direction: up or down")
	return cmd
}

func runMigrate(configPath, direction, databaseURL string) error {
	cfg, err := config.Load(configPath, "", databaseURL)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	switch direction {
	case "up":
		return goose.Up(db, "migrations")
	case "down":
		return goose.Down(db, "migrations")
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
}
