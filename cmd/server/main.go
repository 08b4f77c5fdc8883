package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Skufu/medpredict/internal/app"
	"github.com/Skufu/medpredict/internal/audit"
	"github.com/Skufu/medpredict/internal/config"
	"github.com/Skufu/medpredict/internal/diagnosis"
	"github.com/Skufu/medpredict/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "medpredict",
		Short:        "Multiple disease prediction service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	root.AddCommand(newPanelsCmd())
	root.AddCommand(newPredictCmd())
	return root
}

// bootstrap loads configuration, the logger and every model. It fails if any
// of them cannot be set up.
func bootstrap() (*config.Config, *zap.Logger, *app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("config error: %w", err)
	}

	logger, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("logger error: %w", err)
	}

	svc, err := app.New(cfg.ModelPaths, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, fmt.Errorf("error loading models: %w", err)
	}

	return cfg, logger, svc, nil
}

func runServer() error {
	cfg, logger, svc, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	gin.SetMode(cfg.GinMode)

	deps := routerDeps{
		App:        svc,
		Audit:      audit.Nop{},
		Logger:     logger,
		StaticRoot: detectStaticRoot(),
	}

	if cfg.EnableDB {
		db, err := audit.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("database connection failed", zap.Error(err))
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer db.Close()
		deps.DB = db
		deps.Audit = db
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logger.Info("server listening", zap.String("addr", server.Addr), zap.String("static", deps.StaticRoot))
	return waitForShutdown(server, logger, errCh)
}

func waitForShutdown(server *http.Server, logger *zap.Logger, errCh <-chan error) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
	return nil
}

func newPanelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "panels",
		Short: "List disease panels with their fields and advisory ranges",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, p := range diagnosis.Panels() {
				fmt.Fprintf(out, "%s (%s)\n", p.Name, p.ID)
				for i, f := range p.Fields {
					line := fmt.Sprintf("  %2d. %s", i+1, f.Label)
					if f.Range != "" {
						line += " [" + f.Range + "]"
					}
					fmt.Fprintln(out, line)
				}
			}
		},
	}
}

func newPredictCmd() *cobra.Command {
	var panelID string

	cmd := &cobra.Command{
		Use:   "predict --panel <id> -- <value>...",
		Short: "Run one prediction from the command line",
		Long:  "Run one prediction from the command line. Put values after -- so negative numbers are not read as flags.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, svc, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			d, err := svc.Predict(panelID, args)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), d.Text())
			if !d.OK() {
				panel, _ := svc.Panel(panelID)
				return errors.New(app.InlineError(panel, d.Err))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&panelID, "panel", "", "panel id ("+strings.Join(panelIDs(), ", ")+")")
	_ = cmd.MarkFlagRequired("panel")
	return cmd
}

func panelIDs() []string {
	panels := diagnosis.Panels()
	ids := make([]string, len(panels))
	for i, p := range panels {
		ids[i] = p.ID
	}
	return ids
}

func detectStaticRoot() string {
	startDir, err := os.Getwd()
	if err != nil {
		return "."
	}

	candidates := []string{
		startDir,
		filepath.Dir(startDir),
		filepath.Dir(filepath.Dir(startDir)),
	}

	for _, dir := range candidates {
		if fileExists(filepath.Join(dir, "index.html")) {
			return dir
		}
	}

	return startDir
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
