package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/promptforge/promptforge/internal/httpapi"
	"github.com/promptforge/promptforge/internal/logger"
	"github.com/promptforge/promptforge/internal/mcp"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the promptforge HTTP API",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default: server.port from config)")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	applyLogConfig(cmd, cfg)

	assembler, cat, err := newEngine(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building engine: %v\n", err)
		os.Exit(1)
	}

	store, err := openHistory(cfg)
	if err != nil {
		logger.Warn("[Serve] history store unavailable, conversation context disabled: %v", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	trail := newTrail(cfg)

	if trail.Enabled() && cfg.Audit.RetentionDays > 0 {
		c := cron.New(cron.WithSeconds())
		_, err := c.AddFunc(normalizeCron(cfg.Audit.CleanupSchedule), func() {
			if err := trail.Cleanup(); err != nil {
				logger.Warn("[Serve] audit cleanup failed: %v", err)
			}
		})
		if err != nil {
			logger.Warn("[Serve] invalid audit cleanup schedule %q: %v", cfg.Audit.CleanupSchedule, err)
		} else {
			c.Start()
			defer func() { <-c.Stop().Done() }()
		}
	}

	port := cfg.Server.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	server := httpapi.NewServer(assembler, cat, store, trail, mcp.ServerVersion)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("[Serve] listening on http://127.0.0.1:%d (%d templates)", port, cat.Count())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("[Serve] server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
}

// normalizeCron prepends "0 " to standard 5-field cron expressions
// so they work with the 6-field (with seconds) parser.
func normalizeCron(schedule string) string {
	if len(strings.Fields(schedule)) == 5 {
		return "0 " + schedule
	}
	return schedule
}
