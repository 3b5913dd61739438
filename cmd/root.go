package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/elementsoftruth/trivia/internal/fallback"
	"github.com/elementsoftruth/trivia/internal/game"
	"github.com/elementsoftruth/trivia/internal/llm"
	"github.com/elementsoftruth/trivia/internal/questiongen"
	"github.com/elementsoftruth/trivia/internal/ratelimit"
	"github.com/elementsoftruth/trivia/internal/server"
	"github.com/elementsoftruth/trivia/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "trivia",
	Short: "Question service for the Elements of Truth board game",
	Long: "Serves LLM-generated trivia question batches over HTTP, with a\n" +
		"sliding-window rate limiter and a static fallback question bank.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Matches the original deployment's .env convention; missing file is fine.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().String("addr", "", "Listen address (overrides EOT_ADDR, default :5000)")
	rootCmd.PersistentFlags().String("fallback", "", "Path to the fallback question bank (overrides EOT_FALLBACK_FILE)")
	rootCmd.PersistentFlags().String("pages", "", "Directory of game pages to serve (overrides EOT_PAGES_DIR; empty = API only)")
	rootCmd.PersistentFlags().String("db", "", "Path to the SQLite call log (overrides EOT_DB; empty disables logging)")

	rootCmd.AddCommand(versionCmd)
}

func runServe(cmd *cobra.Command) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	addr := resolveOption(cmd, "addr", "EOT_ADDR", ":5000")
	fallbackPath := resolveOption(cmd, "fallback", "EOT_FALLBACK_FILE", "data/fallback_questions.json")
	pagesDir := resolveOption(cmd, "pages", "EOT_PAGES_DIR", "")
	dbPath := resolveOption(cmd, "db", "EOT_DB", "")
	maxPerMinute := envInt("EOT_MAX_CALLS_PER_MINUTE", 10)
	maxPerDay := envInt("EOT_MAX_CALLS_PER_DAY", 250)

	var eventRepo store.EventRepo
	if dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open call log: %w", err)
		}
		defer st.Close()
		eventRepo = st.Events()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llmCfg := llm.ConfigFromEnv()
	if err := llmCfg.Validate(); err != nil {
		if discovered, ok := llm.DiscoverConfig(); ok {
			llmCfg = discovered
		} else {
			// Boot anyway: the mock provider fails every call, so the
			// service runs fallback-only until a key is configured.
			logger.Warn("no LLM API key configured, serving fallback only", zap.Error(err))
			llmCfg.Provider = "mock"
		}
	}

	provider, err := llm.NewProvider(ctx, llmCfg, eventRepo)
	if err != nil {
		return fmt.Errorf("init LLM provider: %w", err)
	}

	limiter := ratelimit.New(maxPerMinute, maxPerDay)
	generator := questiongen.New(provider, limiter, questiongen.DefaultConfig())
	catalog := fallback.NewCatalog(fallbackPath, logger)
	service := game.NewService(limiter, generator, catalog, logger)

	srv := server.New(service, pagesDir, logger)

	logger.Info("configuration",
		zap.String("provider", llmCfg.Provider),
		zap.String("model", provider.ModelID()),
		zap.Int("max_calls_per_minute", maxPerMinute),
		zap.Int("max_calls_per_day", maxPerDay),
		zap.String("fallback", fallbackPath))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	return nil
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("EOT_DEV") != "" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// resolveOption returns the flag value, then the env var, then the default.
func resolveOption(cmd *cobra.Command, flag, env, fallbackValue string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return fallbackValue
}

func envInt(env string, fallbackValue int) int {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallbackValue
}
