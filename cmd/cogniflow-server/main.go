package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cogniflow/cogniflow/internal/config"
	"github.com/cogniflow/cogniflow/internal/domain/assessment"
	"github.com/cogniflow/cogniflow/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cogniflow-server",
		Short: "Clinical assessment scoring API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(templatesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the assessment API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// scoreCmd scores one response file against one template file without a
// running server. Useful for chart review and template development.
func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a response file against a template file",
		RunE: func(cmd *cobra.Command, args []string) error {
			templatePath, _ := cmd.Flags().GetString("template")
			responsesPath, _ := cmd.Flags().GetString("responses")
			if templatePath == "" || responsesPath == "" {
				return fmt.Errorf("--template and --responses are required")
			}

			data, err := os.ReadFile(templatePath)
			if err != nil {
				return err
			}
			tmpl, err := assessment.DecodeTemplate(data, filepath.Ext(templatePath))
			if err != nil {
				return fmt.Errorf("decode template: %w", err)
			}

			raw, err := os.ReadFile(responsesPath)
			if err != nil {
				return err
			}
			var responses map[string]interface{}
			if err := json.Unmarshal(raw, &responses); err != nil {
				return fmt.Errorf("decode responses: %w", err)
			}

			result, err := assessment.ScoreTemplate(tmpl, responses)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().String("template", "", "Path to the template file (YAML or JSON)")
	cmd.Flags().String("responses", "", "Path to the responses file (JSON)")
	return cmd
}

func templatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage questionnaire templates",
	}

	lintCmd := &cobra.Command{
		Use:   "lint",
		Short: "Check a template directory for authoring problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			repo, err := assessment.NewFileRepo(dir)
			if err != nil {
				return err
			}
			templates, total, err := repo.List(context.Background(), 0, 0)
			if err != nil {
				return err
			}

			problemCount := 0
			for _, tmpl := range templates {
				problems := assessment.LintTemplate(tmpl)
				if len(problems) == 0 {
					fmt.Printf("%s: ok\n", tmpl.ID)
					continue
				}
				problemCount += len(problems)
				fmt.Printf("%s:\n", tmpl.ID)
				for _, p := range problems {
					fmt.Printf("  - %s\n", p)
				}
			}
			fmt.Printf("%d template(s) checked, %d problem(s) found.\n", total, problemCount)
			if problemCount > 0 {
				return fmt.Errorf("lint found %d problem(s)", problemCount)
			}
			return nil
		},
	}
	lintCmd.Flags().String("dir", "./templates", "Path to the template directory")
	cmd.AddCommand(lintCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Template registry
	repo, err := assessment.NewFileRepo(cfg.TemplateDir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.TemplateDir).Msg("failed to load templates")
	}
	_, total, _ := repo.List(context.Background(), 0, 0)
	logger.Info().Int("count", total).Str("dir", cfg.TemplateDir).Msg("templates loaded")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	// API group
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	// Assessment scoring
	svc := assessment.NewService(repo)
	handler := assessment.NewHandler(svc)
	handler.RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
