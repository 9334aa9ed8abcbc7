package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sportform/predictui"
	"github.com/sportform/predictui/internal/config"
	"github.com/sportform/predictui/internal/server"
	"github.com/sportform/predictui/pkg/predict"
	"github.com/sportform/predictui/pkg/render"
	"github.com/sportform/predictui/pkg/renderers/tui"
)

var (
	cfgPath string
	apiURL  string
	logger  *zap.Logger
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "predictui",
	Short: "HTML front-end for the performance prediction API",
	Long: `predictui serves a schema-driven HTML form for an ML prediction
server and relays submissions to it. It can also run a prediction
interactively from the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if apiURL != "" {
			cfg.APIBaseURL = apiURL
		}

		zcfg := zap.NewProductionConfig()
		level, perr := zapcore.ParseLevel(cfg.LogLevel)
		if perr != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, perr)
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the prediction form over HTTP",
	RunE:  runServe,
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run a prediction interactively from the terminal",
	RunE:  runPredict,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the prediction server's form schema as JSON",
	RunE:  runSchema,
}

var parseCmd = &cobra.Command{
	Use:   "parse [text]",
	Short: "Extract features from a free-text description",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "prediction server base URL (overrides config)")
	rootCmd.AddCommand(serveCmd, predictCmd, schemaCmd, parseCmd)
}

func newAPIClient() *predict.Client {
	return predict.NewClient(cfg.APIBaseURL, predict.WithTimeout(cfg.RequestTimeout.Std()))
}

func runServe(cmd *cobra.Command, _ []string) error {
	renderer, err := predictui.DefaultRegistry().Get(cfg.Renderer)
	if err != nil {
		return err
	}

	srv, err := server.New(newAPIClient(), renderer, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Handler(),
	}

	logger.Info("listening",
		zap.String("addr", cfg.ListenAddr),
		zap.String("api", cfg.APIBaseURL),
		zap.String("renderer", cfg.Renderer),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errChan:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	return nil
}

func runPredict(cmd *cobra.Command, _ []string) error {
	client := newAPIClient()
	sch, err := client.Schema(cmd.Context())
	if err != nil {
		return err
	}

	renderer := tui.New()
	raw, err := renderer.RenderForm(cmd.Context(), sch, render.FormOptions{})
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			return nil
		}
		return err
	}

	var features predict.Features
	if err := json.Unmarshal(raw, &features); err != nil {
		return fmt.Errorf("decode collected features: %w", err)
	}

	result, err := client.Predict(cmd.Context(), features)
	out, rerr := renderer.RenderResult(cmd.Context(), render.Outcome{Result: result, Err: err})
	if rerr != nil {
		return rerr
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func runSchema(cmd *cobra.Command, _ []string) error {
	sch, err := newAPIClient().Schema(cmd.Context())
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(sch)
}

func runParse(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("text is required")
	}

	parsed, err := newAPIClient().ParseText(cmd.Context(), text)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(parsed.Features); err != nil {
		return err
	}
	if parsed.Message != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), parsed.Message)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
