package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gateway/internal/auth"
	"gateway/internal/billing"
	"gateway/internal/http/handlers"
	httpapi "gateway/internal/http/httpapi"
	"gateway/internal/infra"
	"gateway/internal/providers/nanobanana"
)

func main() {
	_ = godotenv.Load(".env", ".env.local")

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	verifier := auth.NewVerifier(cfg.AgentKey, &logger)

	images, err := nanobanana.NewClient(nanobanana.Options{
		APIKey:  cfg.VendorAPIKey,
		BaseURL: cfg.VendorBaseURL,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure vendor client")
	}

	metering := billing.NewReporter(billing.ReporterOptions{
		BaseURL:  cfg.VendorBaseURL,
		AgentKey: cfg.AgentKey,
		Logger:   &logger,
	})

	app := &handlers.App{
		Logger:         logger,
		Verifier:       verifier,
		Images:         images,
		Metering:       metering,
		CostMultiplier: cfg.CostMultiplier,
		AppName:        cfg.AppName,
		Fetch:          &http.Client{Timeout: 30 * time.Second},
	}

	server := infra.NewHTTPServer(cfg, httpapi.NewRouter(app, cfg))

	go func() {
		logger.Info().Str("addr", server.Addr()).Str("env", cfg.AppEnv).Msg("gateway listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
