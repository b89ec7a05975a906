package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"eternalpay/internal/adapters/cache"
	"eternalpay/internal/adapters/httpclient"
	"eternalpay/internal/api"
	"eternalpay/internal/config"
	"eternalpay/internal/convert"
	converthandler "eternalpay/internal/convert/handler"
	"eternalpay/internal/domain"
	httpserver "eternalpay/internal/platform/http"
	"eternalpay/internal/track"
	trackhandler "eternalpay/internal/track/handler"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const artifactCacheSize = 1024

// Run wires the application components, starts HTTP server and the rate
// refresh loop.
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	cfgLevel := appCfg.Logging.Level
	if parsedLvl, parseErr := logrus.ParseLevel(cfgLevel); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Base HTTP client (configurable timeout)
	httpTimeout := time.Duration(appCfg.API.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}

	// Wire clients against the remote pricing/transaction service
	apiBaseURL := strings.TrimSuffix(appCfg.API.BaseURL, "/")
	if apiBaseURL == "" {
		return fmt.Errorf("api base url is required")
	}
	quoteClient := httpclient.NewQuoteClient(baseHTTPClient, apiBaseURL)
	txClient := httpclient.NewTransactionClient(baseHTTPClient, apiBaseURL)
	pixClient := httpclient.NewPixClient(baseHTTPClient, apiBaseURL)

	// Conversion engine and its rate refresh loop
	engine := convert.NewEngine(convert.Options{
		FeeRate:              decimal.NewFromFloat(appCfg.Converter.FeeRate),
		MinFiatValue:         decimal.NewFromFloat(appCfg.Converter.MinFiatValue),
		MaxFiatValue:         decimal.NewFromFloat(appCfg.Converter.MaxFiatValue),
		AllowDirectionToggle: appCfg.Converter.AllowDirectionToggle,
	})
	fetcher := convert.NewFetcher(quoteClient, time.Second)
	refresher := convert.NewRefresher(fetcher, engine, time.Duration(appCfg.Converter.RefreshSeconds)*time.Second)
	// Ensure refresher stops before the server exits
	defer func() {
		if shutDownErr := refresher.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Refresher shutdown error: %v", shutDownErr)
		}
	}()
	if startErr := refresher.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start rate refresher")
		return startErr
	}
	logrus.Info("✅ Rate refresher activation successful")

	submitter := convert.NewSubmitter(engine, txClient)

	// Transaction tracking with Pix artifact generation
	artifactTTL := time.Duration(appCfg.Tracker.ArtifactTTLMinutes) * time.Minute
	artifactCache, err := cache.NewArtifactCache(artifactCacheSize, artifactTTL)
	if err != nil {
		logrus.WithError(err).Error("Failed to create artifact cache")
		return err
	}
	defer artifactCache.Close()

	merchant := domain.PixMerchant{
		Name: appCfg.Pix.MerchantName,
		City: appCfg.Pix.MerchantCity,
		Key:  appCfg.Pix.Key,
	}
	pixService := track.NewPixService(pixClient, artifactCache, merchant, appCfg.Pix.QRImageBaseURL)
	registry := track.NewRegistry(ctx, txClient, pixService, time.Duration(appCfg.Tracker.PollSeconds)*time.Second)
	defer registry.StopAll()
	logrus.Info("✅ Transaction tracking ready")

	// Handlers and router
	converterHandler := converthandler.NewConverterHandler(engine, submitter)
	trackingHandler := trackhandler.NewTrackingHandler(registry)
	router := api.NewRouter(converterHandler, trackingHandler)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop the refresher and trackers
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}
