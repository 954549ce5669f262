package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parkchat/internal/cache"
	"parkchat/internal/catalog"
	"parkchat/internal/classify"
	"parkchat/internal/config"
	"parkchat/internal/events"
	"parkchat/internal/nlp"
	"parkchat/internal/quick"
	"parkchat/internal/render"
	"parkchat/internal/resolver"
	"parkchat/internal/server"
	"parkchat/internal/store"
	"parkchat/internal/translate"
	"parkchat/internal/weather"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadServerConfig()
	if err != nil {
		logger.Error("load config failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cat, err := catalog.Load(cfg.IntentsPath)
	if err != nil {
		logger.Error("load intent catalog failed", "path", cfg.IntentsPath, "error", err)
		os.Exit(1)
	}
	logger.Info("intent catalog loaded", "path", cfg.IntentsPath, "intents", cat.Len())

	quickRules := quick.DefaultRules()
	if cfg.QuickActionsPath != "" {
		quickRules, err = quick.LoadRules(cfg.QuickActionsPath)
		if err != nil {
			logger.Error("load quick-action rules failed", "path", cfg.QuickActionsPath, "error", err)
			os.Exit(1)
		}
		logger.Info("quick-action rules loaded", "path", cfg.QuickActionsPath, "rules", len(quickRules))
	}
	quickMatcher := quick.NewMatcher(quickRules)

	var adapter classify.Adapter
	var labels []string
	var featurizer *nlp.Featurizer
	if cfg.ClassifierBaseURL != "" {
		vocab, err := nlp.LoadVocabulary(cfg.VocabularyPath)
		if err != nil {
			logger.Error("load vocabulary failed", "path", cfg.VocabularyPath, "error", err)
			os.Exit(1)
		}
		client := classify.NewClient(cfg.ClassifierBaseURL, cfg.ClassifierTimeout)
		info, err := client.Info(ctx)
		if err != nil {
			logger.Error("classifier info failed", "error", err)
			os.Exit(1)
		}
		// Width mismatch is a configuration error: refuse to serve.
		if info.InputWidth != len(vocab) {
			logger.Error("model/vocabulary width mismatch",
				"model_width", info.InputWidth,
				"vocabulary_size", len(vocab),
			)
			os.Exit(1)
		}
		adapter = client
		labels = info.Labels
		featurizer = nlp.NewFeaturizer(vocab, nlp.NewSimpleNormalizer())
		logger.Info("classifier ready", "labels", len(labels), "width", info.InputWidth)
	} else {
		logger.Info("no classifier configured, running in pattern mode")
	}

	var translator translate.Translator = translate.Noop{}
	var translationStats server.TranslationStats
	if cfg.TranslateAPIKey != "" {
		client := translate.NewClient(cfg.TranslateAPIKey, cfg.TranslateTimeout, logger)
		translator = client
		translationStats = client
	}

	renderer := render.New(cat)
	res := resolver.New(resolver.Config{
		Threshold: cfg.Threshold,
		Labels:    labels,
	}, cat, quickMatcher, featurizer, adapter, translator, renderer, logger)

	srv := server.New(res, cache.New(cfg.CacheMaxEntries), logger).
		WithWeather(weather.NewClient(cfg.WeatherTimeout)).
		WithTranslationStats(translationStats)

	if cfg.DBDSN != "" {
		st, err := store.New(ctx, cfg.DBDSN)
		if err != nil {
			logger.Error("connect db failed", "error", err)
			os.Exit(1)
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			logger.Error("migrate db failed", "error", err)
			os.Exit(1)
		}
		srv.WithStore(st)
		logger.Info("exchange log enabled")
	}

	if cfg.MQTTBrokerURL != "" {
		publisher := events.NewPublisher(events.PublisherConfig{
			BrokerURL:   cfg.MQTTBrokerURL,
			ClientID:    cfg.MQTTClientID,
			Username:    cfg.MQTTUsername,
			Password:    cfg.MQTTPassword,
			TopicPrefix: cfg.MQTTTopicPrefix,
		}, logger)
		if err := publisher.Start(ctx); err != nil {
			logger.Error("start event publisher failed", "error", err)
			os.Exit(1)
		}
		srv.WithPublisher(publisher)
		logger.Info("resolution event publisher enabled", "broker", cfg.MQTTBrokerURL)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("parkchat server started", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("received shutdown signal")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
}
