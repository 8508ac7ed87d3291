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

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/errgroup"

	"github.com/navikt/hm-oppgave-sink/internal/config"
	"github.com/navikt/hm-oppgave-sink/internal/httpapi"
	"github.com/navikt/hm-oppgave-sink/internal/logging"
	"github.com/navikt/hm-oppgave-sink/internal/metrics"
	"github.com/navikt/hm-oppgave-sink/internal/oppgave"
	"github.com/navikt/hm-oppgave-sink/internal/pdl"
	"github.com/navikt/hm-oppgave-sink/internal/rapid"
	"github.com/navikt/hm-oppgave-sink/internal/sink"
	"github.com/navikt/hm-oppgave-sink/internal/skiplist"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 3 * time.Minute
	idleTimeout     = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log)
	secureLogger, secureCloser := logging.NewSecure(cfg.Log)
	defer secureCloser.Close()

	if err := run(cfg, logger, secureLogger); err != nil {
		logger.Error("hm-oppgave-sink stopped", "error", err)
		secureCloser.Close()
		os.Exit(1)
	}
}

func run(cfg config.Config, logger, secureLogger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tokens := tokenSource(ctx, cfg)
	oppgaveClient := oppgave.NewClient(cfg.OppgaveBaseURL, tokens, logger, oppgave.WithPurgeAllowed(cfg.PurgeEnabled()))
	pdlClient := pdl.NewClient(cfg.PdlBaseURL, tokens, logger)

	skip, closeSkip, err := skipList(cfg)
	if err != nil {
		return err
	}
	defer closeSkip()

	reader, err := rapid.NewReader(cfg.Kafka)
	if err != nil {
		return err
	}
	defer func() {
		_ = reader.Close()
	}()
	writer, err := rapid.NewWriter(cfg.Kafka)
	if err != nil {
		return err
	}
	defer func() {
		_ = writer.Close()
	}()

	readyCheck, err := rapid.NewReadyCheck(cfg.Kafka)
	if err != nil {
		return err
	}

	publisher := rapid.NewKafkaPublisher(writer, logger, cfg.Kafka.PublishTimeout, metrics.PublishFailures.Inc)
	rapids := rapid.New(reader, publisher, logger, secureLogger, metrics.ObserveValidationFailure, rapid.WithReadyCheck(readyCheck))

	base := sink.Base{Skip: skip, Logger: logger, SecureLogger: secureLogger}
	var overforingIdenter sink.AktoerIDResolver
	if cfg.OverforingHentAktoerID {
		overforingIdenter = pdlClient
	}
	rapids.Register(sink.NewDigitalSoknad(base, cfg.ConsumedEventName, cfg.ProducedEventName, oppgaveClient))
	rapids.Register(sink.NewRutingOppgave(base, oppgaveClient, metrics.NewHendelser(logger)))
	rapids.Register(sink.NewOverforing(base, oppgaveClient, overforingIdenter))
	rapids.Register(sink.NewBehandleSak(base, oppgaveClient, pdlClient))
	rapids.Register(sink.NewPapirsoknad(base))

	handler := httpapi.New(logger, oppgaveClient, rapids.Ready)
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      httpapi.NewRouter(cfg, handler),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("hm-oppgave-sink listening", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		return rapids.Run(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
		return nil
	})

	err = group.Wait()
	logger.Info("hm-oppgave-sink shut down")
	return err
}

func tokenSource(ctx context.Context, cfg config.Config) oauth2.TokenSource {
	if cfg.Env == config.EnvLocal && cfg.Azure.ClientID == "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "local", TokenType: "Bearer"})
	}
	ccfg := clientcredentials.Config{
		ClientID:     cfg.Azure.ClientID,
		ClientSecret: cfg.Azure.ClientSecret,
		TokenURL:     cfg.Azure.TokenURL(),
		Scopes:       []string{cfg.Azure.ProxyScope},
	}
	return ccfg.TokenSource(ctx)
}

func skipList(cfg config.Config) (skiplist.Checker, func(), error) {
	static, err := skiplist.NewStatic(cfg.SkipEventIDs)
	if err != nil {
		return nil, nil, err
	}
	if cfg.RedisAddr == "" {
		return static, func() {}, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return skiplist.Chain{static, skiplist.NewRedis(client, cfg.RedisSkipKey)}, func() { _ = client.Close() }, nil
}
