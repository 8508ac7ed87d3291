package rapid

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/navikt/hm-oppgave-sink/internal/config"
)

const (
	dialTimeout      = 10 * time.Second
	readerMaxWait    = 1 * time.Second
	writerBatchDelay = 10 * time.Millisecond
)

func newDialer(cfg config.KafkaConfig) (*kafka.Dialer, error) {
	dialer := &kafka.Dialer{Timeout: dialTimeout, DualStack: true}
	if cfg.TLSEnabled() {
		tlsConfig, err := loadTLS(cfg)
		if err != nil {
			return nil, err
		}
		dialer.TLS = tlsConfig
	}
	return dialer, nil
}

// NewReader builds a consumer-group reader for the rapid topic.
func NewReader(cfg config.KafkaConfig) (*kafka.Reader, error) {
	dialer, err := newDialer(cfg)
	if err != nil {
		return nil, err
	}

	startOffset := kafka.LastOffset
	if cfg.ResetPolicy == "earliest" {
		startOffset = kafka.FirstOffset
	}

	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.ConsumerGroupID,
		Topic:       cfg.Topic,
		Dialer:      dialer,
		StartOffset: startOffset,
		MaxWait:     readerMaxWait,
	}), nil
}

// NewWriter builds a writer that keys messages by hash so events for one
// person land on one partition.
func NewWriter(cfg config.KafkaConfig) (*kafka.Writer, error) {
	transport := &kafka.Transport{DialTimeout: dialTimeout}
	if cfg.TLSEnabled() {
		tlsConfig, err := loadTLS(cfg)
		if err != nil {
			return nil, err
		}
		transport.TLS = tlsConfig
	}

	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: writerBatchDelay,
		RequiredAcks: kafka.RequireAll,
		Transport:    transport,
	}, nil
}

// NewReadyCheck returns a check that dials the first reachable broker and
// reads the rapid topic's partitions.
func NewReadyCheck(cfg config.KafkaConfig) (func(ctx context.Context) error, error) {
	dialer, err := newDialer(cfg)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		var errs []error
		for _, broker := range cfg.Brokers {
			conn, err := dialer.DialContext(ctx, "tcp", broker)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			partitions, err := conn.ReadPartitions(cfg.Topic)
			_ = conn.Close()
			if err != nil {
				return fmt.Errorf("rapid: read partitions for %s: %w", cfg.Topic, err)
			}
			if len(partitions) == 0 {
				return fmt.Errorf("rapid: topic %s has no partitions", cfg.Topic)
			}
			return nil
		}
		return fmt.Errorf("rapid: no reachable broker: %w", errors.Join(errs...))
	}, nil
}

func loadTLS(cfg config.KafkaConfig) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(cfg.CertificatePath, cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("rapid: load kafka key pair: %w", err)
	}
	caPEM, err := os.ReadFile(cfg.CAPath)
	if err != nil {
		return nil, fmt.Errorf("rapid: read kafka ca: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("rapid: no certificates in %s", cfg.CAPath)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      pool,
		MinVersion:   tls.VersionTLS12,
	}, nil
}
