package rapid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/segmentio/kafka-go"
)

// Demand selects the packets a river handles by an exact field value.
type Demand struct {
	Key   string
	Value string
}

func EventName(name string) Demand {
	return Demand{Key: EventNameKey, Value: name}
}

func LegacyEventName(name string) Demand {
	return Demand{Key: LegacyEventNameKey, Value: name}
}

func (d Demand) matches(p *Packet) bool {
	return p.String(d.Key) == d.Value
}

// River handles one kind of packet. OnPacket returns a *ValidationError for
// packets that should be skipped; any other error stops the rapid without
// committing the message.
type River interface {
	Demand() Demand
	OnPacket(ctx context.Context, packet *Packet, publisher Publisher) error
}

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Rapid struct {
	reader              MessageReader
	publisher           Publisher
	logger              *slog.Logger
	secureLogger        *slog.Logger
	rivers              []River
	onValidationFailure func(eventName string)
	readyCheck          func(ctx context.Context) error
	ready               atomic.Bool
}

type Option func(*Rapid)

// WithReadyCheck runs check before consuming starts; the rapid reports ready
// once it passes. Without a check it is ready after the first fetched message.
func WithReadyCheck(check func(ctx context.Context) error) Option {
	return func(r *Rapid) {
		r.readyCheck = check
	}
}

func New(reader MessageReader, publisher Publisher, logger, secureLogger *slog.Logger, onValidationFailure func(eventName string), opts ...Option) *Rapid {
	r := &Rapid{
		reader:              reader,
		publisher:           publisher,
		logger:              logger,
		secureLogger:        secureLogger,
		onValidationFailure: onValidationFailure,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ready reports whether Run is consuming from a reachable broker.
func (r *Rapid) Ready() bool {
	return r.ready.Load()
}

func (r *Rapid) Register(river River) {
	r.rivers = append(r.rivers, river)
}

// Run consumes until ctx is cancelled or a river fails. Offsets are committed
// only after every matching river has handled the message.
func (r *Rapid) Run(ctx context.Context) error {
	defer r.ready.Store(false)
	if r.readyCheck != nil {
		if err := r.readyCheck(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("rapid: ready check: %w", err)
		}
		r.ready.Store(true)
	}

	r.logger.Info("rapid started", "rivers", len(r.rivers))
	for {
		msg, err := r.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("rapid: fetch message: %w", err)
		}
		r.ready.Store(true)

		if err := r.Dispatch(ctx, msg.Value); err != nil {
			if ctx.Err() != nil {
				r.logger.Info("shutdown interrupted message handling, offset not committed",
					"partition", msg.Partition,
					"offset", msg.Offset,
				)
				return nil
			}
			r.logger.Error("message handling failed, stopping without commit",
				"error", err,
				"partition", msg.Partition,
				"offset", msg.Offset,
			)
			return fmt.Errorf("rapid: partition %d offset %d: %w", msg.Partition, msg.Offset, err)
		}

		if err := r.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("rapid: commit offset %d: %w", msg.Offset, err)
		}
	}
}

// Dispatch hands a raw message to every river whose demand it meets.
func (r *Rapid) Dispatch(ctx context.Context, value []byte) error {
	packet, err := ParsePacket(value)
	if err != nil {
		r.logger.Warn("ignoring message that is not a json object")
		return nil
	}

	for _, river := range r.rivers {
		if !river.Demand().matches(packet) {
			continue
		}
		err := river.OnPacket(ctx, packet, r.publisher)
		var validationErr *ValidationError
		switch {
		case err == nil:
		case errors.As(err, &validationErr):
			r.logger.Info("message validation failed, see secure log for details", "eventName", validationErr.EventName)
			r.secureLogger.Info("message validation failed",
				"eventName", validationErr.EventName,
				"problems", validationErr.Err.Error(),
				"message", string(packet.Raw()),
			)
			if r.onValidationFailure != nil {
				r.onValidationFailure(validationErr.EventName)
			}
		default:
			return err
		}
	}
	return nil
}
