// Package sink holds the rivers that turn søknad events into Gosys oppgaver.
package sink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"

	"github.com/navikt/hm-oppgave-sink/internal/metrics"
	"github.com/navikt/hm-oppgave-sink/internal/oppgave"
	"github.com/navikt/hm-oppgave-sink/internal/skiplist"
)

type TaskCreator interface {
	CreateTask(ctx context.Context, req oppgave.CreateRequest) (*oppgave.Oppgave, error)
}

type RoutedTaskCreator interface {
	HasOpenTaskForJournalpost(ctx context.Context, journalpostID string) (bool, error)
	CreateRoutedTask(ctx context.Context, req oppgave.CreateRequest) (*oppgave.Oppgave, error)
}

type AktoerIDResolver interface {
	AktoerID(ctx context.Context, fnr string) (string, error)
}

// Base is shared by every sink.
type Base struct {
	Skip         skiplist.Checker
	Logger       *slog.Logger
	SecureLogger *slog.Logger
	Now          func() time.Time
}

func (b Base) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

func (b Base) today() civil.Date {
	return civil.DateOf(b.now())
}

func (b Base) skipped(ctx context.Context, eventName string, eventID uuid.UUID) (bool, error) {
	if b.Skip == nil {
		return false, nil
	}
	found, err := b.Skip.Contains(ctx, eventID)
	if err != nil {
		return false, fmt.Errorf("eventId %s: %w", eventID, err)
	}
	if found {
		b.Logger.Info("skipping event on skip list", "eventName", eventName, "eventId", eventID)
		metrics.SkippedEvents.WithLabelValues(eventName).Inc()
	}
	return found, nil
}

func failed(eventName string, eventID uuid.UUID, err error) error {
	return fmt.Errorf("%s eventId %s: %w", eventName, eventID, err)
}
