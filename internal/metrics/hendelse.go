package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
)

const (
	HendelseEventName = "hm-bigquery-sink-hendelse"
	hendelseSchemaID  = "hendelse_v2"
	kilde             = "hm-oppgave-sink"
	rutingPrefix      = kilde + ".rutingoppgave."

	UtfallForsoktHaandtert   = "forsokt.haandtert"
	UtfallOpprettet          = "opprettet"
	UtfallEksisterteAllerede = "eksisterte.allerede"
	UtfallException          = "exception"
)

type publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type Hendelse struct {
	EventID   uuid.UUID       `json:"eventId"`
	EventName string          `json:"eventName"`
	SchemaID  string          `json:"schemaId"`
	Payload   HendelsePayload `json:"payload"`
}

type HendelsePayload struct {
	Opprettet civil.DateTime    `json:"opprettet"`
	Navn      string            `json:"navn"`
	Kilde     string            `json:"kilde"`
	Data      map[string]string `json:"data"`
}

// Hendelser counts routing-task outcomes in Prometheus and mirrors them as
// hendelse events for the BigQuery sink.
type Hendelser struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewHendelser(logger *slog.Logger) *Hendelser {
	return &Hendelser{logger: logger, now: time.Now}
}

// Ruting records one outcome. Publishing is best effort; failures are logged.
func (h *Hendelser) Ruting(ctx context.Context, pub publisher, utfall, oppgavetype string) {
	RutingOppgave.WithLabelValues(utfall, oppgavetype).Inc()

	navn := rutingPrefix + utfall
	hendelse := Hendelse{
		EventID:   uuid.New(),
		EventName: HendelseEventName,
		SchemaID:  hendelseSchemaID,
		Payload: HendelsePayload{
			Opprettet: civil.DateTimeOf(h.now()),
			Navn:      navn,
			Kilde:     kilde,
			Data:      map[string]string{"type": oppgavetype},
		},
	}
	if err := pub.Publish(ctx, navn, hendelse); err != nil {
		h.logger.Warn("failed to publish hendelse", "navn", navn, "error", err)
	}
}
