package event

import (
	"time"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"

	"github.com/navikt/hm-oppgave-sink/internal/domain"
)

const (
	JournalforingsoppgaveForTilbakefortSakName = "hm-opprettetJournalføringsoppgaveForTilbakeførtSak"
	BehandleSakOppgaveName                     = "hm-opprettetBehandleSakOppgave"
)

// Envelope carries the fields every published event has.
type Envelope struct {
	EventID   uuid.UUID      `json:"eventId"`
	EventName string         `json:"eventName"`
	Opprettet civil.DateTime `json:"opprettet"`
}

func NewEnvelope(eventName string, now time.Time) Envelope {
	return Envelope{
		EventID:   uuid.New(),
		EventName: eventName,
		Opprettet: civil.DateTimeOf(now),
	}
}

type OppgaveOpprettet struct {
	Envelope
	SoknadID  uuid.UUID       `json:"soknadId"`
	OppgaveID string          `json:"oppgaveId"`
	Sakstype  domain.Sakstype `json:"sakstype"`
	FnrBruker string          `json:"fnrBruker"`
	JoarkRef  string          `json:"joarkRef"`
}

type JournalforingsoppgaveForTilbakefortSak struct {
	Envelope
	SoknadID        uuid.UUID       `json:"soknadId"`
	OppgaveID       string          `json:"oppgaveId"`
	SakID           string          `json:"sakId"`
	Sakstype        domain.Sakstype `json:"sakstype,omitempty"`
	FnrBruker       string          `json:"fnrBruker"`
	NyJournalpostID string          `json:"nyJournalpostId"`
	AktoerID        string          `json:"aktoerId,omitempty"`
}

type BehandleSakOppgave struct {
	Envelope
	SoknadID            uuid.UUID `json:"soknadId"`
	FnrBruker           string    `json:"fnrBruker"`
	OppgaveID           string    `json:"oppgaveId"`
	Enhet               string    `json:"enhet"`
	SakID               string    `json:"sakId"`
	DokumentBeskrivelse string    `json:"dokumentBeskrivelse"`
}
