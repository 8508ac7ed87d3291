package event

import (
	"github.com/goccy/go-json"
	"github.com/golang-sql/civil"
	"github.com/google/uuid"

	"github.com/navikt/hm-oppgave-sink/internal/domain"
)

const (
	RutingOppgaveName          = "hm-ruting-oppgave"
	MottattJournalpostName     = "hm-opprettetMottattJournalpost"
	SakTilbakefortName         = "hm-sakTilbakeførtOebs"
	PapirsoknadJournalfortName = "PapirSoeknadMidlertidigJournalfoert"
)

// DigitalSoknad is a digitally submitted application that has been archived.
type DigitalSoknad struct {
	EventID       uuid.UUID       `json:"eventId"   validate:"required"`
	SoknadID      uuid.UUID       `json:"soknadId"  validate:"required_without=SoknadIDAlias"`
	SoknadIDAlias uuid.UUID       `json:"søknadId"`
	FnrBruker     string          `json:"fnrBruker" validate:"required"`
	JoarkRef      Ref             `json:"joarkRef"  validate:"required"`
	Sakstype      domain.Sakstype `json:"sakstype"  validate:"required"`
	ErHast        *bool           `json:"erHast"    validate:"required"`
}

func (s DigitalSoknad) Soknad() uuid.UUID {
	return firstUUID(s.SoknadID, s.SoknadIDAlias)
}

// RutingOppgave is a routing decision made upstream. Fields that older
// producers never sent are optional.
type RutingOppgave struct {
	EventID              uuid.UUID      `json:"eventId"              validate:"required"`
	Opprettet            civil.DateTime `json:"opprettet"            validate:"required"`
	AktoerID             string         `json:"aktoerId"`
	Orgnr                string         `json:"orgnr"`
	JournalpostID        Ref            `json:"journalpostId"        validate:"required"`
	Tema                 string         `json:"tema"                 validate:"required"`
	Behandlingstema      string         `json:"behandlingstema"`
	Behandlingtype       string         `json:"behandlingtype"`
	Behandlingstype      string         `json:"behandlingstype"`
	Oppgavetype          string         `json:"oppgavetype"          validate:"required"`
	AktivDato            civil.Date     `json:"aktivDato"            validate:"required"`
	Prioritet            string         `json:"prioritet"`
	OpprettetAvEnhetsnr  string         `json:"opprettetAvEnhetsnr"  validate:"required"`
	FristFerdigstillelse civil.Date     `json:"fristFerdigstillelse" validate:"required"`
	TildeltEnhetsnr      string         `json:"tildeltEnhetsnr"`
	Beskrivelse          string         `json:"beskrivelse"          validate:"required"`
}

// BehandlingstypeOrAlias returns behandlingstype, accepting the misspelt key
// older producers used.
func (r RutingOppgave) BehandlingstypeOrAlias() string {
	if r.Behandlingstype != "" {
		return r.Behandlingstype
	}
	return r.Behandlingtype
}

// PrioritetOrDefault falls back to NORM for producers that did not send it.
func (r RutingOppgave) PrioritetOrDefault() domain.Prioritet {
	if r.Prioritet == "" {
		return domain.PrioritetNorm
	}
	return domain.Prioritet(r.Prioritet)
}

// MottattJournalpost is a case transferred back from Hotsak to Gosys with a
// new journalpost.
type MottattJournalpost struct {
	EventID        uuid.UUID       `json:"eventId"        validate:"required"`
	JoarkRef       Ref             `json:"joarkRef"       validate:"required_without=JournalpostID"`
	JournalpostID  Ref             `json:"journalpostId"`
	FodselNrBruker string          `json:"fodselNrBruker" validate:"required_without=FnrBruker"`
	FnrBruker      string          `json:"fnrBruker"`
	SoknadID       uuid.UUID       `json:"soknadId"       validate:"required_without=SoknadIDAlias"`
	SoknadIDAlias  uuid.UUID       `json:"søknadId"`
	SakID          Ref             `json:"sakId"          validate:"required"`
	Sakstype       domain.Sakstype `json:"sakstype"`
	Enhet          string          `json:"enhet"          validate:"required_if=Sakstype BARNEBRILLER"`
	NavIdent       string          `json:"navIdent"`
	ValgteArsaker  []string        `json:"valgteÅrsaker"`
	Begrunnelse    string          `json:"begrunnelse"`
	SoknadJSON     json.RawMessage `json:"soknadJson"`
}

func (m MottattJournalpost) Journalpost() string {
	if m.JournalpostID != "" {
		return m.JournalpostID.String()
	}
	return m.JoarkRef.String()
}

func (m MottattJournalpost) Fnr() string {
	if m.FnrBruker != "" {
		return m.FnrBruker
	}
	return m.FodselNrBruker
}

func (m MottattJournalpost) Soknad() uuid.UUID {
	return firstUUID(m.SoknadID, m.SoknadIDAlias)
}

// SakstypeOrDefault treats a missing sakstype as an ordinary application.
func (m MottattJournalpost) SakstypeOrDefault() domain.Sakstype {
	if m.Sakstype == "" {
		return domain.SakstypeSoknad
	}
	return m.Sakstype
}

// ErHast is true when soknadJson.soknad.hast is present and not null.
func (m MottattJournalpost) ErHast() bool {
	if len(m.SoknadJSON) == 0 {
		return false
	}
	var soknadJSON struct {
		Soknad *struct {
			Hast json.RawMessage `json:"hast"`
		} `json:"soknad"`
	}
	if err := json.Unmarshal(m.SoknadJSON, &soknadJSON); err != nil || soknadJSON.Soknad == nil {
		return false
	}
	hast := soknadJSON.Soknad.Hast
	return len(hast) > 0 && string(hast) != "null"
}

// SakTilbakefort is a case sent back from the accounting system that needs a
// BEH_SAK task.
type SakTilbakefort struct {
	EventID             uuid.UUID `json:"eventId"             validate:"required"`
	SoknadID            uuid.UUID `json:"soknadId"            validate:"required"`
	FnrBruker           string    `json:"fnrBruker"           validate:"required"`
	JoarkRef            Ref       `json:"joarkRef"            validate:"required"`
	Enhet               string    `json:"enhet"               validate:"required"`
	Saksnummer          Ref       `json:"saksnummer"          validate:"required"`
	DokumentBeskrivelse string    `json:"dokumentBeskrivelse" validate:"required"`
}

// PapirsoknadJournalfort is only counted.
type PapirsoknadJournalfort struct {
	FodselNrBruker string `json:"fodselNrBruker" validate:"required"`
}

func firstUUID(ids ...uuid.UUID) uuid.UUID {
	for _, id := range ids {
		if id != uuid.Nil {
			return id
		}
	}
	return uuid.Nil
}
