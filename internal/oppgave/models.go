package oppgave

import (
	"time"

	"github.com/golang-sql/civil"

	"github.com/navikt/hm-oppgave-sink/internal/domain"
)

const (
	StatusFerdigstilt  = "FERDIGSTILT"
	StatuskategoriApen = "AAPEN"
)

type CreateRequest struct {
	Personident          string           `json:"personident,omitempty"`
	AktoerID             string           `json:"aktoerId,omitempty"`
	Orgnr                string           `json:"orgnr,omitempty"`
	JournalpostID        string           `json:"journalpostId"`
	Beskrivelse          string           `json:"beskrivelse"`
	Temagruppe           string           `json:"temagruppe,omitempty"`
	Tema                 string           `json:"tema"`
	Oppgavetype          string           `json:"oppgavetype"`
	Behandlingstema      string           `json:"behandlingstema,omitempty"`
	Behandlingstype      string           `json:"behandlingstype,omitempty"`
	AktivDato            civil.Date       `json:"aktivDato"`
	FristFerdigstillelse civil.Date       `json:"fristFerdigstillelse"`
	Prioritet            domain.Prioritet `json:"prioritet"`
	OpprettetAvEnhetsnr  string           `json:"opprettetAvEnhetsnr,omitempty"`
	TildeltEnhetsnr      string           `json:"tildeltEnhetsnr,omitempty"`
	TilordnetRessurs     string           `json:"tilordnetRessurs,omitempty"`
}

type Oppgave struct {
	ID                 int64      `json:"id"`
	Versjon            int        `json:"versjon"`
	Status             string     `json:"status,omitempty"`
	Tema               string     `json:"tema,omitempty"`
	Oppgavetype        string     `json:"oppgavetype,omitempty"`
	Prioritet          string     `json:"prioritet,omitempty"`
	TildeltEnhetsnr    string     `json:"tildeltEnhetsnr,omitempty"`
	JournalpostID      string     `json:"journalpostId,omitempty"`
	AktoerID           string     `json:"aktoerId,omitempty"`
	Beskrivelse        string     `json:"beskrivelse,omitempty"`
	AktivDato          string     `json:"aktivDato,omitempty"`
	OpprettetTidspunkt *time.Time `json:"opprettetTidspunkt,omitempty"`
}

type SearchResponse struct {
	AntallTreffTotalt *int      `json:"antallTreffTotalt"`
	Oppgaver          []Oppgave `json:"oppgaver"`
}

type PatchRequest struct {
	Status          string `json:"status"`
	Versjon         int    `json:"versjon"`
	Oppgavetype     string `json:"oppgavetype,omitempty"`
	Prioritet       string `json:"prioritet,omitempty"`
	Tema            string `json:"tema,omitempty"`
	TildeltEnhetsnr string `json:"tildeltEnhetsnr,omitempty"`
	AktivDato       string `json:"aktivDato,omitempty"`
}
