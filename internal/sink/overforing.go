package sink

import (
	"context"
	"errors"
	"strconv"

	"github.com/navikt/hm-oppgave-sink/internal/domain"
	"github.com/navikt/hm-oppgave-sink/internal/event"
	"github.com/navikt/hm-oppgave-sink/internal/metrics"
	"github.com/navikt/hm-oppgave-sink/internal/oppgave"
	"github.com/navikt/hm-oppgave-sink/internal/rapid"
)

const overfortBegrunnelse = ". Overført av saksbehandler i Hotsak med begrunnelse: "

// Overforing creates a journalføringsoppgave for a case a caseworker moved
// from Hotsak back to Gosys.
type Overforing struct {
	Base
	oppgaver TaskCreator
	identer  AktoerIDResolver
}

// NewOverforing wires the sink. identer may be nil, in which case no aktørId
// is resolved for the outbound event.
func NewOverforing(base Base, oppgaver TaskCreator, identer AktoerIDResolver) *Overforing {
	return &Overforing{Base: base, oppgaver: oppgaver, identer: identer}
}

func (s *Overforing) Demand() rapid.Demand {
	return rapid.EventName(event.MottattJournalpostName)
}

func (s *Overforing) OnPacket(ctx context.Context, packet *rapid.Packet, publisher rapid.Publisher) error {
	var journalpost event.MottattJournalpost
	if err := rapid.Decode(packet, &journalpost); err != nil {
		return err
	}
	if skip, err := s.skipped(ctx, event.MottattJournalpostName, journalpost.EventID); skip || err != nil {
		return err
	}

	s.Logger.Info("transferred case received",
		"sakId", journalpost.SakID,
		"sakstype", journalpost.Sakstype,
		"soknadId", journalpost.Soknad(),
		"journalpostId", journalpost.Journalpost(),
	)

	// aktørId is resolved before the task is created; a failed lookup must not
	// leave a task behind.
	var aktoerID string
	if s.identer != nil {
		id, err := s.identer.AktoerID(ctx, journalpost.Fnr())
		if err != nil {
			s.Logger.Error("failed to resolve aktørId for transferred case", "sakId", journalpost.SakID, "error", err)
			return failed(event.MottattJournalpostName, journalpost.EventID, err)
		}
		metrics.HentetAktorID.Inc()
		aktoerID = id
	}

	req, err := s.request(journalpost)
	if err != nil {
		return failed(event.MottattJournalpostName, journalpost.EventID, err)
	}
	created, err := s.oppgaver.CreateTask(ctx, req)
	if err != nil {
		s.Logger.Error("failed to create journalføringsoppgave for transferred case",
			"sakId", journalpost.SakID,
			"journalpostId", journalpost.Journalpost(),
			"error", err,
		)
		return failed(event.MottattJournalpostName, journalpost.EventID, err)
	}
	oppgaveID := strconv.FormatInt(created.ID, 10)

	err = publisher.Publish(ctx, journalpost.Fnr(), event.JournalforingsoppgaveForTilbakefortSak{
		Envelope:        event.NewEnvelope(event.JournalforingsoppgaveForTilbakefortSakName, s.now()),
		SoknadID:        journalpost.Soknad(),
		OppgaveID:       oppgaveID,
		SakID:           journalpost.SakID.String(),
		Sakstype:        journalpost.Sakstype,
		FnrBruker:       journalpost.Fnr(),
		NyJournalpostID: journalpost.Journalpost(),
		AktoerID:        aktoerID,
	})
	if err != nil {
		return failed(event.MottattJournalpostName, journalpost.EventID, err)
	}

	metrics.OppgaveOpprettet.Inc()
	s.Logger.Info("journalføringsoppgave created for transferred case",
		"sakId", journalpost.SakID,
		"journalpostId", journalpost.Journalpost(),
		"oppgaveId", oppgaveID,
	)
	return nil
}

func (s *Overforing) request(journalpost event.MottattJournalpost) (oppgave.CreateRequest, error) {
	today := s.today()
	req := oppgave.CreateRequest{
		Personident:          journalpost.Fnr(),
		JournalpostID:        journalpost.Journalpost(),
		Tema:                 domain.Tema,
		Oppgavetype:          domain.OppgavetypeJournalforing,
		AktivDato:            today,
		FristFerdigstillelse: today,
		TilordnetRessurs:     journalpost.NavIdent,
	}

	sakstype := journalpost.SakstypeOrDefault()
	prioritet := domain.PrioritetFor(journalpost.ErHast())
	beskrivelse, err := sakstype.Describe(prioritet)
	switch {
	case errors.Is(err, domain.ErrBarnebriller):
		briller := domain.Barnebriller(journalpost.ValgteArsaker, journalpost.Begrunnelse)
		req.Beskrivelse = briller.Beskrivelse
		req.Behandlingstema = briller.Behandlingstema
		req.Prioritet = domain.PrioritetNorm
		req.OpprettetAvEnhetsnr = journalpost.Enhet
		req.TildeltEnhetsnr = journalpost.Enhet
		return req, nil
	case err != nil:
		return oppgave.CreateRequest{}, err
	}

	req.Beskrivelse = beskrivelse.Beskrivelse
	if len(journalpost.ValgteArsaker) > 0 {
		req.Beskrivelse += overfortBegrunnelse + journalpost.ValgteArsaker[0]
	}
	req.Behandlingstype = beskrivelse.Behandlingstype
	req.Behandlingstema = beskrivelse.Behandlingstema
	req.Prioritet = prioritet
	return req, nil
}
