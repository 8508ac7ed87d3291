package sink

import (
	"context"
	"strconv"

	"github.com/navikt/hm-oppgave-sink/internal/domain"
	"github.com/navikt/hm-oppgave-sink/internal/event"
	"github.com/navikt/hm-oppgave-sink/internal/metrics"
	"github.com/navikt/hm-oppgave-sink/internal/oppgave"
	"github.com/navikt/hm-oppgave-sink/internal/rapid"
)

// DigitalSoknad creates a JFR oppgave for each archived digital søknad.
type DigitalSoknad struct {
	Base
	consumed string
	produced string
	oppgaver TaskCreator
}

func NewDigitalSoknad(base Base, consumedEventName, producedEventName string, oppgaver TaskCreator) *DigitalSoknad {
	return &DigitalSoknad{
		Base:     base,
		consumed: consumedEventName,
		produced: producedEventName,
		oppgaver: oppgaver,
	}
}

func (s *DigitalSoknad) Demand() rapid.Demand {
	return rapid.EventName(s.consumed)
}

func (s *DigitalSoknad) OnPacket(ctx context.Context, packet *rapid.Packet, publisher rapid.Publisher) error {
	var soknad event.DigitalSoknad
	if err := rapid.Decode(packet, &soknad); err != nil {
		return err
	}
	if skip, err := s.skipped(ctx, s.consumed, soknad.EventID); skip || err != nil {
		return err
	}

	prioritet := domain.PrioritetFor(*soknad.ErHast)
	beskrivelse, err := soknad.Sakstype.Describe(prioritet)
	if err != nil {
		return failed(s.consumed, soknad.EventID, err)
	}

	today := s.today()
	created, err := s.oppgaver.CreateTask(ctx, oppgave.CreateRequest{
		Personident:          soknad.FnrBruker,
		JournalpostID:        soknad.JoarkRef.String(),
		Beskrivelse:          beskrivelse.Beskrivelse,
		Tema:                 domain.Tema,
		Oppgavetype:          domain.OppgavetypeJournalforing,
		Behandlingstype:      beskrivelse.Behandlingstype,
		Behandlingstema:      beskrivelse.Behandlingstema,
		AktivDato:            today,
		FristFerdigstillelse: today,
		Prioritet:            prioritet,
	})
	if err != nil {
		s.Logger.Error("failed to create oppgave for søknad", "soknadId", soknad.Soknad(), "error", err)
		return failed(s.consumed, soknad.EventID, err)
	}
	oppgaveID := strconv.FormatInt(created.ID, 10)
	s.Logger.Info("oppgave created for søknad", "soknadId", soknad.Soknad(), "oppgaveId", oppgaveID)

	err = publisher.Publish(ctx, soknad.FnrBruker, event.OppgaveOpprettet{
		Envelope:  event.NewEnvelope(s.produced, s.now()),
		SoknadID:  soknad.Soknad(),
		OppgaveID: oppgaveID,
		Sakstype:  soknad.Sakstype,
		FnrBruker: soknad.FnrBruker,
		JoarkRef:  soknad.JoarkRef.String(),
	})
	if err != nil {
		return failed(s.consumed, soknad.EventID, err)
	}
	s.SecureLogger.Info("oppgave created for søknad", "soknadId", soknad.Soknad(), "oppgaveId", oppgaveID, "fnrBruker", soknad.FnrBruker)

	metrics.OppgaveOpprettet.Inc()
	return nil
}
