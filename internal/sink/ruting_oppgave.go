package sink

import (
	"context"

	"github.com/navikt/hm-oppgave-sink/internal/event"
	"github.com/navikt/hm-oppgave-sink/internal/metrics"
	"github.com/navikt/hm-oppgave-sink/internal/oppgave"
	"github.com/navikt/hm-oppgave-sink/internal/rapid"
)

// RutingOppgave creates the oppgave an upstream routing decision asked for,
// unless the journalpost already has an open one.
type RutingOppgave struct {
	Base
	oppgaver  RoutedTaskCreator
	hendelser *metrics.Hendelser
}

func NewRutingOppgave(base Base, oppgaver RoutedTaskCreator, hendelser *metrics.Hendelser) *RutingOppgave {
	return &RutingOppgave{Base: base, oppgaver: oppgaver, hendelser: hendelser}
}

func (s *RutingOppgave) Demand() rapid.Demand {
	return rapid.EventName(event.RutingOppgaveName)
}

func (s *RutingOppgave) OnPacket(ctx context.Context, packet *rapid.Packet, publisher rapid.Publisher) error {
	var ruting event.RutingOppgave
	if err := rapid.Decode(packet, &ruting); err != nil {
		return err
	}
	if skip, err := s.skipped(ctx, event.RutingOppgaveName, ruting.EventID); skip || err != nil {
		return err
	}

	journalpostID := ruting.JournalpostID.String()
	s.hendelser.Ruting(ctx, publisher, metrics.UtfallForsoktHaandtert, ruting.Oppgavetype)
	s.Logger.Info("ruting oppgave received",
		"eventId", ruting.EventID,
		"journalpostId", journalpostID,
		"oppgavetype", ruting.Oppgavetype,
		"opprettetAvEnhetsnr", ruting.OpprettetAvEnhetsnr,
	)

	exists, err := s.oppgaver.HasOpenTaskForJournalpost(ctx, journalpostID)
	if err != nil {
		s.hendelser.Ruting(ctx, publisher, metrics.UtfallException, ruting.Oppgavetype)
		return failed(event.RutingOppgaveName, ruting.EventID, err)
	}
	if exists {
		s.Logger.Info("open oppgave already exists for journalpost, skipping", "journalpostId", journalpostID)
		s.hendelser.Ruting(ctx, publisher, metrics.UtfallEksisterteAllerede, ruting.Oppgavetype)
		return nil
	}

	created, err := s.oppgaver.CreateRoutedTask(ctx, oppgave.CreateRequest{
		AktoerID:             ruting.AktoerID,
		Orgnr:                ruting.Orgnr,
		JournalpostID:        journalpostID,
		Beskrivelse:          ruting.Beskrivelse,
		Tema:                 ruting.Tema,
		Oppgavetype:          ruting.Oppgavetype,
		Behandlingstema:      ruting.Behandlingstema,
		Behandlingstype:      ruting.BehandlingstypeOrAlias(),
		AktivDato:            ruting.AktivDato,
		FristFerdigstillelse: ruting.FristFerdigstillelse,
		Prioritet:            ruting.PrioritetOrDefault(),
		OpprettetAvEnhetsnr:  ruting.OpprettetAvEnhetsnr,
		TildeltEnhetsnr:      ruting.TildeltEnhetsnr,
	})
	if err != nil {
		s.Logger.Error("failed to create oppgave for ruting oppgave", "journalpostId", journalpostID, "error", err)
		s.hendelser.Ruting(ctx, publisher, metrics.UtfallException, ruting.Oppgavetype)
		return failed(event.RutingOppgaveName, ruting.EventID, err)
	}

	s.Logger.Info("oppgave created for ruting oppgave", "journalpostId", journalpostID, "oppgaveId", created.ID)
	s.hendelser.Ruting(ctx, publisher, metrics.UtfallOpprettet, ruting.Oppgavetype)
	return nil
}
