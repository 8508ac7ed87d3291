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

const behandlingstypeDigitalSoknad = "ae0227"

// BehandleSak creates a BEH_SAK oppgave when OEBS sends a case back.
type BehandleSak struct {
	Base
	oppgaver TaskCreator
	identer  AktoerIDResolver
}

func NewBehandleSak(base Base, oppgaver TaskCreator, identer AktoerIDResolver) *BehandleSak {
	return &BehandleSak{Base: base, oppgaver: oppgaver, identer: identer}
}

func (s *BehandleSak) Demand() rapid.Demand {
	return rapid.EventName(event.SakTilbakefortName)
}

func (s *BehandleSak) OnPacket(ctx context.Context, packet *rapid.Packet, publisher rapid.Publisher) error {
	var sak event.SakTilbakefort
	if err := rapid.Decode(packet, &sak); err != nil {
		return err
	}
	if skip, err := s.skipped(ctx, event.SakTilbakefortName, sak.EventID); skip || err != nil {
		return err
	}

	aktoerID, err := s.identer.AktoerID(ctx, sak.FnrBruker)
	if err != nil {
		s.Logger.Error("failed to resolve aktørId", "soknadId", sak.SoknadID, "error", err)
		return failed(event.SakTilbakefortName, sak.EventID, err)
	}
	metrics.HentetAktorID.Inc()

	today := s.today()
	created, err := s.oppgaver.CreateTask(ctx, oppgave.CreateRequest{
		AktoerID:             aktoerID,
		JournalpostID:        sak.JoarkRef.String(),
		Beskrivelse:          sak.DokumentBeskrivelse,
		Temagruppe:           domain.Temagruppe,
		Tema:                 domain.Tema,
		Oppgavetype:          domain.OppgavetypeBehandleSak,
		Behandlingstype:      behandlingstypeDigitalSoknad,
		AktivDato:            today,
		FristFerdigstillelse: today,
		Prioritet:            domain.PrioritetNorm,
		TildeltEnhetsnr:      sak.Enhet,
	})
	if err != nil {
		s.Logger.Error("failed to create behandle sak oppgave", "soknadId", sak.SoknadID, "error", err)
		return failed(event.SakTilbakefortName, sak.EventID, err)
	}
	oppgaveID := strconv.FormatInt(created.ID, 10)

	err = publisher.Publish(ctx, sak.FnrBruker, event.BehandleSakOppgave{
		Envelope:            event.NewEnvelope(event.BehandleSakOppgaveName, s.now()),
		SoknadID:            sak.SoknadID,
		FnrBruker:           sak.FnrBruker,
		OppgaveID:           oppgaveID,
		Enhet:               sak.Enhet,
		SakID:               sak.Saksnummer.String(),
		DokumentBeskrivelse: sak.DokumentBeskrivelse,
	})
	if err != nil {
		return failed(event.SakTilbakefortName, sak.EventID, err)
	}

	metrics.OppgaveOpprettet.Inc()
	s.Logger.Info("behandle sak oppgave created", "soknadId", sak.SoknadID, "oppgaveId", oppgaveID, "enhet", sak.Enhet)
	return nil
}
