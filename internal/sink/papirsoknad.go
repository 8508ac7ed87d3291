package sink

import (
	"context"

	"github.com/navikt/hm-oppgave-sink/internal/event"
	"github.com/navikt/hm-oppgave-sink/internal/metrics"
	"github.com/navikt/hm-oppgave-sink/internal/rapid"
)

// Papirsoknad counts paper applications that have been journalført.
type Papirsoknad struct {
	Base
}

func NewPapirsoknad(base Base) *Papirsoknad {
	return &Papirsoknad{Base: base}
}

func (s *Papirsoknad) Demand() rapid.Demand {
	return rapid.LegacyEventName(event.PapirsoknadJournalfortName)
}

func (s *Papirsoknad) OnPacket(_ context.Context, packet *rapid.Packet, _ rapid.Publisher) error {
	var soknad event.PapirsoknadJournalfort
	if err := rapid.Decode(packet, &soknad); err != nil {
		return err
	}
	metrics.PapirsoknadMottatt.Inc()
	s.Logger.Info("papirsøknad received")
	return nil
}
