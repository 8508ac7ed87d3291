package sink

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navikt/hm-oppgave-sink/internal/metrics"
	"github.com/navikt/hm-oppgave-sink/internal/oppgave"
)

func rutingOppgave() map[string]any {
	return map[string]any{
		"eventName":            "hm-ruting-oppgave",
		"eventId":              newID(),
		"opprettet":            "2024-03-05T09:00:00.123",
		"journalpostId":        453643544,
		"tema":                 "HJE",
		"oppgavetype":          "JFR",
		"behandlingtype":       "ae0106",
		"aktivDato":            "2024-03-05",
		"prioritet":            "NORM",
		"opprettetAvEnhetsnr":  "9999",
		"fristFerdigstillelse": "2024-03-08",
		"tildeltEnhetsnr":      "4708",
		"beskrivelse":          "Papirsøknad",
		"aktoerId":             "1000012345678",
	}
}

func rutingCount(utfall string) float64 {
	return testutil.ToFloat64(metrics.RutingOppgave.WithLabelValues(utfall, "JFR"))
}

func hendelseNames(pub *recordingPublisher) []string {
	var names []string
	for _, p := range pub.events {
		if h, ok := p.event.(metrics.Hendelse); ok {
			names = append(names, h.Payload.Navn)
		}
	}
	return names
}

func newRutingSink(t *testing.T, client RoutedTaskCreator) *RutingOppgave {
	return NewRutingOppgave(testBase(t), client, metrics.NewHendelser(discard()))
}

func TestRutingOppgave_Creates(t *testing.T) {
	stub, client := newOppgaveStub(t)
	sink := newRutingSink(t, client)
	pub := &recordingPublisher{}

	before := rutingCount(metrics.UtfallOpprettet)
	require.NoError(t, sink.OnPacket(context.Background(), packet(t, rutingOppgave()), pub))

	require.Len(t, stub.requests, 2)
	search := stub.requests[0]
	assert.Equal(t, http.MethodGet, search.Method)
	assert.Equal(t, []string{"453643544"}, search.Query["journalpostId"])

	posts := stub.posts()
	require.Len(t, posts, 1)
	body := posts[0].Body
	assert.Equal(t, "453643544", body["journalpostId"])
	assert.Equal(t, "1000012345678", body["aktoerId"])
	assert.Equal(t, "ae0106", body["behandlingstype"])
	assert.Equal(t, "4707", body["tildeltEnhetsnr"])
	assert.Equal(t, "9999", body["opprettetAvEnhetsnr"])
	assert.Equal(t, "2024-03-08", body["fristFerdigstillelse"])

	assert.Equal(t, before+1, rutingCount(metrics.UtfallOpprettet))
	assert.Equal(t, []string{
		"hm-oppgave-sink.rutingoppgave.forsokt.haandtert",
		"hm-oppgave-sink.rutingoppgave.opprettet",
	}, hendelseNames(pub))
	assert.Len(t, pub.events, 2, "only hendelser are published")
}

func TestRutingOppgave_AlreadyExists(t *testing.T) {
	stub, client := newOppgaveStub(t)
	stub.searchBody = `{"antallTreffTotalt": 1, "oppgaver": [{"id": 1}]}`
	sink := newRutingSink(t, client)
	pub := &recordingPublisher{}

	before := rutingCount(metrics.UtfallEksisterteAllerede)
	require.NoError(t, sink.OnPacket(context.Background(), packet(t, rutingOppgave()), pub))

	assert.Empty(t, stub.posts())
	assert.Equal(t, before+1, rutingCount(metrics.UtfallEksisterteAllerede))
	assert.Equal(t, []string{
		"hm-oppgave-sink.rutingoppgave.forsokt.haandtert",
		"hm-oppgave-sink.rutingoppgave.eksisterte.allerede",
	}, hendelseNames(pub))
}

func TestRutingOppgave_DownstreamFailure(t *testing.T) {
	stub, client := newOppgaveStub(t)
	stub.createStatus = http.StatusInternalServerError
	sink := newRutingSink(t, client)
	pub := &recordingPublisher{}

	before := rutingCount(metrics.UtfallException)
	err := sink.OnPacket(context.Background(), packet(t, rutingOppgave()), pub)

	var apiErr *oppgave.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, before+1, rutingCount(metrics.UtfallException))
	assert.Contains(t, hendelseNames(pub), "hm-oppgave-sink.rutingoppgave.exception")
}

func TestRutingOppgave_OptionalFields(t *testing.T) {
	stub, client := newOppgaveStub(t)
	sink := newRutingSink(t, client)

	msg := rutingOppgave()
	for _, key := range []string{"prioritet", "aktoerId", "tildeltEnhetsnr", "behandlingtype"} {
		delete(msg, key)
	}
	msg["orgnr"] = "123456789"
	msg["behandlingstema"] = "ab0335"

	require.NoError(t, sink.OnPacket(context.Background(), packet(t, msg), &recordingPublisher{}))
	posts := stub.posts()
	require.Len(t, posts, 1)
	body := posts[0].Body
	assert.Equal(t, "NORM", body["prioritet"])
	assert.Equal(t, "123456789", body["orgnr"])
	assert.Equal(t, "ab0335", body["behandlingstema"])
	assert.NotContains(t, body, "aktoerId")
	assert.NotContains(t, body, "tildeltEnhetsnr")
}

func TestRutingOppgave_MissingFields(t *testing.T) {
	stub, client := newOppgaveStub(t)
	sink := newRutingSink(t, client)

	required := []string{
		"eventId", "opprettet", "journalpostId", "tema", "oppgavetype", "aktivDato",
		"opprettetAvEnhetsnr", "fristFerdigstillelse", "beskrivelse",
	}
	for _, field := range required {
		t.Run(field, func(t *testing.T) {
			msg := rutingOppgave()
			delete(msg, field)
			pub := &recordingPublisher{}
			requireValidationError(t, sink.OnPacket(context.Background(), packet(t, msg), pub))
			assert.Empty(t, pub.events)
		})
	}
	assert.Empty(t, stub.requests)
}
