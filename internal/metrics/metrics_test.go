package metrics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	keys   []string
	events []any
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, key string, event any) error {
	r.keys = append(r.keys, key)
	r.events = append(r.events, event)
	return r.err
}

func TestHendelser_Ruting(t *testing.T) {
	h := NewHendelser(slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.now = func() time.Time { return time.Date(2024, time.March, 5, 8, 0, 0, 0, time.Local) }
	pub := &recordingPublisher{}

	before := testutil.ToFloat64(RutingOppgave.WithLabelValues(UtfallOpprettet, "JFR"))
	h.Ruting(context.Background(), pub, UtfallOpprettet, "JFR")
	after := testutil.ToFloat64(RutingOppgave.WithLabelValues(UtfallOpprettet, "JFR"))

	assert.Equal(t, before+1, after)
	require.Len(t, pub.events, 1)
	assert.Equal(t, "hm-oppgave-sink.rutingoppgave.opprettet", pub.keys[0])

	hendelse, ok := pub.events[0].(Hendelse)
	require.True(t, ok)
	assert.Equal(t, "hm-bigquery-sink-hendelse", hendelse.EventName)
	assert.Equal(t, "hendelse_v2", hendelse.SchemaID)
	assert.Equal(t, "hm-oppgave-sink", hendelse.Payload.Kilde)
	assert.Equal(t, "hm-oppgave-sink.rutingoppgave.opprettet", hendelse.Payload.Navn)
	assert.Equal(t, map[string]string{"type": "JFR"}, hendelse.Payload.Data)
	assert.Equal(t, "2024-03-05T08:00:00", hendelse.Payload.Opprettet.String())
}

func TestHendelser_PublishFailureIsSwallowed(t *testing.T) {
	h := NewHendelser(slog.New(slog.NewTextHandler(io.Discard, nil)))
	pub := &recordingPublisher{err: errors.New("broker down")}

	before := testutil.ToFloat64(RutingOppgave.WithLabelValues(UtfallException, "JFR"))
	h.Ruting(context.Background(), pub, UtfallException, "JFR")
	assert.Equal(t, before+1, testutil.ToFloat64(RutingOppgave.WithLabelValues(UtfallException, "JFR")))
}

func TestHandler_ExposesCounters(t *testing.T) {
	OppgaveOpprettet.Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hm_soknad_opprettet_oppgave")
}
