package sink

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/navikt/hm-oppgave-sink/internal/oppgave"
	"github.com/navikt/hm-oppgave-sink/internal/rapid"
	"github.com/navikt/hm-oppgave-sink/internal/skiplist"
)

var fixedNow = time.Date(2024, time.March, 5, 9, 30, 0, 0, time.Local)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testBase(t *testing.T, skip ...string) Base {
	t.Helper()
	static, err := skiplist.NewStatic(skip)
	require.NoError(t, err)
	return Base{
		Skip:         static,
		Logger:       discard(),
		SecureLogger: discard(),
		Now:          func() time.Time { return fixedNow },
	}
}

type published struct {
	key   string
	event any
}

type recordingPublisher struct {
	events []published
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, key string, event any) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, published{key: key, event: event})
	return nil
}

type recordedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Body   map[string]any
}

// oppgaveStub is a fake Oppgave API.
type oppgaveStub struct {
	mu           sync.Mutex
	requests     []recordedRequest
	searchBody   string
	createStatus int
}

func newOppgaveStub(t *testing.T) (*oppgaveStub, *oppgave.Client) {
	t.Helper()
	stub := &oppgaveStub{
		searchBody:   `{"antallTreffTotalt": 0, "oppgaver": []}`,
		createStatus: http.StatusCreated,
	}
	srv := httptest.NewServer(http.HandlerFunc(stub.serve))
	t.Cleanup(srv.Close)

	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "token", TokenType: "Bearer"})
	return stub, oppgave.NewClient(srv.URL+"/api/v1/oppgaver", tokens, discard())
}

func (s *oppgaveStub) serve(w http.ResponseWriter, r *http.Request) {
	rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query()}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&rec.Body)
	}
	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		_, _ = w.Write([]byte(s.searchBody))
	case http.MethodPost:
		w.WriteHeader(s.createStatus)
		if s.createStatus == http.StatusCreated {
			_, _ = w.Write([]byte(`{"id": 4242, "versjon": 1}`))
			return
		}
		_, _ = w.Write([]byte(`{"uuid":"x","feilmelding":"intern feil"}`))
	}
}

func (s *oppgaveStub) posts() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordedRequest
	for _, r := range s.requests {
		if r.Method == http.MethodPost {
			out = append(out, r)
		}
	}
	return out
}

type fakeIdenter struct {
	aktoerID string
	err      error
	calls    []string
}

func (f *fakeIdenter) AktoerID(_ context.Context, fnr string) (string, error) {
	f.calls = append(f.calls, fnr)
	return f.aktoerID, f.err
}

func packet(t *testing.T, v any) *rapid.Packet {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	p, err := rapid.ParsePacket(raw)
	require.NoError(t, err)
	return p
}

func requireValidationError(t *testing.T, err error) {
	t.Helper()
	var validationErr *rapid.ValidationError
	require.True(t, errors.As(err, &validationErr), "expected validation error, got %v", err)
}

func newID() string {
	return uuid.NewString()
}
