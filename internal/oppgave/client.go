package oppgave

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/navikt/hm-oppgave-sink/internal/domain"
)

const (
	requestTimeout      = 30 * time.Second
	maxErrorBodyBytes   = 4 << 10
	correlationIDHeader = "X-Correlation-ID"
)

// Client talks to the Oppgave REST API. Tokens are cached by the token source.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	logger     *slog.Logger
	allowPurge bool
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithPurgeAllowed enables PurgeOldTasks. Only set this outside production.
func WithPurgeAllowed(allowed bool) Option {
	return func(client *Client) {
		client.allowPurge = allowed
	}
}

func NewClient(baseURL string, tokens oauth2.TokenSource, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		tokens:     tokens,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasOpenTaskForJournalpost reports whether an open JFR or FDR task exists for
// the journalpost. A response without a hit count counts as none.
func (c *Client) HasOpenTaskForJournalpost(ctx context.Context, journalpostID string) (bool, error) {
	query := url.Values{}
	query.Set("journalpostId", journalpostID)
	query.Set("statuskategori", StatuskategoriApen)
	query.Add("oppgavetype", domain.OppgavetypeJournalforing)
	query.Add("oppgavetype", "FDR")

	var resp SearchResponse
	if err := c.do(ctx, "search", http.MethodGet, c.baseURL+"?"+query.Encode(), nil, &resp, http.StatusOK); err != nil {
		return false, err
	}
	return resp.AntallTreffTotalt != nil && *resp.AntallTreffTotalt > 0, nil
}

func (c *Client) CreateTask(ctx context.Context, req CreateRequest) (*Oppgave, error) {
	c.logger.Info("creating oppgave", "journalpostId", req.JournalpostID, "oppgavetype", req.Oppgavetype)

	var created Oppgave
	if err := c.do(ctx, "create", http.MethodPost, c.baseURL, req, &created, http.StatusCreated); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateRoutedTask creates a task from an upstream routing decision, moving
// the assigned unit off any deprecated unit first.
func (c *Client) CreateRoutedTask(ctx context.Context, req CreateRequest) (*Oppgave, error) {
	if req.TildeltEnhetsnr != "" {
		remapped, changed := domain.RemapEnhetsnr(req.TildeltEnhetsnr)
		if changed {
			c.logger.Warn("remapped deprecated tildeltEnhetsnr",
				"old_enhetsnr", req.TildeltEnhetsnr,
				"new_enhetsnr", remapped,
				"journalpostId", req.JournalpostID,
			)
			req.TildeltEnhetsnr = remapped
		}
	}
	return c.CreateTask(ctx, req)
}

func (c *Client) patch(ctx context.Context, id int64, req PatchRequest) error {
	return c.do(ctx, "patch", http.MethodPatch, c.baseURL+"/"+strconv.FormatInt(id, 10), req, nil, http.StatusOK, http.StatusNoContent)
}

func (c *Client) do(ctx context.Context, operation, method, target string, body, out any, expected ...int) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("oppgave: encode %s request: %w", operation, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("oppgave: build %s request: %w", operation, err)
	}
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("oppgave: get token: %w", err)
	}
	token.SetAuthHeader(req)
	req.Header.Set(correlationIDHeader, uuid.NewString())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("oppgave: %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if !statusIn(resp.StatusCode, expected) {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &APIError{Operation: operation, StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("oppgave: decode %s response: %w", operation, err)
	}
	return nil
}

func statusIn(status int, expected []int) bool {
	for _, s := range expected {
		if status == s {
			return true
		}
	}
	return false
}
