package pdl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	requestTimeout    = 10 * time.Second
	maxRetries        = 5
	maxErrorBodyBytes = 4 << 10
	identGruppeAktor  = "AKTORID"
	hentIdenterQuery  = `query($ident: ID!, $grupper: [IdentGruppe!]) {
  hentIdenter(ident: $ident, grupper: $grupper) {
    identer {
      ident
      gruppe
    }
  }
}`
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	logger     *slog.Logger
	newBackOff func() backoff.BackOff
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithBackOff replaces the exponential retry policy.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(client *Client) {
		client.newBackOff = newBackOff
	}
}

func NewClient(baseURL string, tokens oauth2.TokenSource, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		tokens:     tokens,
		logger:     logger,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type GraphQLError struct {
	Message string `json:"message"`
}

type hentIdenterResponse struct {
	Data struct {
		HentIdenter *struct {
			Identer []struct {
				Ident  string `json:"ident"`
				Gruppe string `json:"gruppe"`
			} `json:"identer"`
		} `json:"hentIdenter"`
	} `json:"data"`
	Errors []GraphQLError `json:"errors"`
}

// IdentityError means PDL answered but no aktørId could be read.
type IdentityError struct {
	Errors []GraphQLError
	Raw    string
}

func (e *IdentityError) Error() string {
	if len(e.Errors) == 0 {
		return "pdl: fant ikke aktørId"
	}
	messages := make([]string, 0, len(e.Errors))
	for _, ge := range e.Errors {
		messages = append(messages, ge.Message)
	}
	return fmt.Sprintf("pdl: feil fra GraphQL-tjeneste: '%s'", strings.Join(messages, ", "))
}

// StatusError is a non-2xx response from PDL.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pdl: unexpected status %d: %s", e.StatusCode, e.Body)
}

// AktoerID resolves a national id to an aktørId. Transport errors and 5xx are
// retried with exponential backoff.
func (c *Client) AktoerID(ctx context.Context, fnr string) (string, error) {
	c.logger.Info("looking up aktørId in pdl")

	payload, err := json.Marshal(graphQLRequest{
		Query: hentIdenterQuery,
		Variables: map[string]any{
			"ident":   fnr,
			"grupper": []string{identGruppeAktor},
		},
	})
	if err != nil {
		return "", fmt.Errorf("pdl: encode request: %w", err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), maxRetries), ctx)
	body, err := backoff.RetryWithData(func() ([]byte, error) {
		return c.post(ctx, payload)
	}, policy)
	if err != nil {
		return "", err
	}

	var resp hentIdenterResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("pdl: decode response: %w", err)
	}
	if len(resp.Errors) > 0 {
		return "", &IdentityError{Errors: resp.Errors, Raw: string(body)}
	}
	if resp.Data.HentIdenter == nil || len(resp.Data.HentIdenter.Identer) == 0 || resp.Data.HentIdenter.Identer[0].Ident == "" {
		return "", &IdentityError{Raw: string(body)}
	}
	return resp.Data.HentIdenter.Identer[0].Ident, nil
}

func (c *Client) post(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("pdl: build request: %w", err))
	}
	token, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("pdl: get token: %w", err)
	}
	token.SetAuthHeader(req)
	req.Header.Set("X-Correlation-ID", uuid.NewString())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("pdl request failed", "error", err)
		return nil, fmt.Errorf("pdl: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.logger.Warn("pdl returned server error", "status", resp.StatusCode)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, backoff.Permanent(&StatusError{StatusCode: resp.StatusCode, Body: string(body)})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("pdl: read response: %w", err)
	}
	return body, nil
}
