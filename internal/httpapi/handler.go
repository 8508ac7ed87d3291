package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/navikt/hm-oppgave-sink/internal/metrics"
	"github.com/navikt/hm-oppgave-sink/internal/oppgave"
)

const (
	maxBodyBytes int64 = 1 << 10
	purgeTimeout       = 2 * time.Minute
)

// Purger completes old oppgaver for one person.
type Purger interface {
	PurgeOldTasks(ctx context.Context, aktoerID string, before time.Time, limit int) (oppgave.PurgeReport, error)
}

type Handler struct {
	logger *slog.Logger
	purger Purger
	ready  func() bool
	now    func() time.Time
}

// New builds the handler. ready reports whether the rapid is consuming; nil
// means always ready.
func New(logger *slog.Logger, purger Purger, ready func() bool) *Handler {
	return &Handler{
		logger: logger,
		purger: purger,
		ready:  ready,
		now:    time.Now,
	}
}

func (h *Handler) IsAlive(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) IsReady(w http.ResponseWriter, _ *http.Request) {
	if h.ready != nil && !h.ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type purgeRequest struct {
	AktoerID string     `json:"aktoerId"`
	Before   *time.Time `json:"before"`
	Limit    int        `json:"limit"`
}

// PurgeOldTasks completes the person's open tasks created before the given
// time, defaulting to now. The response is a plain-text summary.
func (h *Handler) PurgeOldTasks(w http.ResponseWriter, r *http.Request) {
	bodyReader := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer bodyReader.Close()
	body, err := io.ReadAll(bodyReader)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid body")
		return
	}

	var req purgeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.AktoerID = strings.TrimSpace(req.AktoerID)
	switch {
	case req.AktoerID == "":
		h.respondError(w, http.StatusBadRequest, "missing aktoerId")
		return
	case req.Limit < 0:
		h.respondError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	before := h.now()
	if req.Before != nil {
		before = *req.Before
	}

	ctx, cancel := context.WithTimeout(r.Context(), purgeTimeout)
	defer cancel()

	report, err := h.purger.PurgeOldTasks(ctx, req.AktoerID, before, req.Limit)
	if err != nil {
		if errors.Is(err, oppgave.ErrPurgeNotAllowed) {
			metrics.PurgeRequests.WithLabelValues("forbidden").Inc()
			h.respondError(w, http.StatusForbidden, "purge not allowed")
			return
		}
		metrics.PurgeRequests.WithLabelValues("error").Inc()
		h.logger.Error("failed to purge old oppgaver", "error", err)
		h.respondError(w, http.StatusBadGateway, "failed to purge oppgaver")
		return
	}

	metrics.PurgeRequests.WithLabelValues("ok").Inc()
	h.logger.Info("purged old oppgaver",
		"matched", report.Matched,
		"completed", report.Completed,
		"failed", report.Failed,
	)
	writeText(w, http.StatusOK, report.String())
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
