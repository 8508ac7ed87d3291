package oppgave

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/navikt/hm-oppgave-sink/internal/domain"
)

const DefaultPurgeLimit = 100

type PurgeReport struct {
	Total     int
	Matched   int
	Completed int
	Failed    int
}

func (r PurgeReport) String() string {
	switch {
	case r.Matched == 0:
		return fmt.Sprintf("Ingen oppgaver igjen etter filtrering, totalt antall oppgaver: %d", r.Total)
	case r.Failed > 0:
		return fmt.Sprintf("Ferdigstilte %d av %d oppgaver, %d feilet", r.Completed, r.Matched, r.Failed)
	default:
		return "OK"
	}
}

// PurgeOldTasks completes a person's open HJE tasks created before the given
// time. Failures on single tasks are logged and counted, not returned.
func (c *Client) PurgeOldTasks(ctx context.Context, aktoerID string, before time.Time, limit int) (PurgeReport, error) {
	if !c.allowPurge {
		return PurgeReport{}, ErrPurgeNotAllowed
	}
	if limit <= 0 {
		limit = DefaultPurgeLimit
	}

	query := url.Values{}
	query.Set("statuskategori", StatuskategoriApen)
	query.Set("tema", domain.Tema)
	query.Set("aktoerId", aktoerID)
	query.Set("sorteringsrekkefolge", "ASC")
	query.Set("sorteringsfelt", "ENDRET_TIDSPUNKT")
	query.Set("limit", strconv.Itoa(limit))

	var resp SearchResponse
	if err := c.do(ctx, "search", http.MethodGet, c.baseURL+"?"+query.Encode(), nil, &resp, http.StatusOK); err != nil {
		return PurgeReport{}, err
	}

	var report PurgeReport
	if resp.AntallTreffTotalt != nil {
		report.Total = *resp.AntallTreffTotalt
	}

	var matched []Oppgave
	for _, o := range resp.Oppgaver {
		if o.OpprettetTidspunkt != nil && o.OpprettetTidspunkt.Before(before) {
			matched = append(matched, o)
		}
	}
	report.Matched = len(matched)

	for i, o := range matched {
		c.logger.Info("completing old oppgave", "index", i+1, "count", len(matched), "oppgaveId", o.ID, "versjon", o.Versjon)
		err := c.patch(ctx, o.ID, PatchRequest{
			Status:          StatusFerdigstilt,
			Versjon:         o.Versjon,
			Oppgavetype:     o.Oppgavetype,
			Prioritet:       o.Prioritet,
			Tema:            o.Tema,
			TildeltEnhetsnr: o.TildeltEnhetsnr,
			AktivDato:       o.AktivDato,
		})
		if err != nil {
			report.Failed++
			c.logger.Error("failed to complete old oppgave", "oppgaveId", o.ID, "error", err)
			continue
		}
		report.Completed++
	}

	return report, nil
}
