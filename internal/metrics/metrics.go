package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OppgaveOpprettet = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hm_soknad_opprettet_oppgave",
			Help: "Total oppgaver created in Gosys.",
		},
	)
	HentetAktorID = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hm_hentet_aktorid",
			Help: "Total aktørIds resolved in PDL.",
		},
	)
	PapirsoknadMottatt = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hm_papirsoknad_mottatt",
			Help: "Total paper applications received.",
		},
	)
	RutingOppgave = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hm_rutingoppgave_total",
			Help: "Routing tasks by outcome and oppgavetype.",
		},
		[]string{"utfall", "oppgavetype"},
	)
	SkippedEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hm_oppgave_sink_skipped_events_total",
			Help: "Total events skipped because their eventId is on the skip list.",
		},
		[]string{"event_name"},
	)
	ValidationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hm_oppgave_sink_validation_failures_total",
			Help: "Total messages that failed validation.",
		},
		[]string{"event_name"},
	)
	PublishFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hm_oppgave_sink_publish_failures_total",
			Help: "Total failed publishes to the rapid.",
		},
	)
	PurgeRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hm_oppgave_sink_purge_requests_total",
			Help: "Total purge requests by status.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		OppgaveOpprettet,
		HentetAktorID,
		PapirsoknadMottatt,
		RutingOppgave,
		SkippedEvents,
		ValidationFailures,
		PublishFailures,
		PurgeRequests,
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveValidationFailure(eventName string) {
	ValidationFailures.WithLabelValues(eventName).Inc()
}
