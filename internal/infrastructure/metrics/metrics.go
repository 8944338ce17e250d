// Package metrics exporta las métricas Prometheus de la sincronización Primary Store -> mirror.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crm"

// Metrics agrupa los colectores del facade y del adaptador de Sheets.
type Metrics struct {
	// Resultado de cada propagación al mirror: synced, failed, skipped.
	SyncTotal *prometheus.CounterVec
	// Latencia de las llamadas a la API de Sheets por operación (get, update, append, setup).
	MirrorRequestDuration *prometheus.HistogramVec
	MirrorRequestErrors   *prometheus.CounterVec
	// Filas del mirror descartadas al decodificar (id ilegible).
	MirrorRowsSkipped *prometheus.CounterVec
	// Escrituras en el Primary Store por entidad y operación.
	StoreWrites *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registra los colectores en reg. Con reg nil usa un registro propio (tests).
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		SyncTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mirror",
				Name:      "sync_total",
				Help:      "Propagaciones al mirror por entidad y resultado",
			},
			[]string{"entity", "status"},
		),
		MirrorRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "mirror",
				Name:      "request_duration_seconds",
				Help:      "Latencia de las llamadas a Google Sheets",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"op"},
		),
		MirrorRequestErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mirror",
				Name:      "request_errors_total",
				Help:      "Errores de las llamadas a Google Sheets",
			},
			[]string{"op"},
		),
		MirrorRowsSkipped: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mirror",
				Name:      "rows_skipped_total",
				Help:      "Filas del mirror ignoradas por id inválido",
			},
			[]string{"sheet"},
		),
		StoreWrites: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "writes_total",
				Help:      "Escrituras confirmadas en el Primary Store",
			},
			[]string{"entity", "op"},
		),
		gatherer: reg,
	}
}

// ObserveMirrorRequest registra latencia y error de una llamada a Sheets.
func (m *Metrics) ObserveMirrorRequest(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.MirrorRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		m.MirrorRequestErrors.WithLabelValues(op).Inc()
	}
}

// RecordSync cuenta el resultado de una propagación.
func (m *Metrics) RecordSync(entity, status string) {
	if m == nil {
		return
	}
	m.SyncTotal.WithLabelValues(entity, status).Inc()
}

// RecordStoreWrite cuenta una escritura confirmada en el Primary Store.
func (m *Metrics) RecordStoreWrite(entity, op string) {
	if m == nil {
		return
	}
	m.StoreWrites.WithLabelValues(entity, op).Inc()
}

// RecordSkippedRow cuenta una fila descartada del mirror.
func (m *Metrics) RecordSkippedRow(sheet string) {
	if m == nil {
		return
	}
	m.MirrorRowsSkipped.WithLabelValues(sheet).Inc()
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
