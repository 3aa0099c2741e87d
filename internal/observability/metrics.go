package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes de produto
const (
	OutcomeChecked     = "checked"
	OutcomeFetchFailed = "fetch_failed"
	OutcomeParseFailed = "parse_failed"
	OutcomeNoScraper   = "no_scraper"
)

// Metrics agrupa os contadores de uma execução
type Metrics struct {
	registry      *prometheus.Registry
	Products      *prometheus.CounterVec
	Offers        *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	StateSaves    prometheus.Counter
	LastRun       prometheus.Gauge
}

// New cria os contadores em um registro próprio
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Products: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promo_checker_products_total",
				Help: "Produtos processados por resultado",
			},
			[]string{"outcome"},
		),
		Offers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promo_checker_offers_total",
				Help: "Ofertas escolhidas por tipo",
			},
			[]string{"type"},
		),
		Notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promo_checker_notifications_total",
				Help: "Avisos por resultado do envio",
			},
			[]string{"result"},
		),
		StateSaves: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "promo_checker_state_saves_total",
				Help: "Gravações do estado",
			},
		),
		LastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "promo_checker_last_run_timestamp_seconds",
				Help: "Fim da última execução",
			},
		),
	}
	m.registry.MustRegister(m.Products, m.Offers, m.Notifications, m.StateSaves, m.LastRun)
	return m
}

// Registry expõe o registro para leitura
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile grava as métricas no formato do textfile collector do node_exporter
func (m *Metrics) WriteTextfile(path string) error {
	m.LastRun.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, m.registry)
}
