package monitor

import (
	"context"
	"log/slog"
	"time"

	"promo-checker/internal/database"
	"promo-checker/internal/models"
	"promo-checker/internal/notifier"
	"promo-checker/internal/observability"
	"promo-checker/internal/offer"
	"promo-checker/internal/scraper"
)

// Store carrega e grava o mapa de estados de uma execução
type Store interface {
	Load(ctx context.Context) (models.States, error)
	Save(ctx context.Context, states models.States) error
}

// History registra os avisos entregues e consulta os anteriores
type History interface {
	AddNotification(ctx context.Context, n database.Notification) error
	ListNotifications(ctx context.Context, url string) ([]database.Notification, error)
}

// Summary resume uma execução
type Summary struct {
	Checked      int
	Skipped      int
	Notified     int
	NotifyFailed int
	Saved        bool
	SaveErr      error
}

// Monitor executa uma verificação completa da lista de produtos
type Monitor struct {
	store    Store
	fetcher  scraper.Fetcher
	registry *scraper.Registry
	notifier notifier.Notifier
	history  History
	hints    map[string]string
	metrics  *observability.Metrics
	delay    time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// Option configura o Monitor
type Option func(*Monitor)

// WithDelay define a pausa entre produtos
func WithDelay(d time.Duration) Option {
	return func(m *Monitor) { m.delay = d }
}

// WithHistory registra os avisos entregues
func WithHistory(h History) Option {
	return func(m *Monitor) { m.history = h }
}

// WithNameHints define nomes de reserva por URL, usados quando a página não traz o nome
func WithNameHints(hints map[string]string) Option {
	return func(m *Monitor) { m.hints = hints }
}

// WithMetrics define os contadores
func WithMetrics(mt *observability.Metrics) Option {
	return func(m *Monitor) { m.metrics = mt }
}

// WithClock substitui o relógio
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// WithLogger define o logger
func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) { m.logger = l }
}

// New cria uma nova instância do monitor
func New(store Store, fetcher scraper.Fetcher, registry *scraper.Registry, n notifier.Notifier, opts ...Option) *Monitor {
	m := &Monitor{
		store:    store,
		fetcher:  fetcher,
		registry: registry,
		notifier: n,
		metrics:  observability.New(),
		delay:    2 * time.Second,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Run verifica todas as URLs na ordem recebida e grava o estado uma única
// vez no final, apenas se algo mudou. Falhas de um produto não interrompem
// os demais.
func (m *Monitor) Run(ctx context.Context, urls []string) Summary {
	var summary Summary

	states, err := m.store.Load(ctx)
	if err != nil || states == nil {
		m.logger.Warn("erro ao carregar estado, começando do zero", "error", err)
		states = models.States{}
	}
	loaded := states.Clone()

	dirty := false
	for i, url := range urls {
		if i > 0 && !m.wait(ctx) {
			break
		}
		if ctx.Err() != nil {
			break
		}
		if m.checkProduct(ctx, url, states, &summary) {
			dirty = true
		}
	}
	if err := ctx.Err(); err != nil {
		m.logger.Warn("execução interrompida", "error", err)
	}

	if dirty && !states.Equal(loaded) {
		// O estado precisa ser gravado mesmo se a execução foi cancelada
		if err := m.store.Save(context.WithoutCancel(ctx), states); err != nil {
			m.logger.Error("erro ao gravar estado", "error", err)
			summary.SaveErr = err
		} else {
			summary.Saved = true
			m.metrics.StateSaves.Inc()
		}
	} else {
		m.logger.Info("nenhuma mudança de estado")
	}

	m.logger.Info("verificação finalizada",
		"checked", summary.Checked, "skipped", summary.Skipped,
		"notified", summary.Notified, "notify_failed", summary.NotifyFailed,
		"saved", summary.Saved)
	return summary
}

// wait faz a pausa entre produtos; retorna false se o contexto acabou
func (m *Monitor) wait(ctx context.Context) bool {
	if m.delay <= 0 {
		return true
	}
	t := time.NewTimer(m.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// checkProduct avalia um produto e retorna true se o estado em memória mudou
func (m *Monitor) checkProduct(ctx context.Context, url string, states models.States, summary *Summary) bool {
	log := m.logger.With("url", url)

	sc := m.registry.FindScraper(url)
	if sc == nil {
		log.Warn("nenhum scraper encontrado para URL")
		m.metrics.Products.WithLabelValues(observability.OutcomeNoScraper).Inc()
		summary.Skipped++
		return false
	}

	html, err := m.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Error("erro ao buscar página", "error", err)
		m.metrics.Products.WithLabelValues(observability.OutcomeFetchFailed).Inc()
		summary.Skipped++
		return false
	}

	snap, err := sc.Parse(html, url)
	if err != nil {
		log.Error("erro ao interpretar página", "error", err)
		m.metrics.Products.WithLabelValues(observability.OutcomeParseFailed).Inc()
		summary.Skipped++
		return false
	}

	if snap.Name == models.UnknownProductName {
		if hint, ok := m.hints[url]; ok {
			log.Debug("nome não encontrado na página, usando name_hint", "name", hint)
			snap.Name = hint
		}
	}

	decision := offer.Rank(*snap)
	summary.Checked++
	m.metrics.Products.WithLabelValues(observability.OutcomeChecked).Inc()
	m.metrics.Offers.WithLabelValues(decision.Type.String()).Inc()
	log.Info("produto verificado",
		"name", snap.Name,
		"regular", priceText(snap.RegularPrice),
		"promo", priceText(snap.PromoPrice),
		"special", priceText(snap.SpecialPrice),
		"regular_striked", snap.IsRegularStriked,
		"offer", decision.Type.String())

	prior, hasPrior := states[url]
	var priorPtr *models.ProductState
	if hasPrior {
		priorPtr = &prior
	}

	now := m.now().UTC().Truncate(time.Second)
	ev := offer.Evaluate(decision, priorPtr, now)

	if decision.Type.IsPromotion() && !decision.Price.Valid {
		log.Warn("oferta sem valor numérico, aviso não enviado", "text", decision.PriceText)
	}

	if ev.Notify {
		n := notifier.Notification{
			Product:   *snap,
			Decision:  decision,
			Reason:    ev.Reason,
			CheckedAt: now,
		}
		if hasPrior {
			n.PreviousPrice = prior.LastNotifiedPrice
		}

		log.Info("promoção detectada", "reason", ev.Reason.String(), "price", decision.PriceText)
		m.logLastDelivery(ctx, log, url)
		if err := m.notifier.Notify(ctx, n); err != nil {
			// Estado não avança: a próxima execução tenta de novo
			log.Error("falha ao enviar aviso", "error", err)
			m.metrics.Notifications.WithLabelValues("failed").Inc()
			summary.NotifyFailed++
			return false
		}
		m.metrics.Notifications.WithLabelValues("sent").Inc()
		summary.Notified++
		m.recordHistory(ctx, snap, decision, ev.Reason, now)
	}

	if ev.NewState == nil {
		return false
	}
	if hasPrior && prior.Equal(*ev.NewState) {
		return false
	}
	states[url] = *ev.NewState
	return true
}

// logLastDelivery registra no log o aviso anterior da URL, se houver histórico
func (m *Monitor) logLastDelivery(ctx context.Context, log *slog.Logger, url string) {
	if m.history == nil {
		return
	}
	list, err := m.history.ListNotifications(ctx, url)
	if err != nil {
		log.Warn("erro ao consultar histórico de avisos", "error", err)
		return
	}
	if len(list) == 0 {
		log.Info("primeiro aviso para este produto")
		return
	}
	last := list[0]
	log.Info("último aviso entregue",
		"sent_at", last.SentAt.Format(time.RFC3339),
		"offer", last.OfferType.String(),
		"price", last.Price.Decimal.String(),
		"reason", last.Reason,
		"total", len(list))
}

func (m *Monitor) recordHistory(ctx context.Context, snap *models.ProductSnapshot, d models.OfferDecision, r offer.Reason, now time.Time) {
	if m.history == nil {
		return
	}
	err := m.history.AddNotification(ctx, database.Notification{
		URL:       snap.URL,
		Name:      snap.Name,
		OfferType: d.Type,
		Price:     d.Price,
		Reason:    r.String(),
		SentAt:    now,
	})
	if err != nil {
		m.logger.Warn("erro ao registrar aviso no histórico", "url", snap.URL, "error", err)
	}
}

func priceText(p *models.Price) string {
	if p == nil {
		return ""
	}
	return p.Text
}
