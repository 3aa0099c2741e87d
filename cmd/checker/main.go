package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"promo-checker/config"
	"promo-checker/internal/database"
	"promo-checker/internal/monitor"
	"promo-checker/internal/notifier"
	"promo-checker/internal/observability"
	"promo-checker/internal/scraper"
	"promo-checker/internal/state"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		slog.Info("arquivo .env não encontrado, usando variáveis de ambiente do sistema")
	}

	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		slog.Error("erro ao carregar configurações", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})).
		With("run_id", uuid.NewString())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(cfg.ProductURLs) == 0 {
		logger.Warn("nenhuma URL de produto configurada")
		return
	}

	var opts []monitor.Option

	// Inicializar armazenamento de estado
	var store monitor.Store
	switch cfg.StateBackend {
	case config.BackendSQLite:
		db, err := database.New(cfg.DatabasePath, logger)
		if err != nil {
			logger.Error("erro ao inicializar banco de dados", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = db
		opts = append(opts, monitor.WithHistory(db))
	default:
		fs := state.NewFileStore(cfg.StateFile, logger)
		logger.Debug("estado em arquivo JSON", "path", fs.Path())
		store = fs
	}

	// Inicializar fetcher
	var fetcher scraper.Fetcher = scraper.NewHTTPFetcher(scraper.WithLogger(logger))
	if cfg.FetchMode == config.FetchBrowser {
		bf, err := scraper.NewBrowserFetcher(scraper.BrowserConfig{
			Bin:       cfg.BrowserBin,
			NoSandbox: cfg.BrowserNoSandbox,
			Logger:    logger,
		})
		if err != nil {
			logger.Warn("navegador indisponível, usando HTTP sem JavaScript", "error", err)
		} else {
			defer bf.Close()
			fetcher = bf
		}
	}

	// Inicializar canais de aviso
	notifiers := notifier.NewMulti(logger).Add("email", notifier.NewEmail(notifier.EmailConfig{
		SenderEmail:    cfg.Email.SenderEmail,
		SenderPassword: cfg.Email.SenderPassword,
		Recipient:      cfg.Email.Recipient,
		SMTPServer:     cfg.Email.SMTPServer,
		SMTPPort:       cfg.Email.SMTPPort,
	}, logger))
	if cfg.TelegramEnabled() {
		tg, err := notifier.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID, logger)
		if err != nil {
			logger.Warn("Telegram desativado", "error", err)
		} else {
			notifiers.Add("telegram", tg)
		}
	}

	metrics := observability.New()
	opts = append(opts,
		monitor.WithMetrics(metrics),
		monitor.WithDelay(cfg.CheckDelay),
		monitor.WithNameHints(cfg.NameHints),
		monitor.WithLogger(logger),
	)

	logger.Info("iniciando verificação de preços", "products", len(cfg.ProductURLs), "channels", notifiers.Len(), "fetch_mode", cfg.FetchMode, "state", cfg.StateBackend)
	monitor.New(store, fetcher, scraper.NewRegistry(), notifiers, opts...).Run(ctx, cfg.ProductURLs)

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Warn("erro ao gravar métricas", "path", cfg.MetricsTextfile, "error", err)
		}
	}
}
