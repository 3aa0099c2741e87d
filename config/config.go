package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultProductURLs é usada quando nenhuma lista é configurada
var DefaultProductURLs = []string{
	"https://inkafarma.pe/producto/magnesol-polvo-efervescente-sabor-naranja/009570",
	"https://inkafarma.pe/producto/desodorante-barra-invisible-secret-powder-cotton/071306",
}

// Backends de estado
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Modos de busca
const (
	FetchBrowser = "browser"
	FetchHTTP    = "http"
)

// Email contém as credenciais SMTP. Valores ausentes só impedem o envio.
type Email struct {
	SenderEmail    string
	SenderPassword string
	Recipient      string
	SMTPServer     string
	SMTPPort       string
}

// Config contém as configurações da aplicação
type Config struct {
	ProductURLs []string
	// NameHints são nomes de reserva por URL, vindos do arquivo de produtos
	NameHints map[string]string

	StateBackend string
	StateFile    string
	DatabasePath string

	FetchMode        string
	BrowserBin       string
	BrowserNoSandbox bool
	CheckDelay       time.Duration

	Email            Email
	TelegramBotToken string
	TelegramChatID   int64

	MetricsTextfile string
	LogLevel        slog.Level
}

// productsFile é o formato do arquivo YAML de produtos
type productsFile struct {
	Products []struct {
		URL      string `yaml:"url"`
		NameHint string `yaml:"name_hint"`
	} `yaml:"products"`
}

// Load carrega as configurações das variáveis de ambiente
func Load() (*Config, error) {
	cfg := &Config{
		StateBackend: getEnv("STATE_BACKEND", BackendJSON),
		StateFile:    getEnv("STATE_FILE", "price_state.json"),
		DatabasePath: getEnv("DATABASE_PATH", "./price_state.db"),
		FetchMode:    getEnv("FETCH_MODE", FetchBrowser),
		BrowserBin:   os.Getenv("BROWSER_BIN"),
		CheckDelay:   2 * time.Second,
		Email: Email{
			SenderEmail:    os.Getenv("SENDER_EMAIL"),
			SenderPassword: os.Getenv("SENDER_APP_PASSWORD"),
			Recipient:      os.Getenv("RECIPIENT_EMAIL"),
			SMTPServer:     os.Getenv("SMTP_SERVER"),
			SMTPPort:       os.Getenv("SMTP_PORT"),
		},
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		MetricsTextfile:  os.Getenv("METRICS_TEXTFILE"),
		LogLevel:         slog.LevelInfo,
	}

	if cfg.StateBackend != BackendJSON && cfg.StateBackend != BackendSQLite {
		return nil, fmt.Errorf("STATE_BACKEND inválido: %q (use %s ou %s)", cfg.StateBackend, BackendJSON, BackendSQLite)
	}
	if cfg.FetchMode != FetchBrowser && cfg.FetchMode != FetchHTTP {
		return nil, fmt.Errorf("FETCH_MODE inválido: %q (use %s ou %s)", cfg.FetchMode, FetchBrowser, FetchHTTP)
	}

	// Chat ID é opcional; sem ele o Telegram fica desligado
	if chatIDStr := os.Getenv("TELEGRAM_CHAT_ID"); chatIDStr != "" {
		if chatID, err := strconv.ParseInt(chatIDStr, 10, 64); err == nil {
			cfg.TelegramChatID = chatID
		}
	}

	// CHECK_DELAY aceita duração ("1500ms", "3s") ou segundos inteiros
	if v := os.Getenv("CHECK_DELAY"); v != "" {
		if d, ok := parseDelay(v); ok {
			cfg.CheckDelay = d
		}
	}

	if v := os.Getenv("BROWSER_NO_SANDBOX"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.BrowserNoSandbox = parsed
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("LOG_LEVEL inválido: %w", err)
		}
	}

	urls, hints, err := loadProductURLs()
	if err != nil {
		return nil, err
	}
	cfg.ProductURLs = urls
	cfg.NameHints = hints

	return cfg, nil
}

// TelegramEnabled indica se token e chat foram configurados
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

// loadProductURLs usa PRODUCTS_FILE, depois PRODUCT_URLS, depois a lista padrão.
// Só o arquivo de produtos traz nomes de reserva.
func loadProductURLs() ([]string, map[string]string, error) {
	if path := os.Getenv("PRODUCTS_FILE"); path != "" {
		return readProductsFile(path)
	}
	if raw := os.Getenv("PRODUCT_URLS"); raw != "" {
		return splitURLs(raw), map[string]string{}, nil
	}
	return append([]string(nil), DefaultProductURLs...), map[string]string{}, nil
}

func readProductsFile(path string) ([]string, map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao ler %s: %w", path, err)
	}

	var pf productsFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, nil, fmt.Errorf("erro ao interpretar %s: %w", path, err)
	}

	urls := make([]string, 0, len(pf.Products))
	hints := make(map[string]string)
	for _, p := range pf.Products {
		u := strings.TrimSpace(p.URL)
		if u == "" {
			continue
		}
		urls = append(urls, u)
		if hint := strings.TrimSpace(p.NameHint); hint != "" {
			hints[u] = hint
		}
	}
	return urls, hints, nil
}

func parseDelay(v string) (time.Duration, bool) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, secs >= 0
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}

func splitURLs(raw string) []string {
	var urls []string
	for _, part := range strings.Split(raw, ",") {
		if u := strings.TrimSpace(part); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
