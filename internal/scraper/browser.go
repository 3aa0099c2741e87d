package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// BrowserConfig configura o Chrome headless usado para renderizar as páginas
type BrowserConfig struct {
	// Bin é o executável do Chrome/Chromium. Vazio = detecção automática.
	Bin string
	// NoSandbox é necessário dentro de containers
	NoSandbox bool
	// RenderTimeout limita navegação + renderização de uma página. Padrão: 45s.
	RenderTimeout time.Duration
	// Settle é quanto tempo o DOM precisa ficar estável. Padrão: 2s.
	Settle time.Duration
	Logger *slog.Logger
}

func (c *BrowserConfig) defaults() {
	if c.RenderTimeout <= 0 {
		c.RenderTimeout = 45 * time.Second
	}
	if c.Settle <= 0 {
		c.Settle = 2 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// BrowserFetcher renderiza a página (executando JavaScript) com Rod + stealth
type BrowserFetcher struct {
	cfg     BrowserConfig
	mu      sync.Mutex
	lnch    *launcher.Launcher
	browser *rod.Browser
}

// NewBrowserFetcher lança o Chrome local e conecta via Rod
func NewBrowserFetcher(cfg BrowserConfig) (*BrowserFetcher, error) {
	cfg.defaults()

	l := launcher.New().
		Headless(true).
		NoSandbox(cfg.NoSandbox).
		Set("disable-blink-features", "AutomationControlled")
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("erro ao iniciar navegador: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("erro ao conectar no navegador: %w", err)
	}

	cfg.Logger.Info("navegador iniciado", "url", u)
	return &BrowserFetcher{cfg: cfg, lnch: l, browser: b}, nil
}

// Fetch abre uma aba, espera a página carregar e estabilizar e devolve o HTML final
func (f *BrowserFetcher) Fetch(ctx context.Context, productURL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser == nil {
		return "", fmt.Errorf("navegador fechado")
	}

	page, err := stealth.Page(f.browser)
	if err != nil {
		return "", fmt.Errorf("erro ao abrir aba: %w", err)
	}
	defer page.Close()

	renderCtx, cancel := context.WithTimeout(ctx, f.cfg.RenderTimeout)
	defer cancel()
	p := page.Context(renderCtx)

	if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      DefaultHeaders["User-Agent"],
		AcceptLanguage: DefaultHeaders["Accept-Language"],
	}); err != nil {
		f.cfg.Logger.Warn("falha ao definir user agent", "error", err)
	}

	if err := p.Navigate(cleanURL(productURL)); err != nil {
		return "", fmt.Errorf("erro ao navegar para %s: %w", productURL, err)
	}
	if err := p.WaitLoad(); err != nil {
		return "", fmt.Errorf("timeout aguardando carregamento: %w", err)
	}

	// Rolar a página dispara o carregamento tardio dos blocos de preço
	for i := 0; i < 2; i++ {
		if err := p.Mouse.Scroll(0, 800, 4); err != nil {
			f.cfg.Logger.Debug("falha ao rolar página", "url", productURL, "error", err)
			break
		}
	}

	if err := p.WaitStable(f.cfg.Settle); err != nil {
		f.cfg.Logger.Warn("página não estabilizou", "url", productURL, "error", err)
	}

	html, err := p.HTML()
	if err != nil {
		return "", fmt.Errorf("erro ao obter HTML: %w", err)
	}
	return html, nil
}

// Close encerra o navegador
func (f *BrowserFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser == nil {
		return nil
	}
	err := f.browser.Close()
	f.browser = nil
	if f.lnch != nil {
		f.lnch.Kill()
	}
	return err
}
