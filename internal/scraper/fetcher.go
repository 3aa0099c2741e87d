package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrStatus indica que a loja respondeu com status diferente de 200
var ErrStatus = errors.New("status inesperado")

// Fetcher obtém o HTML final de uma página de produto
type Fetcher interface {
	Fetch(ctx context.Context, productURL string) (string, error)
}

// DefaultHeaders são enviados em toda requisição
var DefaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "es-ES,es;q=0.9,en;q=0.8",
}

const maxBodySize = 10 << 20

// HTTPFetcher busca a página com um GET simples, sem executar JavaScript
type HTTPFetcher struct {
	client  *http.Client
	headers map[string]string
	logger  *slog.Logger
}

// Option configura um HTTPFetcher
type Option func(*HTTPFetcher)

// WithClient define um cliente HTTP próprio
func WithClient(c *http.Client) Option {
	return func(f *HTTPFetcher) { f.client = c }
}

// WithHeaders substitui os headers padrão
func WithHeaders(h map[string]string) Option {
	return func(f *HTTPFetcher) { f.headers = h }
}

// WithLogger define o logger
func WithLogger(l *slog.Logger) Option {
	return func(f *HTTPFetcher) { f.logger = l }
}

// NewHTTPFetcher cria um fetcher HTTP com timeout de 35s
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:  &http.Client{Timeout: 35 * time.Second},
		headers: DefaultHeaders,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch faz o GET e devolve o corpo da resposta
func (f *HTTPFetcher) Fetch(ctx context.Context, productURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cleanURL(productURL), nil)
	if err != nil {
		return "", fmt.Errorf("erro ao criar requisição: %w", err)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("erro na requisição: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("erro ao ler resposta: %w", err)
	}

	f.logger.Debug("página obtida", "url", productURL, "status", resp.StatusCode, "size", len(body))
	return string(body), nil
}

// cleanURL remove o fragmento, que não faz parte da requisição
func cleanURL(productURL string) string {
	base, _, _ := strings.Cut(productURL, "#")
	return base
}
