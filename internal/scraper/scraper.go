package scraper

import (
	"net/url"
	"strings"

	"promo-checker/internal/models"
)

// Scraper define a interface para parsers de diferentes lojas
type Scraper interface {
	Parse(html, productURL string) (*models.ProductSnapshot, error)
	CanHandle(productURL string) bool
}

// Labels são os rótulos (em minúsculas) que identificam cada faixa de preço
type Labels struct {
	Regular string
	Promo   string
	Special string
}

// DefaultLabels são os rótulos usados pela Inkafarma
var DefaultLabels = Labels{
	Regular: "precio regular",
	Promo:   "precio promocional",
	Special: "exclusivo oh! y oh! pay",
}

// Storefront descreve a estrutura de página de uma loja
type Storefront struct {
	Name   string
	Hosts  []string // Vazio aceita qualquer URL
	Labels Labels

	// TitleSelector aponta para o elemento com o nome do produto
	TitleSelector string
	// TitleStrip são trechos removidos do og:title
	TitleStrip []string
	// TitleCut corta o og:title a partir deste sufixo
	TitleCut string
}

// NewInkafarma cria o perfil da Inkafarma
func NewInkafarma() *Storefront {
	return &Storefront{
		Name:          "inkafarma",
		Hosts:         []string{"inkafarma.pe"},
		Labels:        DefaultLabels,
		TitleSelector: "h1.product-detail-information__name",
		TitleStrip: []string{
			"Inkafarma: Más salud al mejor precio | ",
			"Inkafarma | ",
		},
		TitleCut: " - Inkafarma",
	}
}

// NewGeneric cria um perfil que aceita qualquer loja com os mesmos rótulos
func NewGeneric() *Storefront {
	return &Storefront{
		Name:   "generic",
		Labels: DefaultLabels,
	}
}

// CanHandle verifica se o perfil atende a URL fornecida
func (s *Storefront) CanHandle(productURL string) bool {
	if len(s.Hosts) == 0 {
		return true
	}
	u, err := url.Parse(productURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range s.Hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// Registry mantém um registro de todos os scrapers disponíveis
type Registry struct {
	scrapers []Scraper
}

// NewRegistry cria um novo registro de scrapers.
// O perfil genérico fica por último e atende o que sobrar.
func NewRegistry() *Registry {
	return &Registry{
		scrapers: []Scraper{
			NewInkafarma(),
			NewGeneric(),
		},
	}
}

// NewRegistryWith cria um registro com scrapers específicos
func NewRegistryWith(scrapers ...Scraper) *Registry {
	return &Registry{scrapers: scrapers}
}

// FindScraper encontra o scraper apropriado para uma URL
func (r *Registry) FindScraper(productURL string) Scraper {
	for _, scraper := range r.scrapers {
		if scraper.CanHandle(productURL) {
			return scraper
		}
	}
	return nil
}
