package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"promo-checker/internal/models"
)

const (
	priceAmountClass = "price-amount"
	strikeClass      = "text-strike"
)

// Parse extrai nome e preços de uma página já renderizada.
// A estrutura da página não é controlada por nós: qualquer passo que não
// encontre o elemento esperado resulta em preço ausente, nunca em erro.
func (s *Storefront) Parse(rawHTML, productURL string) (*models.ProductSnapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("erro ao ler HTML: %w", err)
	}

	snap := &models.ProductSnapshot{
		Name: s.productName(doc),
		URL:  productURL,
	}

	if amount, ok := regularAmount(doc, s.Labels.Regular); ok {
		snap.RegularPrice = newPrice(strippedText(amount))
		snap.IsRegularStriked = amount.HasClass(strikeClass)
	}

	// Um promocional riscado não é confiável e é ignorado
	if amount, ok := regularAmount(doc, s.Labels.Promo); ok && !amount.HasClass(strikeClass) {
		snap.PromoPrice = newPrice(strippedText(amount))
	}

	if amount, ok := specialAmount(doc, s.Labels.Special); ok {
		snap.SpecialPrice = newPrice(directText(amount))
	}

	return snap, nil
}

// productName segue a prioridade: seletor da loja, og:title, primeiro h1
func (s *Storefront) productName(doc *goquery.Document) string {
	if s.TitleSelector != "" {
		if name := normalizeSpace(doc.Find(s.TitleSelector).First().Text()); name != "" {
			return name
		}
	}

	if content, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && content != "" {
		name := content
		for _, strip := range s.TitleStrip {
			name = strings.ReplaceAll(name, strip, "")
		}
		if s.TitleCut != "" {
			name, _, _ = strings.Cut(name, s.TitleCut)
		}
		if name = normalizeSpace(name); name != "" {
			return name
		}
	}

	if name := normalizeSpace(doc.Find("h1").First().Text()); name != "" {
		return name
	}

	return models.UnknownProductName
}

// regularAmount: rótulo -> coluna "col-*" -> irmão div.price-amount
func regularAmount(doc *goquery.Document, label string) (*goquery.Selection, bool) {
	col, ok := labelColumn(doc, label)
	if !ok {
		return nil, false
	}
	return present(col.NextAllFiltered("div." + priceAmountClass).First())
}

// specialAmount: rótulo -> coluna "col-*" -> próximo div irmão -> .price-amount aninhado
func specialAmount(doc *goquery.Document, label string) (*goquery.Selection, bool) {
	col, ok := labelColumn(doc, label)
	if !ok {
		return nil, false
	}
	sibling, ok := present(col.NextAllFiltered("div").First())
	if !ok {
		return nil, false
	}
	if amount, ok := present(sibling.Find("." + priceAmountClass).First()); ok {
		return amount, true
	}
	if sibling.HasClass(priceAmountClass) {
		return sibling, true
	}
	return nil, false
}

// labelColumn encontra o span do rótulo e sobe até a coluna que o contém
func labelColumn(doc *goquery.Document, label string) (*goquery.Selection, bool) {
	if label == "" {
		return nil, false
	}
	span, ok := present(doc.Find("span").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(strings.ToLower(strings.TrimSpace(directText(s))), label)
	}).First())
	if !ok {
		return nil, false
	}
	return present(span.ParentsFiltered("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		for _, class := range strings.Fields(s.AttrOr("class", "")) {
			if strings.HasPrefix(class, "col-") {
				return true
			}
		}
		return false
	}).First())
}

func present(s *goquery.Selection) (*goquery.Selection, bool) {
	if s == nil || s.Length() == 0 {
		return nil, false
	}
	return s, true
}

// strippedText concatena todos os textos descendentes, cada um sem espaços nas pontas
func strippedText(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return b.String()
}

// directText considera apenas os nós de texto filhos diretos.
// Elementos filhos (ícones, badges) ficam de fora.
func directText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(strings.TrimSpace(c.Data))
			}
		}
	}
	return b.String()
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
