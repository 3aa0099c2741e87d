package scraper

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"promo-checker/internal/models"
)

// Símbolo da moeda, espaço opcional, dígitos com separador de milhar e fração opcional.
// "US$" vem antes de "$" para ser preferido na alternância.
// \p{Zs} cobre o &nbsp; (U+00A0) que as lojas colocam depois do símbolo.
var priceRe = regexp.MustCompile(`(?:S/|R\$|US\$|\$|€|£)[\s\p{Zs}]*(\d[\d,]*(?:\.\d+)?)`)

// PriceValue extrai o valor numérico de um texto de preço (ex: "S/ 28.90" -> 28.90).
// Retorna um valor inválido quando não há número reconhecível.
func PriceValue(text string) decimal.NullDecimal {
	m := priceRe.FindStringSubmatch(text)
	if len(m) < 2 {
		return decimal.NullDecimal{}
	}
	v, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(v)
}

// newPrice monta um Price a partir do texto encontrado; texto vazio é ausência
func newPrice(text string) *models.Price {
	if text == "" {
		return nil
	}
	return &models.Price{Text: text, Value: PriceValue(text)}
}
