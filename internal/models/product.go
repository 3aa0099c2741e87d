package models

import (
	"github.com/shopspring/decimal"
)

// UnknownProductName é usado quando a página não expõe nenhum nome reconhecível
const UnknownProductName = "Unknown Product"

// Price representa um preço exibido na página.
// Value só é inválido quando Text existe mas não contém número reconhecível.
type Price struct {
	Text  string
	Value decimal.NullDecimal
}

// ProductSnapshot é o resultado do parsing de uma URL em um instante
type ProductSnapshot struct {
	Name             string
	URL              string
	RegularPrice     *Price
	PromoPrice       *Price
	SpecialPrice     *Price // Preço exclusivo (cartão/programa de fidelidade)
	IsRegularStriked bool   // Preço regular aparece riscado
}
