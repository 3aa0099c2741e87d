package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OfferType classifica a melhor oferta visível de um produto
type OfferType int

const (
	OfferNone OfferType = iota
	OfferRegular
	OfferPromotional
	OfferSpecial
)

var offerTypeNames = map[OfferType]string{
	OfferNone:        "NONE",
	OfferRegular:     "REGULAR",
	OfferPromotional: "PROMOTIONAL",
	OfferSpecial:     "SPECIAL",
}

func (t OfferType) String() string {
	if name, ok := offerTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("OfferType(%d)", int(t))
}

// IsPromotion indica se o tipo representa uma oferta que merece notificação
func (t OfferType) IsPromotion() bool {
	return t == OfferSpecial || t == OfferPromotional
}

// ParseOfferType converte o nome persistido no tipo correspondente
func ParseOfferType(s string) (OfferType, error) {
	for t, name := range offerTypeNames {
		if name == s {
			return t, nil
		}
	}
	return OfferNone, fmt.Errorf("tipo de oferta desconhecido: %q", s)
}

// MarshalText implementa encoding.TextMarshaler
func (t OfferType) MarshalText() ([]byte, error) {
	name, ok := offerTypeNames[t]
	if !ok {
		return nil, fmt.Errorf("tipo de oferta inválido: %d", int(t))
	}
	return []byte(name), nil
}

// UnmarshalText implementa encoding.TextUnmarshaler
func (t *OfferType) UnmarshalText(b []byte) error {
	parsed, err := ParseOfferType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// OfferDecision é a melhor oferta escolhida para um snapshot
type OfferDecision struct {
	Type      OfferType
	Price     decimal.NullDecimal
	PriceText string
}
