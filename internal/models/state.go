package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductState é o último estado notificado de um produto
type ProductState struct {
	LastNotifiedType  OfferType
	LastNotifiedPrice decimal.NullDecimal
	LastChecked       time.Time
}

// Equal compara dois estados; preços são comparados por valor numérico
func (s ProductState) Equal(o ProductState) bool {
	return s.LastNotifiedType == o.LastNotifiedType &&
		SamePrice(s.LastNotifiedPrice, o.LastNotifiedPrice) &&
		s.LastChecked.Equal(o.LastChecked)
}

// SamePrice compara dois preços opcionais. Dois nulos são iguais.
func SamePrice(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}

// States mapeia a URL do produto para o seu estado persistido
type States map[string]ProductState

// Clone devolve uma cópia independente do mapa
func (s States) Clone() States {
	out := make(States, len(s))
	for url, st := range s {
		out[url] = st
	}
	return out
}

// Equal indica se os dois mapas têm exatamente as mesmas entradas
func (s States) Equal(o States) bool {
	if len(s) != len(o) {
		return false
	}
	for url, st := range s {
		other, ok := o[url]
		if !ok || !st.Equal(other) {
			return false
		}
	}
	return true
}
