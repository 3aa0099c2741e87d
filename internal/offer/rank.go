// Package offer escolhe a melhor oferta de um produto e decide se a mudança
// em relação ao último estado notificado merece um aviso.
package offer

import (
	"promo-checker/internal/models"
)

// Rank escolhe uma única oferta, da maior para a menor prioridade:
// exclusivo > promocional (com regular riscado) > regular > nenhuma.
func Rank(snap models.ProductSnapshot) models.OfferDecision {
	switch {
	case snap.SpecialPrice != nil:
		return decision(models.OfferSpecial, snap.SpecialPrice)
	case snap.PromoPrice != nil && snap.IsRegularStriked:
		return decision(models.OfferPromotional, snap.PromoPrice)
	case snap.RegularPrice != nil:
		return decision(models.OfferRegular, snap.RegularPrice)
	default:
		return models.OfferDecision{Type: models.OfferNone}
	}
}

func decision(t models.OfferType, p *models.Price) models.OfferDecision {
	return models.OfferDecision{Type: t, Price: p.Value, PriceText: p.Text}
}
