package offer

import (
	"time"

	"promo-checker/internal/models"
)

// Reason explica por que uma notificação foi gerada
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNewOffer
	ReasonTypeChanged
	ReasonPriceChanged
)

func (r Reason) String() string {
	switch r {
	case ReasonNewOffer:
		return "new offer detected"
	case ReasonTypeChanged:
		return "offer type changed"
	case ReasonPriceChanged:
		return "offer price changed"
	default:
		return ""
	}
}

// Label é o texto mostrado nas mensagens (em espanhol, como a loja)
func (r Reason) Label() string {
	switch r {
	case ReasonNewOffer:
		return "Nueva oferta detectada"
	case ReasonTypeChanged:
		return "Cambió el tipo de oferta"
	case ReasonPriceChanged:
		return "Cambió el precio de la oferta"
	default:
		return ""
	}
}

// Evaluation é o resultado da comparação com o estado anterior.
// NewState nil significa que o estado não muda.
type Evaluation struct {
	Notify   bool
	Reason   Reason
	NewState *models.ProductState
}

// Evaluate compara a oferta atual com o último estado notificado.
// prior é nil quando o produto nunca foi avaliado.
func Evaluate(d models.OfferDecision, prior *models.ProductState, now time.Time) Evaluation {
	current := &models.ProductState{
		LastNotifiedType:  d.Type,
		LastNotifiedPrice: d.Price,
		LastChecked:       now,
	}

	if !d.Type.IsPromotion() {
		switch {
		case prior == nil:
			return Evaluation{NewState: current}
		case prior.LastNotifiedType != models.OfferRegular && prior.LastNotifiedType != d.Type:
			// A promoção acabou: registra sem enviar aviso
			return Evaluation{NewState: current}
		default:
			return Evaluation{}
		}
	}

	// Sem valor numérico não há como comparar
	if !d.Price.Valid {
		return Evaluation{}
	}

	var reason Reason
	switch {
	case prior == nil || !prior.LastNotifiedType.IsPromotion():
		reason = ReasonNewOffer
	case prior.LastNotifiedType != d.Type:
		reason = ReasonTypeChanged
	case !models.SamePrice(prior.LastNotifiedPrice, d.Price):
		reason = ReasonPriceChanged
	default:
		return Evaluation{}
	}

	return Evaluation{Notify: true, Reason: reason, NewState: current}
}
