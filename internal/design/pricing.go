package design

import "apparel-design-service/internal/model"

// Constantes de negocio del cotizador (fijas, sin catálogo en BD).
const (
	// Recargo fijo por cada estampado.
	PlacementCost = 15.0
	// Precio base si el producto de la prenda no se puede consultar.
	MinimumBasePrice = 20.0
)

// ComputePricing arma la foto de precios de la orden:
//
//	estimatedTotal = (basePrice + estampados*PlacementCost) * cantidad
//
// Función pura; FinalTotal queda en nil y solo lo fija el staff después.
func ComputePricing(basePrice float64, placementCount, quantity int) model.Pricing {
	if basePrice <= 0 {
		basePrice = MinimumBasePrice
	}
	if placementCount < 0 {
		placementCount = 0
	}
	if quantity < 1 {
		quantity = 1
	}

	cost := float64(placementCount) * PlacementCost
	return model.Pricing{
		BasePrice:          basePrice,
		PlacementCost:      cost,
		QuantityMultiplier: quantity,
		EstimatedTotal:     (basePrice + cost) * float64(quantity),
	}
}
