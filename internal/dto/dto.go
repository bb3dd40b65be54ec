// dto.go
package dto

import (
	"time"

	"apparel-design-service/internal/model"
)

// PlacementDTO es un estampado tal como lo manda el storefront (forma
// canónica; las formas legadas solo entran por la base, nunca por la API).
type PlacementDTO struct {
	Area             string `json:"area" binding:"required"`
	VerticalPosition string `json:"verticalPosition"`
	DesignType       string `json:"designType"`
	DesignText       string `json:"designText"`
	DesignFont       string `json:"designFont"`
	DesignColor      string `json:"designColor"`
	FontSize         int    `json:"fontSize"`
	TextBoxWidth     string `json:"textBoxWidth"`
	DesignImageURL   string `json:"designImageUrl"`
}

// CreateOrderRequest usado por la API y Rabbit para crear una orden
// personalizada.
type CreateOrderRequest struct {
	BaseColor     string         `json:"baseColor" binding:"required"`
	BaseProductID string         `json:"baseProductId"`
	Quantity      int            `json:"quantity"`
	Placements    []PlacementDTO `json:"placements"`
}

type QuoteRequest struct {
	BaseProductID  string `json:"baseProductId"`
	PlacementCount int    `json:"placementCount"`
	Quantity       int    `json:"quantity"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type FinalTotalRequest struct {
	FinalTotal float64 `json:"finalTotal" binding:"required"`
}

type OrderSummaryResponse struct {
	OrderID   string        `json:"orderId"`
	UserID    string        `json:"userId"`
	BaseColor string        `json:"baseColor"`
	Status    string        `json:"status"`
	Pricing   model.Pricing `json:"pricing"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// ProductionPreviewResponse lleva la URL compuesta por el servicio externo;
// url en null significa "sin preview de producción, usá el lienzo".
type ProductionPreviewResponse struct {
	URL *string `json:"url"`
}
