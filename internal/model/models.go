// models.go
package model

import "time"

// CustomOrder es la raíz del agregado de pedidos personalizados.
// El diseño puede venir guardado en cuatro formas históricas distintas;
// exactamente una es la autoritativa por documento (ver paquete design).
type CustomOrder struct {
	OrderID       string `bson:"order_id" json:"orderId"`
	UserID        string `bson:"user_id" json:"userId"`
	BaseColor     string `bson:"base_color" json:"baseColor"`
	BaseProductID string `bson:"base_product_id,omitempty" json:"baseProductId,omitempty"`
	Quantity      int    `bson:"quantity" json:"quantity"`

	// Forma canónica: lista explícita de estampados.
	Placements []Placement `bson:"placements,omitempty" json:"placements,omitempty"`

	// Forma de dos lados (frente/espalda).
	Sides *Sides `bson:"sides,omitempty" json:"sides,omitempty"`

	// Forma legada: etiquetas de ubicación + assets por separado.
	LegacyPlacements []LegacyPlacement `bson:"legacy_placements,omitempty" json:"legacyPlacements,omitempty"`
	DesignAssets     []DesignAsset     `bson:"design_assets,omitempty" json:"designAssets,omitempty"`

	// Campos planos de un solo diseño (la forma más antigua).
	Placement      string `bson:"placement,omitempty" json:"placement,omitempty"`
	DesignType     string `bson:"design_type,omitempty" json:"designType,omitempty"`
	DesignText     string `bson:"design_text,omitempty" json:"designText,omitempty"`
	DesignFont     string `bson:"design_font,omitempty" json:"designFont,omitempty"`
	DesignColor    string `bson:"design_color,omitempty" json:"designColor,omitempty"`
	FontSize       int    `bson:"font_size,omitempty" json:"fontSize,omitempty"`
	TextBoxWidth   string `bson:"text_box_width,omitempty" json:"textBoxWidth,omitempty"`
	DesignImageURL string `bson:"design_image_url,omitempty" json:"designImageUrl,omitempty"`

	Pricing   Pricing        `bson:"pricing" json:"pricing"`
	Status    string         `bson:"status" json:"status"` // estado actual
	History   []StatusRecord `bson:"history" json:"history"`
	CreatedAt time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `bson:"updated_at" json:"updatedAt"`
}

// Placement es un estampado en la forma canónica.
type Placement struct {
	Area             string `bson:"area" json:"area"`
	VerticalPosition string `bson:"vertical_position,omitempty" json:"verticalPosition,omitempty"`
	DesignType       string `bson:"design_type,omitempty" json:"designType,omitempty"`
	DesignText       string `bson:"design_text,omitempty" json:"designText,omitempty"`
	DesignFont       string `bson:"design_font,omitempty" json:"designFont,omitempty"`
	DesignColor      string `bson:"design_color,omitempty" json:"designColor,omitempty"`
	FontSize         int    `bson:"font_size,omitempty" json:"fontSize,omitempty"`
	TextBoxWidth     string `bson:"text_box_width,omitempty" json:"textBoxWidth,omitempty"`
	DesignImageURL   string `bson:"design_image_url,omitempty" json:"designImageUrl,omitempty"`
}

type Sides struct {
	Front *SideDesign `bson:"front,omitempty" json:"front,omitempty"`
	Back  *SideDesign `bson:"back,omitempty" json:"back,omitempty"`
}

// SideDesign es un slot de la forma de dos lados. Enabled en nil cuenta
// como habilitado (solo un false explícito excluye el lado).
type SideDesign struct {
	Enabled          *bool  `bson:"enabled,omitempty" json:"enabled,omitempty"`
	VerticalPosition string `bson:"vertical_position,omitempty" json:"verticalPosition,omitempty"`
	DesignType       string `bson:"design_type,omitempty" json:"designType,omitempty"`
	DesignText       string `bson:"design_text,omitempty" json:"designText,omitempty"`
	DesignFont       string `bson:"design_font,omitempty" json:"designFont,omitempty"`
	DesignColor      string `bson:"design_color,omitempty" json:"designColor,omitempty"`
	FontSize         int    `bson:"font_size,omitempty" json:"fontSize,omitempty"`
	TextBoxWidth     string `bson:"text_box_width,omitempty" json:"textBoxWidth,omitempty"`
	DesignImageURL   string `bson:"design_image_url,omitempty" json:"designImageUrl,omitempty"`
}

// LegacyPlacement es solo un marcador de ubicación; el contenido vive en
// DesignAssets, unidos por etiqueta.
type LegacyPlacement struct {
	Label string `bson:"label" json:"label"`
}

type DesignAsset struct {
	Placement      string `bson:"placement" json:"placement"` // etiqueta de ubicación
	DesignType     string `bson:"design_type,omitempty" json:"designType,omitempty"`
	DesignText     string `bson:"design_text,omitempty" json:"designText,omitempty"`
	DesignFont     string `bson:"design_font,omitempty" json:"designFont,omitempty"`
	DesignColor    string `bson:"design_color,omitempty" json:"designColor,omitempty"`
	FontSize       int    `bson:"font_size,omitempty" json:"fontSize,omitempty"`
	TextBoxWidth   string `bson:"text_box_width,omitempty" json:"textBoxWidth,omitempty"`
	DesignImageURL string `bson:"design_image_url,omitempty" json:"designImageUrl,omitempty"`
}

// Pricing es la foto de precios tomada al crear la orden. Solo FinalTotal
// puede cambiar después (lo fija el staff en la revisión).
type Pricing struct {
	BasePrice          float64  `bson:"base_price" json:"basePrice"`
	PlacementCost      float64  `bson:"placement_cost" json:"placementCost"`
	QuantityMultiplier int      `bson:"quantity_multiplier" json:"quantityMultiplier"`
	EstimatedTotal     float64  `bson:"estimated_total" json:"estimatedTotal"`
	FinalTotal         *float64 `bson:"final_total,omitempty" json:"finalTotal,omitempty"`
}

type StatusRecord struct {
	Status    string    `bson:"status" json:"status"`
	Reason    string    `bson:"reason" json:"reason"`
	UserID    string    `bson:"user" json:"userId"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`

	// Para marcar cuál es el último
	Current bool `bson:"current" json:"current"`
}
