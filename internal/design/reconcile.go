package design

import (
	"strings"

	"apparel-design-service/internal/model"
)

const (
	DesignTypeText  = "text"
	DesignTypeImage = "image"
)

// ResolvedPlacement es la representación canónica de un estampado,
// independiente de la forma histórica en que se guardó la orden.
type ResolvedPlacement struct {
	Area             Area             `json:"area"`
	VerticalPosition VerticalPosition `json:"verticalPosition,omitempty"`
	DesignType       string           `json:"designType"`
	DesignText       string           `json:"designText,omitempty"`
	DesignFont       string           `json:"designFont,omitempty"`
	DesignColor      string           `json:"designColor,omitempty"`
	FontSize         int              `json:"fontSize,omitempty"`
	TextBoxWidth     TextBoxWidth     `json:"textBoxWidth,omitempty"`
	DesignImageURL   string           `json:"designImageUrl,omitempty"`
}

// HasContent indica si el estampado tiene algo que dibujar.
func (p ResolvedPlacement) HasContent() bool {
	if p.DesignType == DesignTypeImage {
		return p.DesignImageURL != ""
	}
	return p.DesignText != ""
}

// NormalizeArea interpreta con tolerancia las cadenas de área históricas:
// busca subcadenas por lado y cae en "front" si no reconoce nada. Esto cubre
// typos viejos tipo "LeftChestPocket".
func NormalizeArea(raw string) Area {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "left"):
		return AreaLeftChest
	case strings.Contains(s, "right"):
		return AreaRightChest
	case strings.Contains(s, "back"):
		return AreaBack
	default:
		return AreaFront
	}
}

func normalizeVertical(raw string) VerticalPosition {
	switch VerticalPosition(strings.ToLower(strings.TrimSpace(raw))) {
	case VerticalUpper:
		return VerticalUpper
	case VerticalLower:
		return VerticalLower
	default:
		return VerticalCenter
	}
}

// deriveDesignType completa un designType faltante: si hay imagen es
// "image", si no, "text".
func deriveDesignType(declared, imageURL string) string {
	switch declared {
	case DesignTypeText, DesignTypeImage:
		return declared
	}
	if imageURL != "" {
		return DesignTypeImage
	}
	return DesignTypeText
}

// scrub hace valer el invariante: el conjunto de campos inactivo se trata
// como ausente sin importar lo que haya quedado guardado.
func scrub(p ResolvedPlacement) ResolvedPlacement {
	if p.DesignType == DesignTypeImage {
		p.DesignText = ""
		p.DesignFont = ""
		p.DesignColor = ""
		p.FontSize = 0
	} else {
		p.DesignImageURL = ""
	}
	return p
}

// ResolvePlacements reduce cualquiera de las cuatro formas históricas a la
// lista canónica de estampados. El orden de precedencia es absoluto: se
// consulta UNA sola forma y nunca se mezclan datos entre formas.
func ResolvePlacements(o *model.CustomOrder) []ResolvedPlacement {
	switch {
	case len(o.Placements) > 0:
		return fromCanonical(o)
	case o.Sides != nil && (o.Sides.Front != nil || o.Sides.Back != nil):
		return fromSides(o)
	case len(o.LegacyPlacements) > 0 || len(o.DesignAssets) > 0:
		return fromLegacyAssets(o)
	default:
		return fromFlat(o)
	}
}

// PlacementsForSide filtra la lista por el lado que se va a dibujar. Las
// áreas de pecho pertenecen al frente.
func PlacementsForSide(list []ResolvedPlacement, side Area) []ResolvedPlacement {
	var out []ResolvedPlacement
	for _, p := range list {
		if side == AreaBack {
			if p.Area == AreaBack {
				out = append(out, p)
			}
			continue
		}
		if p.Area != AreaBack {
			out = append(out, p)
		}
	}
	return out
}

func fromCanonical(o *model.CustomOrder) []ResolvedPlacement {
	out := make([]ResolvedPlacement, 0, len(o.Placements))
	for _, p := range o.Placements {
		out = append(out, scrub(ResolvedPlacement{
			Area:             NormalizeArea(p.Area),
			VerticalPosition: normalizeVertical(p.VerticalPosition),
			DesignType:       deriveDesignType(p.DesignType, p.DesignImageURL),
			DesignText:       p.DesignText,
			DesignFont:       p.DesignFont,
			DesignColor:      p.DesignColor,
			FontSize:         p.FontSize,
			TextBoxWidth:     TextBoxWidth(p.TextBoxWidth),
			DesignImageURL:   p.DesignImageURL,
		}))
	}
	return out
}

func fromSides(o *model.CustomOrder) []ResolvedPlacement {
	var out []ResolvedPlacement
	appendSide := func(area Area, s *model.SideDesign) {
		if s == nil || (s.Enabled != nil && !*s.Enabled) {
			return
		}
		// Compatibilidad hacia atrás: los lados viejos sin contenido propio
		// heredan de los campos planos de la orden.
		text := firstNonEmpty(s.DesignText, o.DesignText)
		img := firstNonEmpty(s.DesignImageURL, o.DesignImageURL)
		out = append(out, scrub(ResolvedPlacement{
			Area:             area,
			VerticalPosition: normalizeVertical(s.VerticalPosition),
			DesignType:       deriveDesignType(s.DesignType, img),
			DesignText:       text,
			DesignFont:       firstNonEmpty(s.DesignFont, o.DesignFont),
			DesignColor:      firstNonEmpty(s.DesignColor, o.DesignColor),
			FontSize:         firstPositive(s.FontSize, o.FontSize),
			TextBoxWidth:     TextBoxWidth(firstNonEmpty(s.TextBoxWidth, o.TextBoxWidth)),
			DesignImageURL:   img,
		}))
	}
	appendSide(AreaFront, o.Sides.Front)
	appendSide(AreaBack, o.Sides.Back)
	return out
}

func fromLegacyAssets(o *model.CustomOrder) []ResolvedPlacement {
	// Orden de las claves: cada etiqueta legada en orden, seguida de las
	// claves que solo aparecen en assets.
	var keys []Area
	seen := map[Area]bool{}
	add := func(label string) {
		a := NormalizeArea(label)
		if !seen[a] {
			seen[a] = true
			keys = append(keys, a)
		}
	}
	for _, lp := range o.LegacyPlacements {
		add(lp.Label)
	}
	for _, da := range o.DesignAssets {
		add(da.Placement)
	}

	out := make([]ResolvedPlacement, 0, len(keys))
	for _, key := range keys {
		var asset *model.DesignAsset
		for i := range o.DesignAssets {
			if NormalizeArea(o.DesignAssets[i].Placement) == key {
				asset = &o.DesignAssets[i]
				break
			}
		}
		if asset == nil {
			// Sin asset para la etiqueta: el contenido sale de los campos planos.
			out = append(out, scrub(ResolvedPlacement{
				Area:             key,
				VerticalPosition: VerticalCenter,
				DesignType:       deriveDesignType(o.DesignType, o.DesignImageURL),
				DesignText:       o.DesignText,
				DesignFont:       o.DesignFont,
				DesignColor:      o.DesignColor,
				FontSize:         o.FontSize,
				TextBoxWidth:     TextBoxWidth(o.TextBoxWidth),
				DesignImageURL:   o.DesignImageURL,
			}))
			continue
		}
		out = append(out, scrub(ResolvedPlacement{
			Area:             key,
			VerticalPosition: VerticalCenter,
			DesignType:       deriveDesignType(asset.DesignType, asset.DesignImageURL),
			DesignText:       firstNonEmpty(asset.DesignText, o.DesignText),
			DesignFont:       firstNonEmpty(asset.DesignFont, o.DesignFont),
			DesignColor:      firstNonEmpty(asset.DesignColor, o.DesignColor),
			FontSize:         firstPositive(asset.FontSize, o.FontSize),
			TextBoxWidth:     TextBoxWidth(firstNonEmpty(asset.TextBoxWidth, o.TextBoxWidth)),
			DesignImageURL:   asset.DesignImageURL,
		}))
	}
	return out
}

func fromFlat(o *model.CustomOrder) []ResolvedPlacement {
	if o.Placement == "" && o.DesignType == "" && o.DesignText == "" && o.DesignImageURL == "" {
		return nil
	}
	return []ResolvedPlacement{scrub(ResolvedPlacement{
		Area:             NormalizeArea(o.Placement),
		VerticalPosition: VerticalCenter,
		DesignType:       deriveDesignType(o.DesignType, o.DesignImageURL),
		DesignText:       o.DesignText,
		DesignFont:       o.DesignFont,
		DesignColor:      o.DesignColor,
		FontSize:         o.FontSize,
		TextBoxWidth:     TextBoxWidth(o.TextBoxWidth),
		DesignImageURL:   o.DesignImageURL,
	})}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
