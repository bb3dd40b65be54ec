package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"

	"apparel-design-service/internal/design"
)

// Colores de prenda del catálogo. El color base decide qué imagen de
// prenda se carga y, si no hay imagen, el relleno del plan B.
var garmentColors = map[string]color.NRGBA{
	"white":        {R: 0xF5, G: 0xF5, B: 0xF2, A: 0xFF},
	"black":        {R: 0x23, G: 0x23, B: 0x26, A: 0xFF},
	"navy":         {R: 0x1F, G: 0x2A, B: 0x44, A: 0xFF},
	"red":          {R: 0xB3, G: 0x2B, B: 0x2B, A: 0xFF},
	"heather_gray": {R: 0xB8, G: 0xB8, B: 0xBC, A: 0xFF},
	"forest_green": {R: 0x2F, G: 0x52, B: 0x33, A: 0xFF},
}

func normalizeColorName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "_")
	if _, ok := garmentColors[s]; ok {
		return s
	}
	return "white"
}

// GarmentRGBA devuelve el color de relleno para un color de catálogo.
func GarmentRGBA(name string) color.NRGBA {
	return garmentColors[normalizeColorName(name)]
}

// GarmentResolver arma la URL de la imagen base de la prenda a partir del
// color y el lado. Con baseURL vacía no hay imágenes que cargar y el
// renderer usa el relleno plano.
type GarmentResolver struct {
	baseURL string
}

func NewGarmentResolver(baseURL string) *GarmentResolver {
	return &GarmentResolver{baseURL: strings.TrimRight(baseURL, "/")}
}

func (g *GarmentResolver) ImageURL(colorName string, side design.Area) string {
	if g.baseURL == "" {
		return ""
	}
	if side != design.AreaBack {
		side = design.AreaFront
	}
	return fmt.Sprintf("%s/garments/tee_%s_%s.png", g.baseURL, normalizeColorName(colorName), side)
}

// FlatGarment dibuja una silueta simple de remera como plan B cuando la
// imagen base no está disponible: fondo claro y cuerpo del color elegido.
func FlatGarment(c color.NRGBA, width, height int) image.Image {
	dst := imaging.New(width, height, color.NRGBA{R: 0xEE, G: 0xEE, B: 0xF0, A: 0xFF})

	bodyX := width / 8
	bodyY := height / 16
	body := imaging.New(width-2*bodyX, height-2*bodyY, c)
	return imaging.Paste(dst, body, image.Pt(bodyX, bodyY))
}
