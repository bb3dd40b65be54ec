// Package preview genera la URL del preview de producción delegando la
// composición a un servicio externo de transformación de imágenes estilo
// Cloudinary. No necesita lienzo: arma directivas de overlay sobre la
// imagen base de la prenda.
package preview

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"apparel-design-service/internal/design"
	"apparel-design-service/internal/model"
)

type Config struct {
	// CloudName identifica la cuenta del servicio; vacío = servicio no
	// configurado y el generador devuelve siempre "".
	CloudName string
	// Folder donde viven los assets base de prendas.
	Folder string
	// Alto en píxeles del asset base, para convertir las anclas verticales
	// porcentuales en corrimientos de píxeles.
	GarmentHeight int
}

// overlaySpec posiciona un overlay en el modelo del servicio externo:
// gravedad + corrimiento en píxeles (distinto del modelo porcentual del
// lienzo, pero alimentado por las mismas constantes semánticas).
type overlaySpec struct {
	gravity  string
	x, y     int
	width    int
	fontSize int
}

var overlayTable = map[design.Area]overlaySpec{
	design.AreaFront:      {gravity: "north", x: 0, y: 384, width: 420, fontSize: 48},
	design.AreaBack:       {gravity: "north", x: 0, y: 384, width: 420, fontSize: 48},
	design.AreaLeftChest:  {gravity: "north_east", x: 96, y: 250, width: 170, fontSize: 28},
	design.AreaRightChest: {gravity: "north_west", x: 96, y: 250, width: 170, fontSize: 28},
}

const (
	minOverlayFontSize = 12
	maxOverlayFontSize = 120
)

type Generator struct {
	cfg Config
}

func NewGenerator(cfg Config) *Generator {
	if cfg.Folder == "" {
		cfg.Folder = "garments"
	}
	if cfg.GarmentHeight <= 0 {
		cfg.GarmentHeight = 1200
	}
	return &Generator{cfg: cfg}
}

// URL devuelve la URL del preview compuesto, o "" si el servicio no está
// configurado o el diseño no se puede trasladar. El llamador trata "" como
// "sin preview de producción" y cae al lienzo interactivo; acá nada es
// fatal.
//
// Hoy solo se genera el frente y solo con el primer estampado resuelto.
func (g *Generator) URL(o *model.CustomOrder) string {
	if g.cfg.CloudName == "" {
		log.Debug("servicio de previews no configurado; sin preview de producción")
		return ""
	}

	baseID := g.garmentPublicID(o.BaseColor)
	placements := design.ResolvePlacements(o)
	if len(placements) == 0 || !placements[0].HasContent() {
		return g.deliverURL(baseID, "")
	}

	p := placements[0]
	spec, ok := overlayTable[p.Area]
	if !ok {
		return g.deliverURL(baseID, "")
	}

	y := spec.y
	if p.Area == design.AreaFront || p.Area == design.AreaBack {
		y += g.verticalOffset(p.VerticalPosition)
	}

	var directive string
	if p.DesignType == design.DesignTypeImage {
		publicID := hostedPublicID(p.DesignImageURL)
		if publicID == "" {
			// Imagen alojada fuera del servicio: no se puede overlay-ar.
			return g.deliverURL(baseID, "")
		}
		directive = fmt.Sprintf("l_%s,g_%s,x_%d,y_%d,w_%d,c_fit",
			publicID, spec.gravity, spec.x, y, spec.width)
	} else {
		size := p.FontSize
		if size <= 0 {
			size = spec.fontSize
		}
		size = clampInt(size, minOverlayFontSize, maxOverlayFontSize)

		width := int(float64(spec.width) * design.WidthMultiplier(p.TextBoxWidth))
		directive = fmt.Sprintf("l_text:%s_%d:%s,co_rgb:%s,g_%s,x_%d,y_%d,w_%d,c_fit",
			overlayFontName(p.DesignFont), size, escapeOverlayText(p.DesignText),
			colorLiteral(p.DesignColor), spec.gravity, spec.x, y, width)
	}

	return g.deliverURL(baseID, directive)
}

// verticalOffset convierte el ancla vertical porcentual en un delta de
// píxeles relativo al centro, sobre el alto del asset base. Mismas anclas
// que usa el lienzo (22/32/42).
func (g *Generator) verticalOffset(v design.VerticalPosition) int {
	delta := design.VerticalAnchorPercent(v) - design.VerticalAnchorPercent(design.VerticalCenter)
	return int(delta / 100 * float64(g.cfg.GarmentHeight))
}

func (g *Generator) garmentPublicID(colorName string) string {
	c := strings.ToLower(strings.TrimSpace(colorName))
	c = strings.ReplaceAll(c, " ", "_")
	if c == "" {
		c = "white"
	}
	return fmt.Sprintf("%s/tee_%s_front", g.cfg.Folder, c)
}

func (g *Generator) deliverURL(publicID, directive string) string {
	base := fmt.Sprintf("https://res.cloudinary.com/%s/image/upload", g.cfg.CloudName)
	if directive == "" {
		return base + "/" + publicID + ".png"
	}
	return base + "/" + directive + "/" + publicID + ".png"
}

var versionSegment = regexp.MustCompile(`^v\d+/`)

// hostedPublicID extrae el identificador interno de una URL que ya vive en
// el servicio de transformación ( .../image/upload/v123/carpeta/archivo.png
// → carpeta:archivo ). Devuelve "" para URLs de terceros.
func hostedPublicID(raw string) string {
	const marker = "/image/upload/"
	idx := strings.Index(raw, marker)
	if idx < 0 {
		return ""
	}
	rest := raw[idx+len(marker):]
	rest = versionSegment.ReplaceAllString(rest, "")
	if dot := strings.LastIndex(rest, "."); dot > 0 {
		rest = rest[:dot]
	}
	if rest == "" {
		return ""
	}
	return strings.ReplaceAll(rest, "/", ":")
}

// escapeOverlayText escapa el texto para meterlo dentro de la directiva:
// además del escape de path hay que cubrir la coma, que el servicio usa
// como separador de parámetros.
func escapeOverlayText(s string) string {
	escaped := url.PathEscape(s)
	escaped = strings.ReplaceAll(escaped, ",", "%2C")
	return escaped
}

func overlayFontName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "%20")
	if s == "" {
		return "arial"
	}
	return s
}

// colorLiteral traduce el color del diseño a la sintaxis del servicio
// (hex sin numeral). Colores irreconocibles caen en negro.
func colorLiteral(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	named := map[string]string{
		"black": "000000",
		"white": "FFFFFF",
		"red":   "E00000",
		"gold":  "D4AF37",
		"navy":  "000080",
	}
	if hex, ok := named[s]; ok {
		return hex
	}
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) == 6 && isHex(hex) {
			return strings.ToUpper(hex)
		}
	}
	return "000000"
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if (b < '0' || b > '9') && (b < 'a' || b > 'f') && (b < 'A' || b > 'F') {
			return false
		}
	}
	return true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
