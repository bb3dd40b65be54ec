package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"apparel-design-service/internal/design"
)

// Modo de render: el pulgar usa tipografía más chica que la vista completa.
type Mode string

const (
	ModeThumbnail Mode = "thumbnail"
	ModeFull      Mode = "full"
)

const (
	defaultCanvasWidth  = 600
	defaultCanvasHeight = 700

	// Tamaño de referencia del control "tamaño de letra" del storefront.
	// El tamaño pedido escala el calculado por geometría contra este valor.
	referenceFontSize = 24.0

	fullFontFactor      = 0.30
	thumbnailFontFactor = 0.22

	dashLength = 6
	gapLength  = 4
)

var (
	canvasBackground = color.NRGBA{R: 0xFA, G: 0xFA, B: 0xFB, A: 0xFF}
	guideStroke      = color.NRGBA{R: 0x8A, G: 0x8A, B: 0x92, A: 0xFF}
	guideActive      = color.NRGBA{R: 0x1E, G: 0x66, B: 0xD0, A: 0xFF}
	guideLabelColor  = color.NRGBA{R: 0x6B, G: 0x6B, B: 0x73, A: 0xFF}
)

// Etiqueta que se dibuja en un slot sin contenido cuando la guía está activa.
const emptySlotLabel = "Placement"

// Options controla un pase de render.
type Options struct {
	Width  int
	Height int
	Mode   Mode
	// Guide dibuja el contorno de cada estampado y resalta el activo.
	Guide  bool
	Active int // índice del estampado activo; -1 si ninguno
}

// ImageSource entrega imágenes ya cargadas. Es mejor-esfuerzo: un false
// significa "todavía no está" o "falló", y el estampado se dibuja sin su
// imagen.
type ImageSource interface {
	Image(url string) (image.Image, bool)
}

// Composer compone la prenda base y los estampados sobre un raster. Un
// mismo juego de entradas produce siempre el mismo raster.
type Composer struct {
	geo    *design.GeometryTable
	fonts  *FontLibrary
	images ImageSource
}

func NewComposer(geo *design.GeometryTable, fonts *FontLibrary, images ImageSource) *Composer {
	return &Composer{geo: geo, fonts: fonts, images: images}
}

// Render dibuja fondo, prenda base estirada al lienzo y cada estampado.
// Los estampados sin rectángulo resoluble se saltean en silencio.
func (c *Composer) Render(base image.Image, placements []design.ResolvedPlacement, opts Options) *image.RGBA {
	if opts.Width <= 0 {
		opts.Width = defaultCanvasWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultCanvasHeight
	}

	dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(canvasBackground), image.Point{}, draw.Src)

	if base != nil {
		scaled := imaging.Resize(base, opts.Width, opts.Height, imaging.Linear)
		draw.Draw(dst, dst.Bounds(), scaled, image.Point{}, draw.Over)
	}

	for i, p := range placements {
		rect, ok := c.geo.Resolve(p.Area, p.VerticalPosition, p.TextBoxWidth, opts.Width, opts.Height)
		if !ok {
			continue
		}

		if p.HasContent() {
			if p.DesignType == design.DesignTypeImage {
				c.drawPlacementImage(dst, p, rect)
			} else {
				c.drawPlacementText(dst, p, rect, opts.Mode)
			}
		}

		if opts.Guide {
			active := i == opts.Active
			stroke, thickness := guideStroke, 1
			if active {
				stroke, thickness = guideActive, 2
			}
			drawDashedRect(dst, rect, stroke, thickness)
			if !p.HasContent() {
				c.drawCenteredLabel(dst, rect, emptySlotLabel)
			}
		}
	}
	return dst
}

// Export renderiza a resolución multiplicada y codifica el raster.
// Formatos: "png" (default) y "webp".
func (c *Composer) Export(base image.Image, placements []design.ResolvedPlacement, opts Options, scale float64, format string) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	if opts.Width <= 0 {
		opts.Width = defaultCanvasWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultCanvasHeight
	}
	opts.Width = int(float64(opts.Width) * scale)
	opts.Height = int(float64(opts.Height) * scale)

	img := c.Render(base, placements, opts)

	var buf bytes.Buffer
	if strings.EqualFold(format, "webp") {
		if err := webp.Encode(&buf, img, &webp.Options{Quality: 90}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Composer) drawPlacementImage(dst *image.RGBA, p design.ResolvedPlacement, r design.PixelRect) {
	img, ok := c.images.Image(p.DesignImageURL)
	if !ok {
		// Carga pendiente o fallida: el estampado se dibuja sin imagen.
		return
	}
	resized := imaging.Resize(img, r.Width, r.Height, imaging.Lanczos)
	bounds := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
	draw.Draw(dst, bounds, resized, image.Point{}, draw.Over)
}

func (c *Composer) drawPlacementText(dst *image.RGBA, p design.ResolvedPlacement, r design.PixelRect, mode Mode) {
	short := r.Width
	if r.Height < short {
		short = r.Height
	}
	factor := fullFontFactor
	if mode == ModeThumbnail {
		factor = thumbnailFontFactor
	}
	size := float64(short) * factor
	if p.FontSize > 0 {
		size *= float64(p.FontSize) / referenceFontSize
	}
	if size > float64(r.Height) {
		size = float64(r.Height)
	}

	face := c.fonts.Face(p.DesignFont, size)
	if face == nil {
		return
	}
	col := ParseHexColor(p.DesignColor, color.NRGBA{A: 0xFF})

	lines := wrapText(face, p.DesignText, r.Width)
	lineHeight := face.Metrics().Height.Ceil()
	if lineHeight < 1 {
		lineHeight = 1
	}
	maxLines := r.Height / lineHeight
	if maxLines < 1 {
		maxLines = 1
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[len(lines)-1] += "…"
	}
	// Ninguna línea puede medir más que el rectángulo: una palabra sola más
	// ancha que el rect también se recorta.
	for i := range lines {
		lines[i] = truncateEllipsis(face, lines[i], r.Width)
	}

	totalHeight := lineHeight * len(lines)
	y := r.Y + (r.Height-totalHeight)/2 + face.Metrics().Ascent.Ceil()
	src := image.NewUniform(col)
	for _, line := range lines {
		lineWidth := font.MeasureString(face, line).Ceil()
		x := r.X + (r.Width-lineWidth)/2
		d := &font.Drawer{Dst: dst, Src: src, Face: face, Dot: fixed.P(x, y)}
		d.DrawString(line)
		y += lineHeight
	}
}

func (c *Composer) drawCenteredLabel(dst *image.RGBA, r design.PixelRect, label string) {
	face := c.fonts.Face("", 12)
	if face == nil {
		return
	}
	w := font.MeasureString(face, label).Ceil()
	x := r.X + (r.Width-w)/2
	y := r.Y + r.Height/2 + face.Metrics().Ascent.Ceil()/2
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(guideLabelColor), Face: face, Dot: fixed.P(x, y)}
	d.DrawString(label)
}

// wrapText corta el texto en líneas que entren en maxWidth. Una palabra más
// larga que el ancho queda sola en su línea y se recorta después.
func wrapText(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = w
	}
	return append(lines, current)
}

// truncateEllipsis recorta la línea con "…" hasta que entre en maxWidth.
func truncateEllipsis(face font.Face, line string, maxWidth int) string {
	if font.MeasureString(face, line).Ceil() <= maxWidth {
		return line
	}
	runes := []rune(line)
	for len(runes) > 0 {
		candidate := string(runes) + "…"
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			return candidate
		}
		runes = runes[:len(runes)-1]
	}
	return "…"
}

func drawDashedRect(dst *image.RGBA, r design.PixelRect, col color.NRGBA, thickness int) {
	period := dashLength + gapLength
	setIfDash := func(x, y, offset int) {
		if offset%period < dashLength {
			dst.Set(x, y, col)
		}
	}
	for x := r.X; x < r.X+r.Width; x++ {
		for t := 0; t < thickness; t++ {
			setIfDash(x, r.Y+t, x-r.X)
			setIfDash(x, r.Y+r.Height-1-t, x-r.X)
		}
	}
	for y := r.Y; y < r.Y+r.Height; y++ {
		for t := 0; t < thickness; t++ {
			setIfDash(r.X+t, y, y-r.Y)
			setIfDash(r.X+r.Width-1-t, y, y-r.Y)
		}
	}
}

// ParseHexColor interpreta "#rgb"/"#rrggbb" y algunos nombres comunes del
// selector de colores; cualquier otra cosa cae en fallback.
func ParseHexColor(s string, fallback color.NRGBA) color.NRGBA {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "black":
		return color.NRGBA{A: 0xFF}
	case "white":
		return color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	case "red":
		return color.NRGBA{R: 0xE0, A: 0xFF}
	case "gold":
		return color.NRGBA{R: 0xD4, G: 0xAF, B: 0x37, A: 0xFF}
	case "navy":
		return color.NRGBA{B: 0x80, A: 0xFF}
	}
	if !strings.HasPrefix(s, "#") {
		return fallback
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return fallback
	}
	var v [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexDigit(hex[i*2])
		lo, ok2 := hexDigit(hex[i*2+1])
		if !ok1 || !ok2 {
			return fallback
		}
		v[i] = hi<<4 | lo
	}
	return color.NRGBA{R: v[0], G: v[1], B: v[2], A: 0xFF}
}

func hexDigit(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	}
	return 0, false
}
