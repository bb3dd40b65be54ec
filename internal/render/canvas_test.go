package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apparel-design-service/internal/design"
)

// staticSource es un ImageSource de prueba con imágenes precargadas.
type staticSource map[string]image.Image

func (s staticSource) Image(url string) (image.Image, bool) {
	img, ok := s[url]
	return img, ok
}

func newTestComposer(t *testing.T, images staticSource) *Composer {
	t.Helper()
	fonts, err := NewFontLibrary()
	require.NoError(t, err)
	return NewComposer(design.DefaultGeometryTable(), fonts, images)
}

func testBase() image.Image {
	return imaging.New(60, 70, color.NRGBA{R: 0x20, G: 0x20, B: 0x24, A: 0xFF})
}

func textPlacement(text string) design.ResolvedPlacement {
	return design.ResolvedPlacement{
		Area:             design.AreaFront,
		VerticalPosition: design.VerticalCenter,
		DesignType:       design.DesignTypeText,
		DesignText:       text,
		DesignColor:      "#ffffff",
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	c := newTestComposer(t, staticSource{
		"http://x/logo.png": imaging.New(40, 40, color.NRGBA{R: 0xFF, A: 0xFF}),
	})
	placements := []design.ResolvedPlacement{
		textPlacement("Equipo Fénix"),
		{Area: design.AreaLeftChest, DesignType: design.DesignTypeImage, DesignImageURL: "http://x/logo.png"},
	}
	opts := Options{Width: 300, Height: 350, Mode: ModeFull}

	a := c.Render(testBase(), placements, opts)
	b := c.Render(testBase(), placements, opts)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestExportIsByteIdentical(t *testing.T) {
	c := newTestComposer(t, staticSource{})
	placements := []design.ResolvedPlacement{textPlacement("Hola")}
	opts := Options{Width: 200, Height: 240, Mode: ModeThumbnail}

	a, err := c.Export(testBase(), placements, opts, 2, "png")
	require.NoError(t, err)
	b, err := c.Export(testBase(), placements, opts, 2, "png")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a)
}

func TestExportWebP(t *testing.T) {
	c := newTestComposer(t, staticSource{})
	data, err := c.Export(testBase(), nil, Options{Width: 120, Height: 140}, 1, "webp")
	require.NoError(t, err)
	// Cabecera RIFF de webp.
	require.Greater(t, len(data), 12)
	assert.Equal(t, "RIFF", string(data[:4]))
}

func TestRenderTextChangesPixels(t *testing.T) {
	c := newTestComposer(t, staticSource{})
	opts := Options{Width: 300, Height: 350, Mode: ModeFull}

	empty := c.Render(testBase(), nil, opts)
	withText := c.Render(testBase(), []design.ResolvedPlacement{textPlacement("HOLA")}, opts)
	assert.NotEqual(t, empty.Pix, withText.Pix)
}

func TestRenderMissingImageIsSilent(t *testing.T) {
	// Imagen no cargada: el estampado se dibuja sin imagen y el raster
	// queda igual al de base sola.
	c := newTestComposer(t, staticSource{})
	opts := Options{Width: 300, Height: 350}

	onlyBase := c.Render(testBase(), nil, opts)
	missing := c.Render(testBase(), []design.ResolvedPlacement{
		{Area: design.AreaFront, DesignType: design.DesignTypeImage, DesignImageURL: "http://x/nunca-cargo.png"},
	}, opts)
	assert.Equal(t, onlyBase.Pix, missing.Pix)
}

func TestRenderLongWordStaysInsideRect(t *testing.T) {
	// Una palabra imposible de envolver se recorta con elipsis en vez de
	// desbordar el rectángulo del estampado.
	c := newTestComposer(t, staticSource{})
	table := design.DefaultGeometryTable()
	rect, ok := table.Resolve(design.AreaFront, design.VerticalCenter, design.WidthNarrow, 300, 350)
	require.True(t, ok)

	p := design.ResolvedPlacement{
		Area:         design.AreaFront,
		DesignType:   design.DesignTypeText,
		DesignText:   "Supercalifragilisticoespialidoso",
		DesignColor:  "#ff0000",
		TextBoxWidth: design.WidthNarrow,
	}
	img := c.Render(testBase(), []design.ResolvedPlacement{p}, Options{Width: 300, Height: 350, Mode: ModeFull})

	isRed := func(x, y int) bool {
		r, g, b, _ := img.At(x, y).RGBA()
		return r>>8 > 0x80 && g>>8 < 0x40 && b>>8 < 0x40
	}

	// Margen chico por el antialiasing de los bordes de glifo.
	const pad = 3
	inside, outside := 0, 0
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if !isRed(x, y) {
				continue
			}
			if x < rect.X-pad || x >= rect.X+rect.Width+pad {
				outside++
			} else {
				inside++
			}
		}
	}
	assert.Zero(t, outside, "píxeles de texto fuera del rect")
	assert.Greater(t, inside, 0, "el texto recortado igual se dibuja")
}

func TestRenderGuideDrawsOutline(t *testing.T) {
	c := newTestComposer(t, staticSource{})
	opts := Options{Width: 300, Height: 350, Active: -1}
	placements := []design.ResolvedPlacement{textPlacement("Guía")}

	plain := c.Render(testBase(), placements, opts)
	opts.Guide = true
	guided := c.Render(testBase(), placements, opts)
	assert.NotEqual(t, plain.Pix, guided.Pix)

	// El estampado activo se dibuja distinto al resto.
	opts.Active = 0
	active := c.Render(testBase(), placements, opts)
	assert.NotEqual(t, guided.Pix, active.Pix)
}

func TestRenderGuideLabelsEmptySlot(t *testing.T) {
	c := newTestComposer(t, staticSource{})
	opts := Options{Width: 300, Height: 350, Guide: true, Active: -1}

	emptySlot := []design.ResolvedPlacement{{
		Area:       design.AreaFront,
		DesignType: design.DesignTypeText,
	}}
	noPlacements := c.Render(testBase(), nil, opts)
	labeled := c.Render(testBase(), emptySlot, opts)
	assert.NotEqual(t, noPlacements.Pix, labeled.Pix)
}

func TestRenderSkipsUnmappedArea(t *testing.T) {
	c := newTestComposer(t, staticSource{})
	opts := Options{Width: 300, Height: 350}

	base := c.Render(testBase(), nil, opts)
	skipped := c.Render(testBase(), []design.ResolvedPlacement{{
		Area:       design.Area("sleeve"),
		DesignType: design.DesignTypeText,
		DesignText: "nunca se dibuja",
	}}, opts)
	assert.Equal(t, base.Pix, skipped.Pix)
}

func TestParseHexColor(t *testing.T) {
	fallback := color.NRGBA{A: 0xFF}

	assert.Equal(t, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, ParseHexColor("#ffffff", fallback))
	assert.Equal(t, color.NRGBA{R: 0xAA, G: 0xBB, B: 0xCC, A: 0xFF}, ParseHexColor("#abc", fallback))
	assert.Equal(t, color.NRGBA{B: 0x80, A: 0xFF}, ParseHexColor("navy", fallback))
	assert.Equal(t, fallback, ParseHexColor("no-es-color", fallback))
	assert.Equal(t, fallback, ParseHexColor("#zzzzzz", fallback))
}

func TestWrapTextAndEllipsis(t *testing.T) {
	fonts, err := NewFontLibrary()
	require.NoError(t, err)
	face := fonts.Face("", 14)
	require.NotNil(t, face)

	lines := wrapText(face, "una remera con mucho texto para envolver", 80)
	assert.Greater(t, len(lines), 1)

	truncated := truncateEllipsis(face, "palabrademasiadolarga", 40)
	assert.NotEqual(t, "palabrademasiadolarga", truncated)
	assert.Contains(t, truncated, "…")
}

func TestFlatGarmentUsesColor(t *testing.T) {
	img := FlatGarment(GarmentRGBA("navy"), 100, 120)
	bounds := img.Bounds()
	assert.Equal(t, 100, bounds.Dx())
	assert.Equal(t, 120, bounds.Dy())

	// El centro lleva el color de la prenda.
	r, g, b, _ := img.At(50, 60).RGBA()
	want := GarmentRGBA("navy")
	assert.Equal(t, uint32(want.R), r>>8)
	assert.Equal(t, uint32(want.G), g>>8)
	assert.Equal(t, uint32(want.B), b>>8)
}

func TestGarmentResolverURLs(t *testing.T) {
	g := NewGarmentResolver("https://cdn.example.com/assets")
	assert.Equal(t,
		"https://cdn.example.com/assets/garments/tee_black_front.png",
		g.ImageURL("Black", design.AreaFront))
	assert.Equal(t,
		"https://cdn.example.com/assets/garments/tee_heather_gray_back.png",
		g.ImageURL("Heather Gray", design.AreaBack))

	// Sin base URL no hay imágenes que cargar.
	assert.Empty(t, NewGarmentResolver("").ImageURL("black", design.AreaFront))
}
