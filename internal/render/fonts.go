package render

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontLibrary resuelve el nombre de fuente elegido por el cliente a una
// face dibujable. Los nombres del storefront se aproximan con las fuentes
// Go empaquetadas; cualquier nombre desconocido cae en la regular.
type FontLibrary struct {
	regular *opentype.Font
	byName  map[string]*opentype.Font

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	name string
	size int
}

func NewFontLibrary() (*FontLibrary, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parseando fuente regular: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parseando fuente bold: %w", err)
	}
	italic, err := opentype.Parse(goitalic.TTF)
	if err != nil {
		return nil, fmt.Errorf("parseando fuente italic: %w", err)
	}

	return &FontLibrary{
		regular: regular,
		byName: map[string]*opentype.Font{
			"arial":           regular,
			"helvetica":       regular,
			"verdana":         regular,
			"impact":          bold,
			"oswald":          bold,
			"montserrat":      bold,
			"georgia":         italic,
			"times new roman": italic,
		},
		faces: make(map[faceKey]font.Face),
	}, nil
}

// Face devuelve una face cacheada para (nombre, tamaño en px).
func (l *FontLibrary) Face(name string, sizePx float64) font.Face {
	f, ok := l.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		f = l.regular
	}
	size := int(math.Round(sizePx))
	if size < 6 {
		size = 6
	}

	key := faceKey{name: strings.ToLower(name), size: size}
	l.mu.Lock()
	defer l.mu.Unlock()
	if face, ok := l.faces[key]; ok {
		return face
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// No debería pasar con las fuentes empaquetadas; se reintenta con
		// la regular en tamaño fijo antes de rendirse.
		face, err = opentype.NewFace(l.regular, &opentype.FaceOptions{Size: 12, DPI: 72})
		if err != nil {
			return nil
		}
	}
	l.faces[key] = face
	return face
}
