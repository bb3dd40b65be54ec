package design

// Área lógica de estampado sobre la prenda.
type Area string

const (
	AreaFront      Area = "front"
	AreaBack       Area = "back"
	AreaLeftChest  Area = "left_chest"
	AreaRightChest Area = "right_chest"
)

// Posición vertical gruesa, solo significativa para front/back.
type VerticalPosition string

const (
	VerticalUpper  VerticalPosition = "upper"
	VerticalCenter VerticalPosition = "center"
	VerticalLower  VerticalPosition = "lower"
)

// Preset de ancho de caja de texto, solo para front/back.
type TextBoxWidth string

const (
	WidthNarrow   TextBoxWidth = "narrow"
	WidthStandard TextBoxWidth = "standard"
	WidthWide     TextBoxWidth = "wide"
)

// BaseRect es un rectángulo en porcentajes del lienzo. Centered indica que
// la X es un ancla y el rectángulo se centra horizontalmente sobre ella.
type BaseRect struct {
	TopPercent    float64
	LeftPercent   float64
	WidthPercent  float64
	HeightPercent float64
	Centered      bool
}

// PixelRect es el rectángulo ya resuelto en píxeles del lienzo destino.
type PixelRect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Anclas verticales en porcentaje del alto del lienzo. Las comparten el
// renderer de lienzo y el generador de previews de producción; tocar estos
// números mueve AMBAS salidas.
var verticalAnchors = map[VerticalPosition]float64{
	VerticalUpper:  22,
	VerticalCenter: 32,
	VerticalLower:  42,
}

// VerticalAnchorPercent devuelve el tope en porcentaje para una posición
// vertical. Posiciones desconocidas o vacías caen en "center".
func VerticalAnchorPercent(v VerticalPosition) float64 {
	if p, ok := verticalAnchors[v]; ok {
		return p
	}
	return verticalAnchors[VerticalCenter]
}

var widthMultipliers = map[TextBoxWidth]float64{
	WidthNarrow:   0.80,
	WidthStandard: 1.00,
	WidthWide:     1.45,
}

// WidthMultiplier devuelve el multiplicador de ancho del preset; presets
// desconocidos equivalen a "standard".
func WidthMultiplier(w TextBoxWidth) float64 {
	if m, ok := widthMultipliers[w]; ok {
		return m
	}
	return widthMultipliers[WidthStandard]
}

// Límites del ancho efectivo (en porcentaje) después de aplicar el preset,
// para que el texto no quede ni gigante ni degenerado.
const (
	minWidthPercent = 16.0
	maxWidthPercent = 42.0
)

// GeometryTable es la tabla inmutable de rectángulos base por área. Se
// construye una vez y se inyecta en los componentes que la consumen.
type GeometryTable struct {
	rects map[string]BaseRect
}

func DefaultGeometryTable() *GeometryTable {
	return &GeometryTable{rects: map[string]BaseRect{
		"front":       {TopPercent: 32, LeftPercent: 50, WidthPercent: 28, HeightPercent: 30, Centered: true},
		"back":        {TopPercent: 32, LeftPercent: 50, WidthPercent: 28, HeightPercent: 30, Centered: true},
		"chest_left":  {TopPercent: 22, LeftPercent: 56, WidthPercent: 14, HeightPercent: 12},
		"chest_right": {TopPercent: 22, LeftPercent: 30, WidthPercent: 14, HeightPercent: 12},
	}}
}

// geometryKey traduce el área lógica a la clave de la tabla.
func geometryKey(a Area) string {
	switch a {
	case AreaFront:
		return "front"
	case AreaBack:
		return "back"
	case AreaLeftChest:
		return "chest_left"
	case AreaRightChest:
		return "chest_right"
	}
	return ""
}

// Resolve calcula el rectángulo efectivo en píxeles para un estampado.
// Devuelve ok=false si el área no está mapeada: eso significa "saltear el
// estampado", no es un error.
//
// El resultado es una función determinística pura de sus argumentos.
func (t *GeometryTable) Resolve(area Area, vertical VerticalPosition, boxWidth TextBoxWidth, canvasW, canvasH int) (PixelRect, bool) {
	base, ok := t.rects[geometryKey(area)]
	if !ok {
		return PixelRect{}, false
	}

	top := base.TopPercent
	width := base.WidthPercent

	// La posición vertical y el preset de ancho solo aplican a front/back.
	if area == AreaFront || area == AreaBack {
		top = VerticalAnchorPercent(vertical)
		width = clampFloat(width*WidthMultiplier(boxWidth), minWidthPercent, maxWidthPercent)
	}

	px := PixelRect{
		X:      int(base.LeftPercent / 100 * float64(canvasW)),
		Y:      int(top / 100 * float64(canvasH)),
		Width:  int(width / 100 * float64(canvasW)),
		Height: int(base.HeightPercent / 100 * float64(canvasH)),
	}
	if px.Width < 1 {
		px.Width = 1
	}
	if px.Height < 1 {
		px.Height = 1
	}
	if base.Centered {
		px.X -= px.Width / 2
	}
	return px, true
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
