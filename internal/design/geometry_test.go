package design

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStaysInsideCanvas(t *testing.T) {
	table := DefaultGeometryTable()

	areas := []Area{AreaFront, AreaBack, AreaLeftChest, AreaRightChest}
	verticals := []VerticalPosition{VerticalUpper, VerticalCenter, VerticalLower}
	widths := []TextBoxWidth{WidthNarrow, WidthStandard, WidthWide}
	sizes := [][2]int{{600, 700}, {300, 350}, {1200, 1400}, {100, 120}}

	for _, area := range areas {
		for _, v := range verticals {
			for _, w := range widths {
				for _, size := range sizes {
					name := fmt.Sprintf("%s/%s/%s/%dx%d", area, v, w, size[0], size[1])
					rect, ok := table.Resolve(area, v, w, size[0], size[1])
					require.True(t, ok, name)
					assert.Greater(t, rect.Width, 0, name)
					assert.Greater(t, rect.Height, 0, name)
					assert.GreaterOrEqual(t, rect.X, 0, name)
					assert.GreaterOrEqual(t, rect.Y, 0, name)
					assert.LessOrEqual(t, rect.X+rect.Width, size[0], name)
					assert.LessOrEqual(t, rect.Y+rect.Height, size[1], name)
				}
			}
		}
	}
}

func TestResolveVerticalAnchorsAreExact(t *testing.T) {
	table := DefaultGeometryTable()

	cases := map[VerticalPosition]int{
		VerticalUpper:  220,
		VerticalCenter: 320,
		VerticalLower:  420,
	}
	for v, wantY := range cases {
		rect, ok := table.Resolve(AreaFront, v, WidthStandard, 1000, 1000)
		require.True(t, ok)
		assert.Equal(t, wantY, rect.Y, "posición %s", v)
	}

	// Posición desconocida o vacía cae en center.
	rect, ok := table.Resolve(AreaBack, VerticalPosition("diagonal"), WidthStandard, 1000, 1000)
	require.True(t, ok)
	assert.Equal(t, 320, rect.Y)
}

func TestResolveVerticalIgnoredForChest(t *testing.T) {
	table := DefaultGeometryTable()

	upper, _ := table.Resolve(AreaLeftChest, VerticalUpper, WidthStandard, 1000, 1000)
	lower, _ := table.Resolve(AreaLeftChest, VerticalLower, WidthStandard, 1000, 1000)
	assert.Equal(t, upper, lower)
}

func TestResolveWidthPresetsClamp(t *testing.T) {
	table := DefaultGeometryTable()

	narrow, _ := table.Resolve(AreaFront, VerticalCenter, WidthNarrow, 1000, 1000)
	standard, _ := table.Resolve(AreaFront, VerticalCenter, WidthStandard, 1000, 1000)
	wide, _ := table.Resolve(AreaFront, VerticalCenter, WidthWide, 1000, 1000)

	assert.Equal(t, 224, narrow.Width)   // 28% * 0.80
	assert.Equal(t, 280, standard.Width) // 28% * 1.00
	assert.Equal(t, 406, wide.Width)     // 28% * 1.45, bajo el techo de 42%

	// El resultado clampa siempre a [16, 42] por ciento.
	for _, w := range []TextBoxWidth{WidthNarrow, WidthStandard, WidthWide} {
		rect, _ := table.Resolve(AreaBack, VerticalCenter, w, 1000, 1000)
		assert.GreaterOrEqual(t, rect.Width, 160)
		assert.LessOrEqual(t, rect.Width, 420)
	}
}

func TestResolveCentersFrontRect(t *testing.T) {
	table := DefaultGeometryTable()

	rect, ok := table.Resolve(AreaFront, VerticalCenter, WidthStandard, 1000, 1000)
	require.True(t, ok)
	// Anclado al 50% y centrado: X = 500 - ancho/2.
	assert.Equal(t, 500-rect.Width/2, rect.X)
}

func TestResolveUnknownAreaSkips(t *testing.T) {
	table := DefaultGeometryTable()

	_, ok := table.Resolve(Area("sleeve"), VerticalCenter, WidthStandard, 600, 700)
	assert.False(t, ok)
}

func TestResolveIsDeterministic(t *testing.T) {
	table := DefaultGeometryTable()

	a, _ := table.Resolve(AreaFront, VerticalLower, WidthWide, 640, 800)
	b, _ := table.Resolve(AreaFront, VerticalLower, WidthWide, 640, 800)
	assert.Equal(t, a, b)
}
