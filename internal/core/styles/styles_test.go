package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeNames_Sorted(t *testing.T) {
	names := ThemeNames()
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, DefaultTheme)
}

func TestSetTheme_RebuildsColors(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	p, ok := GetPalette("gruvbox")
	require.True(t, ok)

	SetTheme(p)
	assert.Equal(t, p.Error, ColorError)
	assert.Equal(t, p.Success, ColorForType("assignment_graded"))
	assert.Equal(t, p.Primary, ColorForType("something-new"))

	_, ok = GetPalette("nope")
	assert.False(t, ok)
}

func TestIconForType(t *testing.T) {
	assert.Equal(t, IconWarning, IconForType("warning"))
	assert.Equal(t, IconInfo, IconForType("unknown"))
}

func TestSetTheme_BadgeFallsBackToError(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	p := themes["onedark"]
	SetTheme(p)
	assert.Equal(t, p.Badge, ColorBadge)

	p.Badge = nil
	SetTheme(p)
	assert.Equal(t, p.Error, ColorBadge)
}

func TestThemes_complete(t *testing.T) {
	for name, p := range themes {
		for _, c := range []any{p.Primary, p.Foreground, p.Background, p.Error, p.Badge} {
			assert.NotNil(t, c, name)
		}
	}
}
