package canvas

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"treeviz/geometry"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		input   string
		want    Color
		wantErr bool
	}{
		{"#2196f3", Color{R: 0x21, G: 0x96, B: 0xf3, A: 1}, false},
		{"#fff", White, false},
		{"#333333", Color{R: 0x33, G: 0x33, B: 0x33, A: 1}, false},
		{"blue", Color{}, true},
		{"#12345", Color{}, true},
	}

	for _, tt := range tests {
		got, err := ParseHex(tt.input)
		if tt.wantErr {
			require.ErrorIs(t, err, ErrBadColor, tt.input)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestColorString(t *testing.T) {
	require.Equal(t, "#4caf50", MustHex("#4caf50").String())
	require.Equal(t, "rgba(255,0,0,0.4)", RGBA(255, 0, 0, 0.4).String())
	require.Equal(t, 0.25, RGBA(1, 2, 3, 0.5).Fade(0.5).A)
	require.Equal(t, 1.0, RGBA(1, 2, 3, 7).A)
	require.True(t, Transparent.IsZero())
}

func TestColorOver(t *testing.T) {
	half := RGBA(0, 0, 255, 0.5)
	got := half.Over(White)
	require.Equal(t, uint8(128), got.R)
	require.Equal(t, uint8(255), got.B)
	require.Equal(t, 1.0, got.A)

	require.Equal(t, White, Transparent.Over(White))
	require.Equal(t, Black, Black.Over(White))
	require.Equal(t, uint8(102), RGBA(0, 0, 0, 0.4).NRGBA().A)
}

func TestImageCanvas(t *testing.T) {
	c, err := NewImageCanvas(120, 80)
	require.NoError(t, err)

	w, h := c.Size()
	require.Equal(t, 120.0, w)
	require.Equal(t, 80.0, h)

	blue := MustHex("#2196f3")
	c.FillCircle(geometry.Vec{X: 60, Y: 40}, 20, Fill{Color: blue, GlowColor: blue, GlowRadius: 6})
	c.StrokeCircle(geometry.Vec{X: 60, Y: 40}, 20, Stroke{Color: Black, Width: 2})
	c.StrokeLine(geometry.Vec{X: 0, Y: 78}, geometry.Vec{X: 120, Y: 78}, Stroke{Color: RGBA(255, 0, 0, 0.4), Width: 1.5, Dash: []float64{5, 3}})
	c.FillRect(geometry.Rect{X: 2, Y: 2, W: 30, H: 20}, 8, Fill{Color: White.Fade(0.95)})
	c.StrokeRect(geometry.Rect{X: 2, Y: 2, W: 30, H: 20}, 8, Stroke{Color: MustHex("#cccccc"), Width: 1})
	c.DrawText(geometry.Vec{X: 60, Y: 70}, "Score: 1", Font{Color: Black, Size: 14, Bold: true, Align: AlignCenter})

	r, g, b, _ := c.Image().At(60, 40).RGBA()
	require.Equal(t, uint32(0x21), r>>8)
	require.Equal(t, uint32(0x96), g>>8)
	require.Equal(t, uint32(0xf3), b>>8)

	var buf bytes.Buffer
	require.NoError(t, c.EncodePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, 120, img.Bounds().Dx())

	_, err = NewImageCanvas(0, 10)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(100, 50)
	r.Clear(White)
	r.StrokeLine(geometry.Vec{}, geometry.Vec{X: 10}, Stroke{Color: Black, Width: 1})
	r.DrawText(geometry.Vec{X: 5}, "hello", Font{})

	require.Len(t, r.Ops, 3)
	require.Len(t, r.Filter(OpLine), 1)
	require.Equal(t, []string{"hello"}, r.Texts())
	require.Contains(t, r.String(), `text (5.0,0.0) "hello"`)

	r.Reset()
	require.Empty(t, r.Ops)
}

func TestFitText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a bit too long", 8, "a bit t…"},
		{"世界世界", 5, "世界…"},
		{"abc", 1, "a"},
		{"abc", 0, ""},
	}

	for _, tt := range tests {
		if got := FitText(tt.text, tt.width, "…"); got != tt.want {
			t.Errorf("FitText(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
	require.Equal(t, "ab  ", PadRight("ab", 4))
	require.Equal(t, 4, MeasureText("世界"))
}
