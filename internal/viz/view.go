package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/san-kum/vortgen/internal/field"
)

const (
	viewWidth   = 72
	viewHeight  = 24
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"

	ramp = " .:-=+*#%@"
)

// FieldView plays a sequence of 2D fields as ASCII frames in the terminal.
type FieldView struct {
	frameRate int
}

func NewFieldView(frameRate int) *FieldView {
	if frameRate < 1 {
		frameRate = 10
	}
	return &FieldView{frameRate: frameRate}
}

// Play renders each field in turn, annotated with its time stamp. Scaling is
// per-sequence so frames are comparable.
func (v *FieldView) Play(fields []field.Field, times []float64) {
	if len(fields) == 0 {
		return
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, f := range fields {
		for _, x := range f.Data {
			lo = math.Min(lo, x)
			hi = math.Max(hi, x)
		}
	}

	fmt.Print(hideCursor)
	defer fmt.Print(showCursor)

	delay := time.Second / time.Duration(v.frameRate)
	for i, f := range fields {
		var b strings.Builder
		b.WriteString(clearScreen)
		t := 0.0
		if i < len(times) {
			t = times[i]
		}
		b.WriteString(fmt.Sprintf("  vorticity  frame %d/%d  t=%.4f\n", i+1, len(fields), t))
		b.WriteString("  " + strings.Repeat("-", viewWidth) + "\n")
		b.WriteString(Render(f, viewWidth, viewHeight, lo, hi))
		b.WriteString("  " + strings.Repeat("-", viewWidth) + "\n")
		fmt.Print(b.String())
		time.Sleep(delay)
	}
}

// Render draws a 2D field into a w×h character block using a density ramp,
// mapping values linearly from [lo,hi].
func Render(f field.Field, w, h int, lo, hi float64) string {
	if !f.Square2D() {
		return ""
	}
	n := f.Shape[0]
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for y := 0; y < h; y++ {
		b.WriteString("  ")
		i := y * n / h
		for x := 0; x < w; x++ {
			j := x * n / w
			v := (f.At2(i, j) - lo) / span
			idx := int(v * float64(len(ramp)-1))
			if idx < 0 {
				idx = 0
			}
			if idx >= len(ramp) {
				idx = len(ramp) - 1
			}
			b.WriteByte(ramp[idx])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
