package sinks

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/sohonetlabs/dvbcss-synctiming/internal/errors"
)

// FrameWriter persists per-frame flash states as numbered PNG files.
type FrameWriter struct {
	// Pattern is a printf-style filename pattern with one integer verb,
	// e.g. "build/img_%06d.png".
	Pattern string
	Width   int
	Height  int

	GapColor   color.RGBA
	FlashColor color.RGBA
}

// DefaultGapColor and DefaultFlashColor match the reference sequences:
// black gaps, full-white flashes.
var (
	DefaultGapColor   = color.RGBA{A: 255}
	DefaultFlashColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// WriteAll writes one PNG per state and returns the number written. Frames
// are numbered from zero in the filename pattern.
func (w FrameWriter) WriteAll(states []bool) (int, error) {
	if err := os.MkdirAll(filepath.Dir(w.Pattern), 0o755); err != nil {
		return 0, errors.WrapSinkError(err, "failed to create frame output directory")
	}

	bounds := image.Rect(0, 0, w.Width, w.Height)
	gap := image.NewRGBA(bounds)
	draw.Draw(gap, bounds, image.NewUniform(w.GapColor), image.Point{}, draw.Src)
	flash := image.NewRGBA(bounds)
	draw.Draw(flash, bounds, image.NewUniform(w.FlashColor), image.Point{}, draw.Src)

	for i, on := range states {
		img := gap
		if on {
			img = flash
		}
		if err := w.writeFrame(i, img); err != nil {
			return i, err
		}
	}
	return len(states), nil
}

func (w FrameWriter) writeFrame(index int, img image.Image) error {
	name := fmt.Sprintf(w.Pattern, index)
	f, err := os.Create(name)
	if err != nil {
		return errors.WrapSinkError(err, fmt.Sprintf("failed to create frame %d", index))
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return errors.WrapSinkError(err, fmt.Sprintf("failed to encode frame %d", index))
	}
	return nil
}
