package diff

import (
	"errors"
	"fmt"

	"framediff/bitmap"
	"framediff/frame"
	"framediff/smooth"

	"github.com/lucasb-eyer/go-colorful"
)

var ErrShapeMismatch = errors.New("frame size changed")

type processor struct {
	gain        float64
	invert      bool
	invertStill bool
	perceptual  bool
	motion      *smooth.Integrator[float64]
}

type frameStats struct {
	diffed bool
	// mean is the average RGB level of the difference picture.
	mean     float64
	smoothed float64
	// perceptual is the mean CIEDE2000 distance between the two frames.
	perceptual float64
}

// process overwrites cur with its difference from prev. With no previous
// frame cur is left as it is.
func (p *processor) process(prev, cur *frame.Frame) (frameStats, error) {
	var st frameStats

	curBmp, err := cur.Bitmap()
	if err != nil {
		return st, fmt.Errorf("could not view frame %d: %w", cur.Index, err)
	}
	if prev == nil {
		return st, nil
	}
	prevBmp, err := prev.Bitmap()
	if err != nil {
		return st, fmt.Errorf("could not view frame %d: %w", prev.Index, err)
	}

	if p.perceptual {
		if st.perceptual, err = perceptualDistance(prevBmp, curBmp); err != nil {
			return st, err
		}
	}

	var ok bool
	if p.gain == 1 {
		ok = bitmap.Diff(prevBmp, curBmp)
	} else {
		ok = bitmap.DiffScaled(prevBmp, curBmp, p.gain)
	}
	if !ok {
		return st, fmt.Errorf("%w: %dx%d after %dx%d", ErrShapeMismatch,
			curBmp.Width(), curBmp.Height(), prevBmp.Width(), prevBmp.Height())
	}
	st.diffed = true

	st.mean = bitmap.MeanRGB(curBmp)
	if p.motion != nil {
		st.smoothed = p.motion.Next(st.mean)
	}
	if p.invert || (p.invertStill && st.mean == 0) {
		bitmap.Map(curBmp, bitmap.InvertRGB)
	}
	return st, nil
}

// perceptualDistance averages the CIEDE2000 distance of every pixel pair.
// It only reads both bitmaps.
func perceptualDistance(prev, cur *bitmap.Bitmap) (float64, error) {
	n := prev.Len()
	if n == 0 {
		return 0, nil
	}
	var total float64
	ok := prev.CloneBy(cur, func(dst, src bitmap.Pixel) {
		total += toColorful(dst).DistanceCIEDE2000(toColorful(src))
	})
	if !ok {
		return 0, fmt.Errorf("%w: %dx%d after %dx%d", ErrShapeMismatch,
			cur.Width(), cur.Height(), prev.Width(), prev.Height())
	}
	return total / float64(n), nil
}

func toColorful(px bitmap.Pixel) colorful.Color {
	return colorful.Color{
		R: float64(*px.R()) / 255.0,
		G: float64(*px.G()) / 255.0,
		B: float64(*px.B()) / 255.0,
	}
}
