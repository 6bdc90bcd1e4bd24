package diff

import (
	"errors"
	"testing"

	"framediff/frame"
	"framediff/smooth"

	"github.com/google/go-cmp/cmp"
)

func argbFrame(index int, pixels ...uint32) *frame.Frame {
	data := make([]byte, 0, 4*len(pixels))
	for _, p := range pixels {
		data = append(data, byte(p>>24), byte(p>>16), byte(p>>8), byte(p))
	}
	return &frame.Frame{Data: data, Width: len(pixels), Height: 1, Format: frame.ARGB32, Index: index}
}

func TestProcess_FirstFrameUntouched(t *testing.T) {
	p := &processor{gain: 1, invert: true}
	cur := argbFrame(0, 0xFF102030, 0xFF405060)
	want := append([]byte(nil), cur.Data...)

	st, err := p.process(nil, cur)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if st.diffed {
		t.Error("first frame reported as diffed")
	}
	if diff := cmp.Diff(want, cur.Data); diff != "" {
		t.Errorf("first frame modified (-want +got):\n%s", diff)
	}
}

func TestProcess_Diff(t *testing.T) {
	p := &processor{gain: 1, motion: smooth.New(0.5)}
	prev := argbFrame(0, 0xFF102030, 0xFF000000)
	cur := argbFrame(1, 0xFF503010, 0xFF030303)
	prevData := append([]byte(nil), prev.Data...)

	st, err := p.process(prev, cur)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	want := argbFrame(1, 0xFF401020, 0xFF030303).Data
	if diff := cmp.Diff(want, cur.Data); diff != "" {
		t.Errorf("difference (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(prevData, prev.Data); diff != "" {
		t.Errorf("previous frame modified (-want +got):\n%s", diff)
	}
	// AverageRGB: (0x40+0x10+0x20)/3 = 37, (3+3+3)/3 = 3.
	if st.mean != 20 || st.smoothed != 20 {
		t.Errorf("mean, smoothed = %v, %v; want 20, 20", st.mean, st.smoothed)
	}
}

func TestProcess_Gain(t *testing.T) {
	p := &processor{gain: 3}
	prev := argbFrame(0, 0xFF000000)
	cur := argbFrame(1, 0xFF106001)

	if _, err := p.process(prev, cur); err != nil {
		t.Fatalf("process: %v", err)
	}
	// 0x60*3 = 0x120 wraps to 0x20.
	want := argbFrame(1, 0xFF302003).Data
	if diff := cmp.Diff(want, cur.Data); diff != "" {
		t.Errorf("scaled difference (-want +got):\n%s", diff)
	}
}

func TestProcess_Invert(t *testing.T) {
	tests := []struct {
		name        string
		invert      bool
		invertStill bool
		cur         uint32
		want        uint32
	}{
		{"plain", false, false, 0xFF000000, 0xFF000000},
		{"invert", true, false, 0xFF010203, 0xFFFEFDFC},
		{"still inverted", false, true, 0xFF000000, 0xFFFFFFFF},
		{"moving not inverted", false, true, 0xFF030303, 0xFF030303},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := &processor{gain: 1, invert: tc.invert, invertStill: tc.invertStill}
			cur := argbFrame(1, tc.cur)
			if _, err := p.process(argbFrame(0, 0xFF000000), cur); err != nil {
				t.Fatalf("process: %v", err)
			}
			if diff := cmp.Diff(argbFrame(1, tc.want).Data, cur.Data); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestProcess_ShapeMismatch(t *testing.T) {
	p := &processor{gain: 1}
	cur := argbFrame(1, 0xFF010101, 0xFF020202)
	want := append([]byte(nil), cur.Data...)

	_, err := p.process(argbFrame(0, 0xFF000000), cur)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("process = %v, want ErrShapeMismatch", err)
	}
	if diff := cmp.Diff(want, cur.Data); diff != "" {
		t.Errorf("frame modified on mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_Perceptual(t *testing.T) {
	p := &processor{gain: 1, perceptual: true}
	st, err := p.process(argbFrame(0, 0xFF808080), argbFrame(1, 0xFF808080))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if st.perceptual != 0 {
		t.Errorf("perceptual distance of equal frames = %v, want 0", st.perceptual)
	}

	st, err = p.process(argbFrame(0, 0xFF000000), argbFrame(1, 0xFFFFFFFF))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if st.perceptual < 0.5 {
		t.Errorf("perceptual distance black to white = %v, want >= 0.5", st.perceptual)
	}
}
