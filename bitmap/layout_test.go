package bitmap

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewLayout_Validation(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (Layout, error)
		wantErr bool
	}{
		{"argb_ok", func() (Layout, error) { return NewARGB(3, 2, 1, 0) }, false},
		{"argb_offset_too_big", func() (Layout, error) { return NewARGB(4, 2, 1, 0) }, true},
		{"argb_negative", func() (Layout, error) { return NewARGB(0, -1, 1, 2) }, true},
		{"rgb_ok", func() (Layout, error) { return NewRGB(2, 1, 0) }, false},
		{"rgb_offset_too_big", func() (Layout, error) { return NewRGB(0, 1, 3) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := tt.build()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLayout) {
					t.Fatalf("err = %v, want ErrInvalidLayout", err)
				}
				if l.Size() != 0 {
					t.Errorf("invalid layout returned size %d", l.Size())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestMustARGB_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustARGB(9, 0, 0, 0) did not panic")
		}
	}()
	MustARGB(9, 0, 0, 0)
}

func TestRGB_AlphaAliasesRed(t *testing.T) {
	data := []byte{0x11, 0x22, 0x33}
	px := New(data, 1, 1, RGB24).Pixel(0, 0)

	if px.A() != px.R() {
		t.Fatal("alpha accessor does not alias red for RGB layout")
	}
	*px.A() = 0x99
	if data[0] != 0x99 {
		t.Errorf("write through alpha landed at %v, want red byte", data)
	}
}

func TestRGB_PackedIsOpaque(t *testing.T) {
	data := []byte{0x11, 0x22, 0x33}
	px := New(data, 1, 1, RGB24).Pixel(0, 0)

	if got := px.ARGB(); got != 0xFF112233 {
		t.Fatalf("ARGB() = %#08x, want 0xff112233", got)
	}
	px.SetARGB(0x00445566)
	if diff := cmp.Diff([]byte{0x44, 0x55, 0x66}, data); diff != "" {
		t.Errorf("buffer mismatch (-want +got):\n%s", diff)
	}
	if got := px.ARGB(); got != 0xFF445566 {
		t.Errorf("ARGB() after SetARGB = %#08x, want 0xff445566", got)
	}
}

func TestPacked_RoundTrip(t *testing.T) {
	layouts := map[string]Layout{
		"RGB24":  RGB24,
		"BGR24":  BGR24,
		"ARGB32": ARGB32,
		"BGRA32": BGRA32,
		"RGBA32": RGBA32,
		"custom": MustARGB(2, 0, 3, 1),
	}
	for name, l := range layouts {
		t.Run(name, func(t *testing.T) {
			px := New(make([]byte, l.Size()), 1, 1, l).Pixel(0, 0)
			for v := uint64(0); v <= 0xFFFFFFFF; v += 0x01010101 - 0x00020305 {
				want := uint32(v)
				if !l.HasAlpha() {
					want |= 0xFF000000
				}
				px.SetARGB(want)
				if got := px.ARGB(); got != want {
					t.Fatalf("round trip %#08x: got %#08x", want, got)
				}
			}
		})
	}
}

func TestPacked_LayoutIndependence(t *testing.T) {
	const v = 0xA1B2C3D4
	tests := []struct {
		layout Layout
		want   []byte
	}{
		{ARGB32, []byte{0xA1, 0xB2, 0xC3, 0xD4}},
		{BGRA32, []byte{0xD4, 0xC3, 0xB2, 0xA1}},
		{RGBA32, []byte{0xB2, 0xC3, 0xD4, 0xA1}},
	}
	for _, tt := range tests {
		t.Run(tt.layout.String(), func(t *testing.T) {
			data := make([]byte, 4)
			px := New(data, 1, 1, tt.layout).Pixel(0, 0)
			*px.A(), *px.R(), *px.G(), *px.B() = 0xA1, 0xB2, 0xC3, 0xD4

			if diff := cmp.Diff(tt.want, data); diff != "" {
				t.Errorf("raw bytes (-want +got):\n%s", diff)
			}
			if got := px.ARGB(); got != v {
				t.Errorf("ARGB() = %#08x, want %#08x", got, uint32(v))
			}
		})
	}
}

func TestBGRA32_ReadsBytesReversed(t *testing.T) {
	data := []byte{0xff, 0x88, 0x44, 0x22}
	px := New(data, 1, 1, BGRA32).Pixel(0, 0)
	if got := px.ARGB(); got != 0x224488FF {
		t.Errorf("ARGB() = %#08x, want 0x224488ff", got)
	}
}

func TestChannel_String(t *testing.T) {
	got := []string{Alpha.String(), Red.String(), Green.String(), Blue.String(), Channel(7).String()}
	want := []string{"alpha", "red", "green", "blue", "Channel(7)"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
}
