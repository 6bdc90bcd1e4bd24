package bitmap

// Pixel is a view of one pixel unit inside a Bitmap's buffer. Writes
// through it land directly in that buffer. A Pixel must not be kept past
// the lifetime of the Bitmap it came from.
type Pixel struct {
	p      []byte
	layout Layout
}

// Channel returns the byte holding c. For RGB layouts Alpha returns the
// red byte.
func (px Pixel) Channel(c Channel) *uint8 { return &px.p[px.layout.offsets[c]] }

func (px Pixel) A() *uint8 { return px.Channel(Alpha) }
func (px Pixel) R() *uint8 { return px.Channel(Red) }
func (px Pixel) G() *uint8 { return px.Channel(Green) }
func (px Pixel) B() *uint8 { return px.Channel(Blue) }

// ARGB returns the pixel packed as 0xAARRGGBB regardless of the byte
// order in memory.
func (px Pixel) ARGB() uint32 { return px.layout.packed(px.p) }

// SetARGB stores a 0xAARRGGBB value. Layouts without alpha drop the top
// byte.
func (px Pixel) SetARGB(argb uint32) { px.layout.setPacked(px.p, argb) }

func (px Pixel) Layout() Layout { return px.layout }
