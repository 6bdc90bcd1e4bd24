package bitmap

// Diff overwrites every pixel of cur with its absolute difference from
// prev. prev is left untouched. It reports false, without writing, when
// the bitmaps differ in size or share memory.
func Diff(prev, cur *Bitmap) bool {
	return prev.CloneBy(cur, func(dst, src Pixel) {
		dst.SetARGB(AbsDiff(dst.ARGB(), src.ARGB()))
	})
}

// DiffScaled is Diff with the differences amplified by gain.
func DiffScaled(prev, cur *Bitmap, gain float64) bool {
	return prev.CloneBy(cur, func(dst, src Pixel) {
		dst.SetARGB(AbsDiffScaled(dst.ARGB(), src.ARGB(), gain))
	})
}

// Map replaces every pixel p of b with f(p).
func Map(b *Bitmap, f func(argb uint32) uint32) {
	b.ForEach(func(px Pixel) {
		px.SetARGB(f(px.ARGB()))
	})
}

// MeanRGB returns the mean of AverageRGB over all pixels, or 0 for an
// empty bitmap.
func MeanRGB(b *Bitmap) float64 {
	n := b.Len()
	if n == 0 {
		return 0
	}
	var sum uint64
	for px := range b.All() {
		sum += uint64(AverageRGB(px.ARGB()))
	}
	return float64(sum) / float64(n)
}
