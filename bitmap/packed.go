package bitmap

import "math"

// ToChannels splits a 0xAARRGGBB value into {a, r, g, b}.
func ToChannels(argb uint32) [4]uint8 {
	return [4]uint8{uint8(argb >> 24), uint8(argb >> 16), uint8(argb >> 8), uint8(argb)}
}

// FromChannels packs {a, r, g, b} into 0xAARRGGBB.
func FromChannels(c [4]uint8) uint32 {
	return uint32(c[0])<<24 | uint32(c[1])<<16 | uint32(c[2])<<8 | uint32(c[3])
}

// AbsDiff returns |p1-p0| per color channel, keeping the alpha of p1.
func AbsDiff(p1, p0 uint32) uint32 {
	c1, c0 := ToChannels(p1), ToChannels(p0)
	for i := 1; i < 4; i++ {
		c1[i] = absDiff8(c1[i], c0[i])
	}
	return FromChannels(c1)
}

// AbsDiffScaled is AbsDiff with every color difference multiplied by m
// and truncated to 8 bits.
func AbsDiffScaled(p1, p0 uint32, m float64) uint32 {
	c1, c0 := ToChannels(p1), ToChannels(p0)
	for i := 1; i < 4; i++ {
		c1[i] = truncate8(float64(absDiff8(c1[i], c0[i])) * m)
	}
	return FromChannels(c1)
}

// Scale multiplies all four channels by m. Products are truncated toward
// zero and keep only their low 8 bits, so 200*1.5 becomes 44.
func Scale(p uint32, m float64) uint32 {
	c := ToChannels(p)
	for i := range c {
		c[i] = truncate8(float64(c[i]) * m)
	}
	return FromChannels(c)
}

// ScaleRGB is Scale with alpha left untouched.
func ScaleRGB(p uint32, m float64) uint32 {
	c := ToChannels(p)
	for i := 1; i < 4; i++ {
		c[i] = truncate8(float64(c[i]) * m)
	}
	return FromChannels(c)
}

func InvertRGB(p uint32) uint32 {
	return p ^ 0x00FFFFFF
}

func DiscardAlpha(p uint32) uint32 {
	return p & 0x00FFFFFF
}

// AverageRGB is the integer mean of the three color channels.
func AverageRGB(p uint32) uint8 {
	c := ToChannels(p)
	return uint8((uint32(c[1]) + uint32(c[2]) + uint32(c[3])) / 3)
}

func absDiff8(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

// truncate8 converts through int64 first: a direct float->uint8
// conversion of an out-of-range value is implementation-defined in Go.
// Negative, infinite and NaN products become 0.
func truncate8(v float64) uint8 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v >= 1<<63 {
		v = math.Mod(v, 256)
	}
	return uint8(int64(v))
}
