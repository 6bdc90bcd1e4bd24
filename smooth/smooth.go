// Package smooth provides exponential smoothing of a stream of samples.
package smooth

type Float interface {
	~float32 | ~float64
}

// Integrator keeps an exponentially weighted running value: each sample x
// moves it to prev*Alpha + (1-Alpha)*x. The first sample is taken as is.
type Integrator[T Float] struct {
	alpha T
	prev  T
	ok    bool
}

// New returns an Integrator that keeps alpha of the previous value on
// every step. alpha is clamped to [0, 1].
func New[T Float](alpha T) *Integrator[T] {
	return &Integrator[T]{alpha: min(max(alpha, 0), 1)}
}

func (i *Integrator[T]) Next(x T) T {
	if !i.ok {
		i.prev, i.ok = x, true
		return x
	}
	i.prev = i.prev*i.alpha + (1-i.alpha)*x
	return i.prev
}

// Value returns the current value and whether any sample was seen.
func (i *Integrator[T]) Value() (T, bool) { return i.prev, i.ok }

func (i *Integrator[T]) Reset() {
	var zero T
	i.prev, i.ok = zero, false
}
