package solver

import (
	"math"
)

// interiorMargin keeps starting points off the bounds, where the change of
// variables has a zero derivative.
const interiorMargin = 1e-4

// boxTransform maps free coordinates z onto weights x that always satisfy the
// bounds, so the inner solver never needs to see them:
//
//	[lo, hi]:   x = lo + (hi-lo)(sin z + 1)/2
//	[lo, +inf): x = lo - 1 + sqrt(z² + 1)
//	(-inf, hi]: x = hi + 1 - sqrt(z² + 1)
type boxTransform struct {
	bounds []Bound
}

func newBoxTransform(bounds []Bound) boxTransform {
	return boxTransform{bounds: bounds}
}

func (t boxTransform) toWeights(z []float64) []float64 {
	x := make([]float64, len(z))
	for i, v := range z {
		if len(t.bounds) == 0 {
			x[i] = v
			continue
		}
		b := t.bounds[i]
		lo, hi := !math.IsInf(b.Lower, -1), !math.IsInf(b.Upper, 1)
		switch {
		case lo && hi:
			x[i] = b.Lower + (b.Upper-b.Lower)*(math.Sin(v)+1)/2
		case lo:
			x[i] = b.Lower - 1 + math.Sqrt(v*v+1)
		case hi:
			x[i] = b.Upper + 1 - math.Sqrt(v*v+1)
		default:
			x[i] = v
		}
	}
	return x
}

func (t boxTransform) toFree(x []float64) []float64 {
	z := make([]float64, len(x))
	for i, v := range x {
		if len(t.bounds) == 0 {
			z[i] = v
			continue
		}
		b := t.bounds[i]
		lo, hi := !math.IsInf(b.Lower, -1), !math.IsInf(b.Upper, 1)
		switch {
		case lo && hi:
			if b.Upper == b.Lower {
				z[i] = 0
				continue
			}
			width := b.Upper - b.Lower
			v = math.Max(b.Lower+interiorMargin*width, math.Min(b.Upper-interiorMargin*width, v))
			z[i] = math.Asin(2*(v-b.Lower)/width - 1)
		case lo:
			d := math.Max(v-b.Lower, interiorMargin) + 1
			z[i] = math.Sqrt(d*d - 1)
		case hi:
			d := math.Max(b.Upper-v, interiorMargin) + 1
			z[i] = math.Sqrt(d*d - 1)
		default:
			z[i] = v
		}
	}
	return z
}

// center moves every bounded coordinate of x to the middle of its box, or one
// unit inside a one-sided bound. Unbounded coordinates keep their value.
func (t boxTransform) center(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	for i := range t.bounds {
		b := t.bounds[i]
		lo, hi := !math.IsInf(b.Lower, -1), !math.IsInf(b.Upper, 1)
		switch {
		case lo && hi:
			out[i] = b.Lower + (b.Upper-b.Lower)/2
		case lo:
			out[i] = b.Lower + 1
		case hi:
			out[i] = b.Upper - 1
		}
	}
	return out
}

// clamp projects x onto the bounds.
func (t boxTransform) clamp(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	for i := range t.bounds {
		out[i] = math.Max(t.bounds[i].Lower, math.Min(t.bounds[i].Upper, out[i]))
	}
	return out
}
