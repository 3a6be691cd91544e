// Package exact implements adaptive-precision floating-point expansions,
// after Shewchuk's "Adaptive Precision Floating-Point Arithmetic and Fast
// Robust Geometric Predicates". Unlike a template-sized C++ array, an
// Expansion here is a plain non-overlapping, increasing-magnitude []float64;
// the arithmetic operations below preserve that invariant exactly.
package exact

import "math"

// splitter multiplies a value to isolate its high and low mantissa halves
// (Dekker's algorithm), for 53-bit IEEE-754 doubles.
const splitter = 1<<27 + 1

func split(a float64) (lo, hi float64) {
	c := splitter * a
	aa := c - a
	h := c - aa
	return a - h, h
}

// TwoSum returns (lo, hi) such that lo+hi == a+b exactly, with hi the
// round-to-nearest sum and lo the rounding error.
func TwoSum(a, b float64) (lo, hi float64) {
	x := a + b
	bv := x - a
	av := x - bv
	br := b - bv
	ar := a - av
	return ar + br, x
}

// FastTwoSum is TwoSum's cheaper form, valid only when |a| >= |b|.
func FastTwoSum(a, b float64) (lo, hi float64) {
	x := a + b
	bv := x - a
	return b - bv, x
}

// TwoDiff returns (lo, hi) such that lo+hi == a-b exactly.
func TwoDiff(a, b float64) (lo, hi float64) {
	x := a - b
	bv := a - x
	av := x + bv
	br := b - bv
	ar := a - av
	return ar - br, x
}

// TwoProduct returns (lo, hi) such that lo+hi == a*b exactly.
func TwoProduct(a, b float64) (lo, hi float64) {
	x := a * b
	al, ah := split(a)
	bl, bh := split(b)
	err1 := x - ah*bh
	err2 := err1 - al*bh
	err3 := err2 - ah*bl
	return al*bl - err3, x
}

// Expansion is a strictly increasing-magnitude, non-overlapping sequence of
// floats (components may be zero) whose sum equals the represented value.
type Expansion []float64

// Of builds a single-component expansion from a plain value.
func Of(value float64) Expansion {
	return Expansion{value}
}

// Sum collapses the expansion to its nearest double, via naive summation
// (exact expansions make this nearest-correctly-rounded, unlike a summation
// of arbitrary floats).
func (e Expansion) Sum() float64 {
	total := 0.0
	for _, v := range e {
		total += v
	}
	return total
}

// Sign returns the sign of the value the expansion represents: the sign of
// its most significant nonzero component, since components are ordered and
// nonoverlapping.
func (e Expansion) Sign() int {
	for i := len(e) - 1; i >= 0; i-- {
		switch {
		case e[i] > 0:
			return 1
		case e[i] < 0:
			return -1
		}
	}
	return 0
}

// Add implements FAST-EXPANSION-SUM: merge the two expansions by absolute
// value, then run a carry pass of two_sum down the chain.
func (e Expansion) Add(f Expansion) Expansion {
	merged := merge(e, f)
	if len(merged) < 2 {
		return merged
	}
	result := make(Expansion, len(merged))
	lo, hi := FastTwoSum(merged[1], merged[0])
	result[0] = lo
	q := hi
	for i := 1; i < len(merged)-1; i++ {
		lo, hi := TwoSum(merged[i+1], q)
		result[i] = lo
		q = hi
	}
	result[len(merged)-1] = q
	return compact(result)
}

// Sub implements expansion difference via negation plus Add.
func (e Expansion) Sub(f Expansion) Expansion {
	neg := make(Expansion, len(f))
	for i, v := range f {
		neg[i] = -v
	}
	return e.Add(neg)
}

// merge performs the merge step of FAST-EXPANSION-SUM: a stable merge of two
// already-increasing-by-magnitude sequences, by absolute value.
func merge(e, f Expansion) Expansion {
	result := make(Expansion, 0, len(e)+len(f))
	i, j := 0, 0
	for i < len(e) && j < len(f) {
		if math.Abs(e[i]) < math.Abs(f[j]) {
			result = append(result, e[i])
			i++
		} else {
			result = append(result, f[j])
			j++
		}
	}
	result = append(result, e[i:]...)
	result = append(result, f[j:]...)
	return result
}

// compact drops leading zero components (after the carry chain, the lowest
// entries are often exact zeros); an all-zero expansion collapses to {0}.
func compact(e Expansion) Expansion {
	start := 0
	for start < len(e)-1 && e[start] == 0 {
		start++
	}
	return e[start:]
}

// Mul implements expansion multiplication by distributing TwoProduct over
// every component pair and summing the partial two-term expansions; this is
// quadratic in expansion length but expansions here stay small (predicate
// determinants produce at most a few dozen terms).
func (e Expansion) Mul(f Expansion) Expansion {
	result := Expansion{0}
	for _, a := range e {
		for _, b := range f {
			lo, hi := TwoProduct(a, b)
			result = result.Add(Expansion{lo, hi})
		}
	}
	return result
}

// Scale multiplies every term of the expansion by a single scalar value,
// implemented as Mul with a one-term expansion.
func (e Expansion) Scale(b float64) Expansion {
	return e.Mul(Expansion{b})
}
