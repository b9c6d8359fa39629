package chart

import "math"

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// LinearScale maps a continuous domain onto a continuous range.
// A zero-width domain maps every value to the middle of the range.
type LinearScale struct {
	D0, D1 float64
	R0, R1 float64
}

func NewLinearScale(d0, d1, r0, r1 float64) LinearScale {
	return LinearScale{D0: d0, D1: d1, R0: r0, R1: r1}
}

func (s LinearScale) Map(v float64) float64 {
	if s.D1 == s.D0 {
		return (s.R0 + s.R1) / 2
	}
	return s.R0 + (v-s.D0)/(s.D1-s.D0)*(s.R1-s.R0)
}

// Nice widens the domain outward to round tick values. It iterates until the
// tick step is stable, at most ten times.
func (s LinearScale) Nice(count int) LinearScale {
	start, stop := s.D0, s.D1
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}
	if start == stop || math.IsInf(start, 0) || math.IsInf(stop, 0) || math.IsNaN(start) || math.IsNaN(stop) {
		return s
	}

	var prev float64
loop:
	for i := 0; i < 10; i++ {
		step := tickIncrement(start, stop, count)
		if step == prev {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			break loop
		}
		prev = step
	}

	if reversed {
		start, stop = stop, start
	}
	s.D0, s.D1 = start, stop
	return s
}

// Ticks returns about count round values spanning the domain.
func (s LinearScale) Ticks(count int) []float64 {
	start, stop := s.D0, s.D1
	if start == stop {
		return []float64{start}
	}
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}

	step := tickIncrement(start, stop, count)
	if step == 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		return nil
	}

	var ticks []float64
	if step > 0 {
		lo, hi := math.Ceil(start/step), math.Floor(stop/step)
		for k := lo; k <= hi; k++ {
			ticks = append(ticks, k*step)
		}
	} else {
		inv := -step
		lo, hi := math.Ceil(start*inv), math.Floor(stop*inv)
		for k := lo; k <= hi; k++ {
			ticks = append(ticks, k/inv)
		}
	}

	if reversed {
		for i, j := 0, len(ticks)-1; i < j; i, j = i+1, j-1 {
			ticks[i], ticks[j] = ticks[j], ticks[i]
		}
	}
	return ticks
}

// tickIncrement returns the step between round ticks over [start, stop]: a
// positive power-of-ten multiple of 1, 2, 5 or 10, or for steps below one,
// the negated reciprocal so that ticks stay exact in floating point.
func tickIncrement(start, stop float64, count int) float64 {
	if count < 1 {
		count = 1
	}
	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)

	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}

	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}
