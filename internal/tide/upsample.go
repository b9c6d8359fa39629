package tide

import (
	"math"

	"github.com/bbernstein/tidetracker/internal/models"
)

// DefaultStepMinutes is the sample spacing used when none (or a useless one) is given.
const DefaultStepMinutes = 10.0

const millisPerMinute = 60 * 1000

// Upsample reconstructs a dense curve from sorted extremes.
//
// Between each pair a and b with b.T > a.T, samples are taken every step
// starting at a.T and strictly before b.T, shaped by a half cosine so that the
// curve is flat at both extremes. The last extreme is appended exactly. Pairs
// whose times do not increase contribute nothing. Input is not re-sorted.
func Upsample(extremes []models.Extreme, stepMinutes float64) []models.SamplePoint {
	if len(extremes) < 2 {
		out := make([]models.SamplePoint, len(extremes))
		for i, e := range extremes {
			out[i] = e.Point()
		}
		return out
	}

	step := stepMillis(stepMinutes)
	out := make([]models.SamplePoint, 0, estimateSamples(extremes, step))

	for i := 0; i < len(extremes)-1; i++ {
		a, b := extremes[i], extremes[i+1]
		if b.T <= a.T {
			continue
		}
		span := float64(b.T - a.T)
		mid := (a.H + b.H) / 2
		amp := (a.H - b.H) / 2
		for t := a.T; t < b.T; t += step {
			x := float64(t-a.T) / span
			out = append(out, models.SamplePoint{T: t, H: mid + amp*math.Cos(math.Pi*x)})
		}
	}

	return append(out, extremes[len(extremes)-1].Point())
}

func stepMillis(stepMinutes float64) models.LocalTime {
	ms := stepMinutes * millisPerMinute
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms < 1 {
		ms = DefaultStepMinutes * millisPerMinute
	}
	return models.LocalTime(ms)
}

func estimateSamples(extremes []models.Extreme, step models.LocalTime) int {
	span := extremes[len(extremes)-1].T - extremes[0].T
	if span <= 0 {
		return len(extremes)
	}
	return int(span/step) + len(extremes)
}
