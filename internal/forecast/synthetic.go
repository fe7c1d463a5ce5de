package forecast

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/paintflow/inventory-engine/internal/clock"
	"github.com/paintflow/inventory-engine/internal/domain"
)

const (
	historyDays     = 90
	seasonPeriod    = 30.0
	seasonAmplitude = 0.3
	forecastLift    = 1.1
	historySigma    = 0.15
	forecastSigma   = 0.2
)

type spread struct {
	lower float64
	upper float64
}

var (
	historySpread  = spread{lower: 0.7, upper: 1.3}
	forecastSpread = spread{lower: 0.6, upper: 1.4}
)

// Synthesize generates the deterministic fallback series for a key. The same
// inputs always produce the same points.
func Synthesize(itemID, locationID int64, today time.Time, horizonDays int, festival FestivalWindow) domain.ForecastSeries {
	seed := uint64(itemID*100 + locationID)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	base := 20 + rng.Float64()*40

	historical := make([]domain.ForecastPoint, 0, historyDays)
	for i := 0; i < historyDays; i++ {
		d := today.AddDate(0, 0, i-historyDays)
		v := base*seasonal(i) + rng.NormFloat64()*base*historySigma
		historical = append(historical, point(d, v, historySpread))
	}

	if horizonDays < 0 {
		horizonDays = 0
	}
	forecast := make([]domain.ForecastPoint, 0, horizonDays)
	for i := 0; i < horizonDays; i++ {
		d := today.AddDate(0, 0, i+1)
		v := base*seasonal(historyDays+i)*forecastLift + rng.NormFloat64()*base*forecastSigma
		if festival.Contains(d) {
			v *= festival.Multiplier
		}
		forecast = append(forecast, point(d, v, forecastSpread))
	}

	return domain.ForecastSeries{Historical: historical, Forecast: forecast}
}

func seasonal(t int) float64 {
	return 1 + seasonAmplitude*math.Sin(2*math.Pi*float64(t)/seasonPeriod)
}

func point(d time.Time, v float64, s spread) domain.ForecastPoint {
	v = math.Max(0, v)
	return domain.ForecastPoint{
		Date:       clock.FormatDate(d),
		Predicted:  round1(v),
		LowerBound: round1(v * s.lower),
		UpperBound: round1(v * s.upper),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
