package forecast

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/paintflow/inventory-engine/internal/clock"
	"github.com/paintflow/inventory-engine/internal/domain"
	"github.com/paintflow/inventory-engine/internal/metrics"
)

// Series sources reported alongside a forecast.
const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// Provider returns demand series, delegating to a trained model when one is
// published for the key and synthesizing otherwise.
type Provider struct {
	clock    clock.Clock
	models   *ModelStore
	festival FestivalWindow
	metrics  *metrics.Metrics
}

type Option func(*Provider)

func WithFestivalWindow(w FestivalWindow) Option {
	return func(p *Provider) { p.festival = w }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Provider) { p.metrics = m }
}

func NewProvider(clk clock.Clock, models *ModelStore, opts ...Option) *Provider {
	if models == nil {
		models = NewModelStore(nil)
	}
	p := &Provider{
		clock:    clk,
		models:   models,
		festival: DefaultFestivalWindow(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Forecast never fails: model errors are logged and the fallback is used.
func (p *Provider) Forecast(ctx context.Context, itemID, locationID int64, horizonDays int) domain.ForecastSeries {
	series, _ := p.ForecastWithSource(ctx, itemID, locationID, horizonDays)
	return series
}

// ForecastWithSource is Forecast plus the name of the source that produced it.
func (p *Provider) ForecastWithSource(ctx context.Context, itemID, locationID int64, horizonDays int) (domain.ForecastSeries, string) {
	today := clock.Today(p.clock)
	key := ModelKey(itemID, locationID)

	model, ok := p.models.Get(key)
	if !ok {
		p.metrics.ObserveForecast(metrics.SourceFallback)
		return Synthesize(itemID, locationID, today, horizonDays, p.festival), SourceFallback
	}

	series, err := fromModel(ctx, model, today, horizonDays)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("forecast model failed, using fallback")
		p.metrics.ObserveForecast(metrics.SourceModelError)
		return Synthesize(itemID, locationID, today, horizonDays, p.festival), SourceFallback
	}

	p.metrics.ObserveForecast(metrics.SourceModel)
	return series, SourceModel
}

// Today is the reference date splitting history from forecast.
func (p *Provider) Today() time.Time {
	return clock.Today(p.clock)
}

func (p *Provider) Models() *ModelStore {
	return p.models
}

func (p *Provider) Festival() FestivalWindow {
	return p.festival
}

func fromModel(ctx context.Context, model Model, today time.Time, horizonDays int) (series domain.ForecastSeries, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{value: r}
		}
	}()

	if horizonDays < 0 {
		horizonDays = 0
	}

	curve, err := model.Predict(ctx, today.AddDate(0, 0, horizonDays))
	if err != nil {
		return domain.ForecastSeries{}, err
	}

	for _, cp := range curve {
		yhat := math.Max(0, round1(cp.Yhat))
		pt := domain.ForecastPoint{
			Date:       clock.FormatDate(cp.Date),
			Predicted:  yhat,
			LowerBound: math.Min(math.Max(0, round1(cp.Lower)), yhat),
			UpperBound: math.Max(round1(cp.Upper), yhat),
		}
		if cp.Date.After(today) {
			series.Forecast = append(series.Forecast, pt)
		} else {
			series.Historical = append(series.Historical, pt)
		}
	}

	return series, nil
}
