package service

import (
	"context"
	"fmt"

	"github.com/paintflow/inventory-engine/internal/clock"
	"github.com/paintflow/inventory-engine/internal/domain"
	"github.com/paintflow/inventory-engine/internal/forecast"
	"github.com/paintflow/inventory-engine/internal/repository"
)

const (
	DefaultHorizonDays = 30
	MaxHorizonDays     = 365

	actualWindowDays = 90
)

// ErrInvalidHorizon is returned for horizons outside 1..MaxHorizonDays.
var ErrInvalidHorizon = fmt.Errorf("horizon must be between 1 and %d days", MaxHorizonDays)

type ItemCatalog interface {
	GetItem(ctx context.Context, id int64) (domain.Item, error)
	ListRegions(ctx context.Context) ([]domain.Region, error)
}

type ForecastService struct {
	items    ItemCatalog
	sales    repository.SalesRepository
	provider *forecast.Provider
}

func NewForecastService(items ItemCatalog, sales repository.SalesRepository, provider *forecast.Provider) *ForecastService {
	return &ForecastService{items: items, sales: sales, provider: provider}
}

// ItemForecast returns the demand forecast of an item in a region together
// with the observed sales of the last 90 days and chart annotations.
func (s *ForecastService) ItemForecast(ctx context.Context, itemID, regionID int64, horizonDays int) (*domain.ItemForecast, error) {
	if horizonDays < 1 || horizonDays > MaxHorizonDays {
		return nil, ErrInvalidHorizon
	}

	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	today := s.provider.Today()
	records, err := s.sales.ListSales(ctx, itemID, regionID, today.AddDate(0, 0, -(actualWindowDays-1)), today)
	if err != nil {
		return nil, fmt.Errorf("list sales for item %d region %d: %w", itemID, regionID, err)
	}
	actual := make([]domain.ActualSale, 0, len(records))
	for _, r := range records {
		actual = append(actual, domain.ActualSale{Date: clock.FormatDate(r.Date), Actual: r.QuantitySold})
	}

	series, source := s.provider.ForecastWithSource(ctx, itemID, regionID, horizonDays)

	return &domain.ItemForecast{
		ItemID:      item.ID,
		ItemCode:    item.Code,
		ItemName:    item.Name,
		RegionID:    regionID,
		Source:      source,
		Actual:      actual,
		Historical:  series.Historical,
		Forecast:    series.Forecast,
		Annotations: s.annotations(),
	}, nil
}

// RegionalSummary returns the total sales revenue of every region, rounded to
// whole rupees. Regions without sales report zero.
func (s *ForecastService) RegionalSummary(ctx context.Context) ([]domain.RegionRevenue, error) {
	regions, err := s.items.ListRegions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	totals, err := s.sales.RevenueByRegion(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum revenue by region: %w", err)
	}

	summary := make([]domain.RegionRevenue, 0, len(regions))
	for _, r := range regions {
		summary = append(summary, domain.RegionRevenue{
			RegionID:     r.ID,
			RegionName:   r.Name,
			TotalRevenue: totals[r.ID].Round(0),
		})
	}
	return summary, nil
}

func (s *ForecastService) annotations() []domain.Annotation {
	today := s.provider.Today()
	start, end := s.provider.Festival().Span(today.Year())

	return []domain.Annotation{
		{Date: clock.FormatDate(start), Label: "Festival Start"},
		{Date: clock.FormatDate(end), Label: "Festival End"},
		{Date: clock.FormatDate(today), Label: "Today"},
	}
}
