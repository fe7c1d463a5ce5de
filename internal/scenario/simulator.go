package scenario

import (
	"fmt"
	"math"
	"strings"

	"github.com/paintflow/inventory-engine/internal/domain"
)

// Baseline aggregates the profiles are applied to.
const (
	BaseRevenue     = 4_500_000.0
	BaseRiskSupply  = 1_250_000.0
	BaseRiskDemand  = 800_000.0
	BaseStockouts   = 8.0
	BaseTransfers   = 3.0
	BaseDaysOfCover = 25.0
	stockoutSupply  = 15.0
	stockoutDemand  = 10.0
	transferSupply  = 5.0
)

// Dashboard is the projected KPI set under a scenario.
type Dashboard struct {
	TotalRevenueMTD  int64   `json:"total_revenue_mtd"`
	StockoutCount    int     `json:"stockout_count"`
	PendingTransfers int     `json:"pending_transfers"`
	RevenueAtRisk    int64   `json:"revenue_at_risk"`
	AvgDaysOfCover   float64 `json:"avg_days_of_cover"`
}

// Scenario is a profile with its precomputed dashboard.
type Scenario struct {
	domain.ScenarioProfile
	Dashboard Dashboard `json:"dashboard_summary"`
}

// Summary is the list view of a scenario.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ComputeDashboard projects the baseline through the profile's multipliers.
func ComputeDashboard(p domain.ScenarioProfile) Dashboard {
	inv, demand := p.InventoryMultiplier, p.DemandMultiplier

	return Dashboard{
		TotalRevenueMTD:  int64(math.Round(BaseRevenue * demand)),
		StockoutCount:    int(BaseStockouts + (1-inv)*stockoutSupply + (demand-1)*stockoutDemand),
		PendingTransfers: int(BaseTransfers + (1-inv)*transferSupply),
		RevenueAtRisk:    int64(math.Round(BaseRiskSupply*(1-inv) + BaseRiskDemand*(demand-1))),
		AvgDaysOfCover:   math.Round(BaseDaysOfCover*inv/demand*10) / 10,
	}
}

// Simulator serves scenarios computed once at construction.
type Simulator struct {
	order     []string
	scenarios map[string]Scenario
}

// NewSimulator validates the profiles and precomputes their dashboards.
// Profile IDs are matched case-insensitively.
func NewSimulator(profiles []domain.ScenarioProfile) (*Simulator, error) {
	s := &Simulator{scenarios: make(map[string]Scenario, len(profiles))}

	for _, p := range profiles {
		id := normalizeID(p.ID)
		if id == "" {
			return nil, fmt.Errorf("scenario profile %q has no id", p.Name)
		}
		if p.InventoryMultiplier <= 0 || p.DemandMultiplier <= 0 {
			return nil, fmt.Errorf("scenario %s: multipliers must be positive", id)
		}
		if _, dup := s.scenarios[id]; dup {
			return nil, fmt.Errorf("duplicate scenario %s", id)
		}

		p.ID = id
		s.order = append(s.order, id)
		s.scenarios[id] = Scenario{ScenarioProfile: p, Dashboard: ComputeDashboard(p)}
	}

	return s, nil
}

func (s *Simulator) List() []Summary {
	out := make([]Summary, 0, len(s.order))
	for _, id := range s.order {
		sc := s.scenarios[id]
		out = append(out, Summary{ID: sc.ID, Name: sc.Name, Description: sc.Description})
	}
	return out
}

func (s *Simulator) Get(id string) (Scenario, error) {
	sc, ok := s.scenarios[normalizeID(id)]
	if !ok {
		return Scenario{}, fmt.Errorf("scenario %q: %w", id, domain.ErrNotFound)
	}
	return sc, nil
}

// All returns every scenario in definition order.
func (s *Simulator) All() []Scenario {
	out := make([]Scenario, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.scenarios[id])
	}
	return out
}

func (s *Simulator) Len() int {
	return len(s.order)
}

func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// DefaultProfiles are the built-in disruptions.
func DefaultProfiles() []domain.ScenarioProfile {
	return []domain.ScenarioProfile{
		{
			ID:                  "TRUCK_STRIKE",
			Name:                "Truck Strike",
			Description:         "Nationwide trucking strike reduces inbound stock by 50% for 5 days.",
			Impact:              "Cascading stockouts across West and Central regions.",
			AffectedRegions:     []string{"West", "Central"},
			InventoryMultiplier: 0.5,
			DemandMultiplier:    1.0,
		},
		{
			ID:                  "HEATWAVE",
			Name:                "Heatwave",
			Description:         "Severe heatwave increases exterior paint demand by 35%.",
			Impact:              "Exterior paints deplete faster in North and Central regions.",
			AffectedRegions:     []string{"North", "Central"},
			InventoryMultiplier: 1.0,
			DemandMultiplier:    1.35,
		},
		{
			ID:                  "EARLY_MONSOON",
			Name:                "Early Monsoon",
			Description:         "Monsoon arrives 2 weeks early, waterproofing demand surges 60%.",
			Impact:              "Waterproofing products deplete rapidly in West and South.",
			AffectedRegions:     []string{"West", "South"},
			InventoryMultiplier: 1.0,
			DemandMultiplier:    1.6,
		},
	}
}
