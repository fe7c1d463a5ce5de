package recommendation

import (
	"fmt"
	"strings"
	"time"

	"github.com/paintflow/inventory-engine/internal/clock"
	"github.com/paintflow/inventory-engine/internal/config"
	"github.com/paintflow/inventory-engine/internal/domain"
)

// ReasonInput is what a reason rule sees about one reorder candidate.
type ReasonInput struct {
	Item     domain.Item
	Position domain.StockPosition
	Today    time.Time
}

// Rule is one row of the reason table: the first rule whose Match returns
// true renders the reason.
type Rule struct {
	Name   string
	Match  func(in ReasonInput) bool
	Render func(in ReasonInput) string
}

// RuleSettings parameterizes the seasonal and merchandising rules.
type RuleSettings struct {
	FestivalName          string
	FestivalDate          time.Time
	FestivalLeadDays      int
	FestivalUpliftPercent int
	HeroItemName          string
	WeatherCategory       string
	WetSeasonMonths       []time.Month
}

// SettingsFromConfig converts the rules config group.
func SettingsFromConfig(cfg config.RulesConfig) (RuleSettings, error) {
	settings := RuleSettings{
		FestivalName:          cfg.FestivalName,
		FestivalLeadDays:      cfg.FestivalLeadDays,
		FestivalUpliftPercent: cfg.FestivalUpliftPercent,
		HeroItemName:          cfg.HeroItemName,
		WeatherCategory:       cfg.WeatherCategory,
	}

	if cfg.FestivalDate != "" {
		d, err := clock.ParseDate(cfg.FestivalDate)
		if err != nil {
			return RuleSettings{}, fmt.Errorf("invalid festival date %q: %w", cfg.FestivalDate, err)
		}
		settings.FestivalDate = d
	}

	for _, m := range cfg.WetSeasonMonths {
		if m < 1 || m > 12 {
			return RuleSettings{}, fmt.Errorf("invalid wet season month %d", m)
		}
		settings.WetSeasonMonths = append(settings.WetSeasonMonths, time.Month(m))
	}

	return settings, nil
}

// DefaultSettings mirrors the shipped configuration defaults.
func DefaultSettings() RuleSettings {
	return RuleSettings{
		FestivalName:          "Diwali",
		FestivalDate:          time.Date(2025, time.October, 25, 0, 0, 0, 0, time.UTC),
		FestivalLeadDays:      21,
		FestivalUpliftPercent: 60,
		HeroItemName:          "Bridal Red",
		WeatherCategory:       "Waterproofing",
		WetSeasonMonths:       []time.Month{time.June, time.July, time.August, time.September},
	}
}

// Rules builds the ordered reason table.
func Rules(s RuleSettings) []Rule {
	daysToFestival := func(in ReasonInput) int {
		return int(s.FestivalDate.Sub(in.Today).Hours() / 24)
	}

	return []Rule{
		{
			Name: "festival",
			Match: func(in ReasonInput) bool {
				if s.FestivalDate.IsZero() {
					return false
				}
				days := daysToFestival(in)
				return days > 0 && days <= s.FestivalLeadDays
			},
			Render: func(in ReasonInput) string {
				return fmt.Sprintf("%s in %d days - demand expected to surge %d%%", s.FestivalName, daysToFestival(in), s.FestivalUpliftPercent)
			},
		},
		{
			Name: "hero",
			Match: func(in ReasonInput) bool {
				return s.HeroItemName != "" && strings.EqualFold(in.Item.Name, s.HeroItemName)
			},
			Render: func(in ReasonInput) string {
				return fmt.Sprintf("Wedding season peak - '%s' trending +40%% in your region", in.Item.Name)
			},
		},
		{
			Name:  "trending",
			Match: func(in ReasonInput) bool { return in.Item.IsTrending },
			Render: func(in ReasonInput) string {
				return fmt.Sprintf("'%s' is trending - 40%% increase in customer searches", in.Item.Name)
			},
		},
		{
			Name:  "critical",
			Match: func(in ReasonInput) bool { return in.Position.DaysOfCover < 3 },
			Render: func(in ReasonInput) string {
				return fmt.Sprintf("CRITICAL: Stock will last only %.0f days at current sell-through", in.Position.DaysOfCover)
			},
		},
		{
			Name: "weather",
			Match: func(in ReasonInput) bool {
				if s.WeatherCategory == "" || !strings.EqualFold(in.Item.Category, s.WeatherCategory) {
					return false
				}
				for _, m := range s.WetSeasonMonths {
					if in.Today.Month() == m {
						return true
					}
				}
				return false
			},
			Render: func(in ReasonInput) string {
				return fmt.Sprintf("Peak monsoon season - %s demand at annual high", strings.ToLower(in.Item.Category))
			},
		},
		{
			Name:  "default",
			Match: func(ReasonInput) bool { return true },
			Render: func(in ReasonInput) string {
				return fmt.Sprintf("Stock will last %.0f days - restock recommended before depletion", in.Position.DaysOfCover)
			},
		},
	}
}

// Explain renders the first matching rule. It returns the rule name with the
// text.
func Explain(rules []Rule, in ReasonInput) (string, string) {
	for _, r := range rules {
		if r.Match(in) {
			return r.Name, r.Render(in)
		}
	}
	return "", ""
}
