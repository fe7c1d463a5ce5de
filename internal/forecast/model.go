package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/paintflow/inventory-engine/internal/clock"
)

// CurvePoint is one dated value of a fitted demand curve.
type CurvePoint struct {
	Date  time.Time
	Yhat  float64
	Lower float64
	Upper float64
}

// Model is a trained per-key demand model.
type Model interface {
	// Predict returns the fitted curve from its first point through until.
	Predict(ctx context.Context, until time.Time) ([]CurvePoint, error)
}

// ModelKey names the model trained for one item in one demand region.
func ModelKey(itemID, locationID int64) string {
	return fmt.Sprintf("prophet_%d_%d", itemID, locationID)
}

var errEmptyCurve = errors.New("model curve has no points")

type artifactPoint struct {
	DS        string  `json:"ds"`
	Yhat      float64 `json:"yhat"`
	YhatLower float64 `json:"yhat_lower"`
	YhatUpper float64 `json:"yhat_upper"`
}

// Artifact is the on-disk form of a trained model: the fitted curve exported
// by the training job.
type Artifact struct {
	Key        string          `json:"key"`
	ItemID     int64           `json:"item_id"`
	LocationID int64           `json:"location_id"`
	TrainedAt  string          `json:"trained_at"`
	Points     []artifactPoint `json:"points"`
}

type curveModel struct {
	points []CurvePoint
}

// ParseModel decodes an artifact. The key comes from the artifact itself, then
// from its item/location ids, then from defaultKey.
func ParseModel(data []byte, defaultKey string) (string, Model, error) {
	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return "", nil, fmt.Errorf("decode model artifact: %w", err)
	}

	key := artifact.Key
	if key == "" && artifact.ItemID > 0 && artifact.LocationID > 0 {
		key = ModelKey(artifact.ItemID, artifact.LocationID)
	}
	if key == "" {
		key = defaultKey
	}
	if key == "" {
		return "", nil, errors.New("model artifact has no key")
	}

	points := make([]CurvePoint, 0, len(artifact.Points))
	for _, p := range artifact.Points {
		ds, err := clock.ParseDate(p.DS)
		if err != nil {
			return "", nil, fmt.Errorf("model %s: invalid ds %q: %w", key, p.DS, err)
		}
		points = append(points, CurvePoint{Date: ds, Yhat: p.Yhat, Lower: p.YhatLower, Upper: p.YhatUpper})
	}
	if len(points) == 0 {
		return "", nil, fmt.Errorf("model %s: %w", key, errEmptyCurve)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	return key, &curveModel{points: points}, nil
}

func (m *curveModel) Predict(ctx context.Context, until time.Time) ([]CurvePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	last := m.points[len(m.points)-1].Date
	if last.Before(until) {
		return nil, fmt.Errorf("curve ends %s before requested %s", clock.FormatDate(last), clock.FormatDate(until))
	}

	end := sort.Search(len(m.points), func(i int) bool { return m.points[i].Date.After(until) })

	out := make([]CurvePoint, end)
	copy(out, m.points[:end])

	return out, nil
}
