package domain

// ForecastPoint is one dated value of a demand series
type ForecastPoint struct {
	Date       string  `json:"date"`
	Predicted  float64 `json:"predicted"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
}

// ForecastSeries splits a demand stream at "today"
type ForecastSeries struct {
	Historical []ForecastPoint `json:"historical"`
	Forecast   []ForecastPoint `json:"forecast"`
}

// ActualSale is an observed daily quantity
type ActualSale struct {
	Date   string `json:"date"`
	Actual int    `json:"actual"`
}

// Annotation marks a notable date on a forecast chart
type Annotation struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

// ItemForecast is the forecast view for one item in one region
type ItemForecast struct {
	ItemID      int64           `json:"item_id"`
	ItemCode    string          `json:"sku_code"`
	ItemName    string          `json:"name"`
	RegionID    int64           `json:"region_id"`
	Source      string          `json:"source"`
	Actual      []ActualSale    `json:"actual"`
	Historical  []ForecastPoint `json:"historical"`
	Forecast    []ForecastPoint `json:"forecast"`
	Annotations []Annotation    `json:"annotations"`
}
