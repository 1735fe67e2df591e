package domain

import (
	"encoding/json"
	"math"

	"github.com/spf13/cast"
)

// Sentinel statuses the backend sends instead of a soil row.
const (
	SoilStatusNoData       = "No data"
	SoilStatusInitializing = "Initializing..."
)

type Metric struct {
	Key   string
	Label string
	Unit  string
	Max   float64
}

// SoilMetrics lists the dashboard metrics in display order.
var SoilMetrics = []Metric{
	{Key: "nitrogen", Label: "Nitrogen", Unit: "kg/ha", Max: 600},
	{Key: "phosphorus", Label: "Phosphorus", Unit: "kg/ha", Max: 100},
	{Key: "potassium", Label: "Potassium", Unit: "kg/ha", Max: 500},
	{Key: "moisture", Label: "Moisture", Unit: "%", Max: 100},
	{Key: "ph", Label: "pH", Unit: "", Max: 14},
}

// SoilReading is one soil-state payload. The backend either returns a pipeline
// row (values are often CSV strings) or a {"status": ...} envelope, with or
// without a "data" key.
type SoilReading struct {
	Status string
	Fields map[string]any
}

func (r *SoilReading) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = SoilReading{}
	status, hasStatus := raw["status"].(string)
	if hasStatus && (status == SoilStatusNoData || status == SoilStatusInitializing) {
		r.Status = status
		return nil
	}

	payload, hasData := raw["data"]
	if hasStatus && hasData {
		r.Status = status
		if fields, ok := payload.(map[string]any); ok {
			r.Fields = fields
		}
		return nil
	}

	r.Fields = raw
	return nil
}

func (r SoilReading) MarshalJSON() ([]byte, error) {
	if r.Fields == nil {
		return json.Marshal(map[string]any{"status": r.Status, "data": nil})
	}
	return json.Marshal(r.Fields)
}

// HasData reports whether the reading is a usable snapshot rather than a
// "no data yet" indicator.
func (r SoilReading) HasData() bool {
	if len(r.Fields) == 0 {
		return false
	}
	return r.Status != SoilStatusNoData && r.Status != SoilStatusInitializing
}

func (r SoilReading) Value(key string) (float64, bool) {
	raw, ok := r.Fields[key]
	if !ok || raw == nil {
		return 0, false
	}

	value, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(value) {
		return 0, false
	}
	return value, true
}

func (r SoilReading) Text(key string) string {
	raw, ok := r.Fields[key]
	if !ok || raw == nil {
		return ""
	}
	return cast.ToString(raw)
}

// HealthScore blends nitrogen, phosphorus, potassium and moisture into a 0-100 score.
func (r SoilReading) HealthScore() (int, bool) {
	n, okN := r.Value("nitrogen")
	p, okP := r.Value("phosphorus")
	k, okK := r.Value("potassium")
	m, okM := r.Value("moisture")
	if !okN || !okP || !okK || !okM {
		return 0, false
	}

	score := math.Round((n/600 + p/60 + k/400 + m/100) / 4 * 100)
	return int(math.Max(0, math.Min(100, score))), true
}
