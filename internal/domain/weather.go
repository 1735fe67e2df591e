package domain

import (
	"encoding/json"

	"github.com/spf13/cast"
)

const DefaultWeatherLocation = "Ludhiana,IN"

// Weather fields are pointers because the backend answers "--" when its
// upstream provider is offline.
type Weather struct {
	Temp        *float64 `json:"temp"`
	Humidity    *float64 `json:"humidity"`
	Rain        float64  `json:"rain"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Impact      string   `json:"impact"`
}

func (w *Weather) UnmarshalJSON(data []byte) error {
	var raw struct {
		Temp        any    `json:"temp"`
		Humidity    any    `json:"humidity"`
		Rain        any    `json:"rain"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
		Impact      string `json:"impact"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*w = Weather{
		Temp:        optionalFloat(raw.Temp),
		Humidity:    optionalFloat(raw.Humidity),
		Description: raw.Description,
		Icon:        raw.Icon,
		Impact:      raw.Impact,
	}
	if rain := optionalFloat(raw.Rain); rain != nil {
		w.Rain = *rain
	}
	return nil
}

// Available reports whether the upstream provider returned live readings.
func (w Weather) Available() bool {
	return w.Temp != nil
}

func optionalFloat(raw any) *float64 {
	if raw == nil {
		return nil
	}
	value, err := cast.ToFloat64E(raw)
	if err != nil {
		return nil
	}
	return &value
}
