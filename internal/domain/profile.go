package domain

import "strings"

const ProfileStatusFound = "Found"

type Profile struct {
	Name          string  `json:"name"`
	Location      string  `json:"location"`
	LandSize      float64 `json:"land_size"`
	Crop          string  `json:"crop"`
	Nitrogen      float64 `json:"nitrogen"`
	Phosphorus    float64 `json:"phosphorus"`
	Potassium     float64 `json:"potassium"`
	Moisture      float64 `json:"moisture"`
	PH            float64 `json:"ph"`
	OrganicCarbon float64 `json:"organic_carbon"`
}

// DefaultProfile mirrors the starting values of the profile setup form.
func DefaultProfile() Profile {
	return Profile{
		Crop:          "Wheat",
		Nitrogen:      280,
		Phosphorus:    18,
		Potassium:     120,
		Moisture:      20,
		PH:            6.5,
		OrganicCarbon: 0.5,
	}
}

type ProfileEnvelope struct {
	Status string   `json:"status"`
	Data   *Profile `json:"data"`
}

func (e ProfileEnvelope) Found() bool {
	return e.Status == ProfileStatusFound && e.Data != nil
}

type HistoryEntry struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Subtype   string `json:"subtype"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
	Operator  string `json:"operator"`
}

// FilterHistory keeps entries of the given type; "" and "All" keep everything.
func FilterHistory(entries []HistoryEntry, eventType string) []HistoryEntry {
	if eventType == "" || strings.EqualFold(eventType, "all") {
		return entries
	}

	filtered := make([]HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if strings.EqualFold(entry.Type, eventType) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

type Answer struct {
	Answer     string `json:"answer"`
	CostSaving string `json:"cost_saving,omitempty"`
}

type UploadReceipt struct {
	Status   string `json:"status,omitempty"`
	Message  string `json:"message,omitempty"`
	Filename string `json:"filename,omitempty"`
	URL      string `json:"url,omitempty"`
}
