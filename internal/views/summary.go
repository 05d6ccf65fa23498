package views

import "github.com/mark31d/OlympusAirDiary/internal/models"

// Summary is a dashboard roll-up of one snapshot.
type Summary struct {
	Total         int                     `json:"total"`
	ByCategory    map[models.Category]int `json:"byCategory"`
	Days          int                     `json:"days"`
	Latest        string                  `json:"latest,omitempty"`
	Points        int                     `json:"points"`
	PurchasedTips int                     `json:"purchasedTips"`
}

// Summarize counts records per category and distinct days. Every category is
// present in ByCategory, zero or not.
func Summarize(snap models.Snapshot) Summary {
	s := Summary{
		Total:         len(snap.Memories),
		ByCategory:    make(map[models.Category]int, len(models.ValidCategories)),
		Points:        snap.Points,
		PurchasedTips: len(snap.PurchasedTips),
	}
	for c := range models.ValidCategories {
		s.ByCategory[c] = 0
	}

	days := make(map[string]struct{})
	for _, m := range snap.Memories {
		s.ByCategory[m.Category]++
		key := DateKey(m.DateISO)
		days[key] = struct{}{}
		if key > s.Latest {
			s.Latest = key
		}
	}
	s.Days = len(days)
	return s
}
