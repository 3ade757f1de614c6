package models

// WeekdayNames lists the board columns in display order, Monday first.
var WeekdayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// DefaultIdealDailyMinutes is the baseline daily capacity shown on the board.
const DefaultIdealDailyMinutes = 480

// Settings is the board configuration: the ideal daily workload and which
// weekday columns are visible. Purely type-correct configuration, no other
// invariants.
type Settings struct {
	IdealDailyMinutes int             `json:"ideal_daily_minutes" validate:"gt=0"`
	WeekdayVisibility map[string]bool `json:"weekday_visibility"`
}

// DefaultSettings returns the out-of-the-box configuration: 8 ideal hours a
// day, all seven columns visible.
func DefaultSettings() Settings {
	s := Settings{IdealDailyMinutes: DefaultIdealDailyMinutes}
	s.Normalize()
	return s
}

// Normalize repairs missing or non-positive values so callers can rely on a
// well-formed settings object after load or import.
func (s *Settings) Normalize() {
	if s.IdealDailyMinutes <= 0 {
		s.IdealDailyMinutes = DefaultIdealDailyMinutes
	}
	if s.WeekdayVisibility == nil {
		s.WeekdayVisibility = make(map[string]bool, len(WeekdayNames))
	}
	for _, day := range WeekdayNames {
		if _, ok := s.WeekdayVisibility[day]; !ok {
			s.WeekdayVisibility[day] = true
		}
	}
}

// Visible reports whether the named weekday column is shown.
func (s Settings) Visible(day string) bool {
	v, ok := s.WeekdayVisibility[day]
	if !ok {
		return true
	}
	return v
}
