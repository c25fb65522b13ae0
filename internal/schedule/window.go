package schedule

import "time"

// windowDays is the number of consecutive days shown per availability page.
const windowDays = 5

// Day is a single selectable day in the availability window.
type Day struct {
	Date       time.Time `json:"-"`
	Key        string    `json:"key"`         // YYYY-MM-DD
	ShortLabel string    `json:"short_label"` // abbreviated weekday, e.g. "Tue"
	LongLabel  string    `json:"long_label"`  // abbreviated month + day, e.g. "Jan 23"
}

// Window returns the 5 consecutive days starting at today + weekOffset*5 days.
// A negative weekOffset is clamped to 0 so the window never starts before
// today. Pure function of its inputs.
func Window(weekOffset int, today time.Time) []Day {
	if weekOffset < 0 {
		weekOffset = 0
	}
	start := today.AddDate(0, 0, weekOffset*windowDays)
	days := make([]Day, 0, windowDays)
	for i := 0; i < windowDays; i++ {
		d := start.AddDate(0, 0, i)
		days = append(days, Day{
			Date:       d,
			Key:        d.Format("2006-01-02"),
			ShortLabel: d.Format("Mon"),
			LongLabel:  d.Format("Jan 2"),
		})
	}
	return days
}
