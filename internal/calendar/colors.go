package calendar

import "daybook/internal/storage"

const (
	SundayColor   = "#FF4B4B"
	SaturdayColor = "#3182F6"
	WeekdayColor  = "#888888"
)

var palette = map[storage.Category]string{
	storage.Blue:   "#3182F6",
	storage.Red:    "#FF4B4B",
	storage.Green:  "#00C853",
	storage.Purple: "#A55EEA",
}

// ColorOf resolves a category to its hex color, falling back to the
// default category's color.
func ColorOf(c storage.Category) string {
	if color, ok := palette[c]; ok {
		return color
	}
	return palette[storage.DefaultCategory]
}
