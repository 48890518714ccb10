package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Category string

const (
	Blue   Category = "파랑"
	Red    Category = "빨강"
	Green  Category = "초록"
	Purple Category = "보라"

	DefaultCategory = Blue
)

var categoryAliases = map[string]Category{
	"blue":   Blue,
	"red":    Red,
	"green":  Green,
	"purple": Purple,
}

// Categories returns the known labels in picker order.
func Categories() []Category {
	return []Category{Blue, Red, Green, Purple}
}

// ParseCategory maps a label or English alias to a known Category. Anything
// else resolves to DefaultCategory.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	if c := Category(s); c.Valid() {
		return c
	}
	if c, ok := categoryAliases[strings.ToLower(s)]; ok {
		return c
	}
	return DefaultCategory
}

// Valid reports whether c is one of the known labels.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Next cycles through Categories, wrapping at the end.
func (c Category) Next() Category {
	all := Categories()
	for i, known := range all {
		if c == known {
			return all[(i+1)%len(all)]
		}
	}
	return DefaultCategory
}

type Task struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Date     string   `json:"date"`
	Time     string   `json:"time"`
}

// UnmarshalJSON accepts ids written as JSON numbers and fills in the default
// category when the field is missing or unknown.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       json.RawMessage `json:"id"`
		Title    string          `json:"title"`
		Category string          `json:"category"`
		Date     string          `json:"date"`
		Time     string          `json:"time"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}
	*t = Task{
		ID:       id,
		Title:    raw.Title,
		Category: ParseCategory(raw.Category),
		Date:     raw.Date,
		Time:     raw.Time,
	}
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("task id missing")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("task id %s: %w", raw, err)
	}
	return n.String(), nil
}

// ValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidTime reports whether s is a whole hour in HH:00 form.
func ValidTime(s string) bool {
	t, err := time.Parse(TimeLayout, s)
	return err == nil && t.Minute() == 0 && len(s) == len(TimeLayout)
}

// FormatHour renders an hour of day as HH:00.
func FormatHour(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

// ParseHour extracts the hour from an HH:00 string.
func ParseHour(s string) (int, error) {
	if !ValidTime(s) {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	t, _ := time.Parse(TimeLayout, s)
	return t.Hour(), nil
}
