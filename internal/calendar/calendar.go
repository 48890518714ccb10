// Package calendar turns a year and month into a Sunday-first grid and a
// day's tasks into indicator categories. Nothing here touches disk.
package calendar

import (
	"fmt"
	"time"

	"daybook/internal/storage"
)

const DefaultMaxDots = 2

// Cell is one slot of a week row. Day is 0 for padding outside the month.
type Cell struct {
	Day int
}

func (c Cell) Blank() bool {
	return c.Day == 0
}

type Week [7]Cell

// MonthGrid lays out month (1-12) of year as weeks starting on Sunday. It
// returns nil for an out-of-range month.
func MonthGrid(year, month int) []Week {
	if month < 1 || month > 12 {
		return nil
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	offset := int(first.Weekday())
	days := DaysIn(year, month)
	rows := (offset + days + 6) / 7

	weeks := make([]Week, rows)
	for row := range weeks {
		for col := 0; col < 7; col++ {
			day := row*7 + col - offset + 1
			if day < 1 || day > days {
				continue
			}
			weeks[row][col] = Cell{Day: day}
		}
	}
	return weeks
}

func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func DaysIn(year, month int) int {
	switch month {
	case 2:
		if IsLeap(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	default:
		return 0
	}
}

// AdvanceMonth moves (year, month) by delta months in either direction.
func AdvanceMonth(year, month, delta int) (int, int) {
	idx := year*12 + (month - 1) + delta
	y := floorDiv(idx, 12)
	return y, idx - y*12 + 1
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// DayIndicators returns the categories of the first maxDots tasks, in
// order. It does not rank or dedupe.
func DayIndicators(tasks []storage.Task, maxDots int) []storage.Category {
	if maxDots <= 0 || len(tasks) == 0 {
		return nil
	}
	n := min(len(tasks), maxDots)
	out := make([]storage.Category, 0, n)
	for _, t := range tasks[:n] {
		out = append(out, storage.ParseCategory(string(t.Category)))
	}
	return out
}

func DateString(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(storage.DateLayout, s)
}

// WeekdayLabels are the Sunday-first column headers.
func WeekdayLabels() [7]string {
	return [7]string{"일", "월", "화", "수", "목", "금", "토"}
}
