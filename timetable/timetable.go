// Package timetable normalizes the free-form time-of-day strings used as
// schedule and bus-stop keys. Upstream data contains values like "7:5" and
// "8:"; comparisons and sorting need a canonical form first.
package timetable

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NormalizeTime canonicalizes a time-of-day string to zero-padded "HH:MM".
// "7:5" becomes "07:05", "8:" becomes "08:00", "12" becomes "12:00".
// Unparseable input is returned unchanged so bad data stays visible instead
// of disappearing.
func NormalizeTime(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return raw
	}
	parts := strings.SplitN(s, ":", 2)
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hour < 0 || hour > 23 {
		return raw
	}
	minute := 0
	if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
		minute, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || minute < 0 || minute > 59 {
			return raw
		}
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// FormatDisplay renders a normalized time as a 12-hour clock string, e.g.
// "13:05" becomes "1:05 PM" and "00:30" becomes "12:30 AM". Input that does
// not normalize is returned unchanged.
func FormatDisplay(raw string) string {
	norm := NormalizeTime(raw)
	parts := strings.SplitN(norm, ":", 2)
	if len(parts) != 2 {
		return raw
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return raw
	}
	suffix := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		suffix = "PM"
	case hour > 12:
		hour -= 12
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, suffix)
}

// SortedTimes returns the keys of a time-keyed map in chronological order.
// Keys are compared in normalized form but returned as given.
func SortedTimes[V any](slots map[string]V) []string {
	keys := make([]string, 0, len(slots))
	for k := range slots {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return NormalizeTime(keys[i]) < NormalizeTime(keys[j])
	})
	return keys
}
