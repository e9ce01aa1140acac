package utils

import (
	"sort"
	"strconv"
	"strings"
)

const backRowSeats = 5

// SeatLabels returns the numbered labels of a coach with totalSeats seats:
// rows of four followed by a five-seat back row, numbered front to back.
func SeatLabels(totalSeats int) []string {
	if totalSeats <= 0 {
		return []string{}
	}
	labels := make([]string, 0, totalSeats)
	count := 0
	rows4 := 0
	if totalSeats > backRowSeats {
		rows4 = (totalSeats - backRowSeats) / 4
	}
	for r := 0; r < rows4; r++ {
		for i := 0; i < 4; i++ {
			count++
			labels = append(labels, strconv.Itoa(count))
		}
	}
	for i := 0; i < backRowSeats && len(labels) < totalSeats; i++ {
		count++
		labels = append(labels, strconv.Itoa(count))
	}
	for len(labels) < totalSeats {
		count++
		labels = append(labels, strconv.Itoa(count))
	}
	return labels
}

// NormalizeSeat trims a seat label and strips leading zeros from numeric ones.
func NormalizeSeat(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return strconv.Itoa(n)
	}
	return s
}

// UnknownSeats lists the labels not present in a coach of capacity seats.
func UnknownSeats(seats []string, capacity int) []string {
	valid := map[string]bool{}
	for _, l := range SeatLabels(capacity) {
		valid[l] = true
	}
	out := []string{}
	for _, s := range seats {
		if !valid[s] {
			out = append(out, s)
		}
	}
	return out
}

// DuplicateSeats returns labels appearing more than once, in first-seen order.
func DuplicateSeats(seats []string) []string {
	seen := map[string]int{}
	out := []string{}
	for _, s := range seats {
		seen[s]++
		if seen[s] == 2 {
			out = append(out, s)
		}
	}
	return out
}

// SortSeats orders labels numerically, non-numeric labels last.
func SortSeats(seats []string) []string {
	out := append([]string(nil), seats...)
	sort.SliceStable(out, func(i, j int) bool {
		a, errA := strconv.Atoi(out[i])
		b, errB := strconv.Atoi(out[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return out[i] < out[j]
		}
	})
	return out
}
