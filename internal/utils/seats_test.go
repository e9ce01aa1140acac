package utils

import (
	"reflect"
	"testing"
)

func TestSeatLabels(t *testing.T) {
	labels := SeatLabels(45)
	if len(labels) != 45 || labels[0] != "1" || labels[44] != "45" {
		t.Fatalf("unexpected labels %v", labels)
	}
	if got := SeatLabels(3); !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Fatalf("unexpected small coach labels %v", got)
	}
	if got := SeatLabels(0); len(got) != 0 {
		t.Fatalf("expected no labels, got %v", got)
	}
}

func TestNormalizeSeat(t *testing.T) {
	cases := map[string]string{" 07 ": "7", "12": "12", "a1": "A1", "": ""}
	for in, want := range cases {
		if got := NormalizeSeat(in); got != want {
			t.Errorf("NormalizeSeat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSeatChecks(t *testing.T) {
	if got := UnknownSeats([]string{"1", "46", "A1"}, 45); !reflect.DeepEqual(got, []string{"46", "A1"}) {
		t.Fatalf("unexpected unknown seats %v", got)
	}
	if got := DuplicateSeats([]string{"3", "1", "3", "3"}); !reflect.DeepEqual(got, []string{"3"}) {
		t.Fatalf("unexpected duplicates %v", got)
	}
	if got := SortSeats([]string{"13", "2", "B", "10"}); !reflect.DeepEqual(got, []string{"2", "10", "13", "B"}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestMoneyAndLists(t *testing.T) {
	if got := FormatLKR(1500); got != "Rs 1,500" {
		t.Fatalf("FormatLKR = %q", got)
	}
	if got := SplitSeatList(" 12, 13;;a4 "); !reflect.DeepEqual(got, []string{"12", "13", "A4"}) {
		t.Fatalf("SplitSeatList = %v", got)
	}
	if got := JoinSeatList([]string{"12", "13"}); got != "12,13" {
		t.Fatalf("JoinSeatList = %q", got)
	}
}
