package core

import (
	"testing"
	"time"
)

func TestDateOf(t *testing.T) {
	ts := time.Date(2024, 3, 4, 23, 59, 0, 0, time.FixedZone("EST", -5*3600))
	got := DateOf(ts)
	want := Date{Year: 2024, Month: time.March, Day: 4}
	if got != want {
		t.Errorf("DateOf() = %v, want %v", got, want)
	}

	if !DateOf(time.Time{}).IsZero() {
		t.Error("zero time should yield zero date")
	}
}

func TestDate_AddDays(t *testing.T) {
	d := Date{Year: 2024, Month: time.February, Day: 28}
	if got := d.AddDays(1); got != (Date{2024, time.February, 29}) {
		t.Errorf("leap day: got %v", got)
	}
	if got := d.AddDays(2); got != (Date{2024, time.March, 1}) {
		t.Errorf("month rollover: got %v", got)
	}
	if got := d.AddDays(-28); got != (Date{2024, time.January, 31}) {
		t.Errorf("negative: got %v", got)
	}
}

func TestDate_String(t *testing.T) {
	if s := (Date{2024, time.March, 5}).String(); s != "2024-03-05" {
		t.Errorf("got %s", s)
	}
	if s := (Date{}).String(); s != "" {
		t.Errorf("zero date should render empty, got %q", s)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-12-31")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d != (Date{2024, time.December, 31}) {
		t.Errorf("got %v", d)
	}

	if _, err := ParseDate("31/12/2024"); err == nil {
		t.Error("expected error for wrong layout")
	}
}

func TestMonth_Bounds(t *testing.T) {
	tests := []struct {
		month Month
		last  int
	}{
		{Month{2024, time.February}, 29},
		{Month{2023, time.February}, 28},
		{Month{2024, time.April}, 30},
		{Month{2024, time.December}, 31},
	}

	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			if tt.month.First().Day != 1 {
				t.Errorf("First() = %v", tt.month.First())
			}
			if got := tt.month.Last(); got.Day != tt.last || got.Month != tt.month.Month {
				t.Errorf("Last() = %v, want day %d", got, tt.last)
			}
		})
	}
}

func TestMonth_NextPrev(t *testing.T) {
	dec := Month{2023, time.December}
	if got := dec.Next(); got != (Month{2024, time.January}) {
		t.Errorf("Next() = %v", got)
	}
	if got := (Month{2024, time.January}).Prev(); got != dec {
		t.Errorf("Prev() = %v", got)
	}
	if got := (Month{2024, time.January}).Next(); got != (Month{2024, time.February}) {
		t.Errorf("Next() from January = %v", got)
	}
}

func TestMonth_BeforeContains(t *testing.T) {
	a := Month{2023, time.December}
	b := Month{2024, time.January}
	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Error("Before ordering wrong")
	}
	if !b.Contains(Date{2024, time.January, 15}) {
		t.Error("expected January to contain Jan 15")
	}
	if b.Contains(Date{2023, time.January, 15}) {
		t.Error("different year should not be contained")
	}
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2024-03")
	if err != nil {
		t.Fatalf("ParseMonth: %v", err)
	}
	if m != (Month{2024, time.March}) {
		t.Errorf("got %v", m)
	}
	if m.Label() != "March 2024" {
		t.Errorf("Label() = %s", m.Label())
	}

	if _, err := ParseMonth("March"); err == nil {
		t.Error("expected error")
	}
}

func TestRowKind_String(t *testing.T) {
	kinds := []RowKind{RowEntry, RowExit, RowUnclassified}
	expected := []string{"entry", "exit", "unclassified"}

	for i, k := range kinds {
		if k.String() != expected[i] {
			t.Errorf("expected %s, got %s", expected[i], k)
		}
	}
}
