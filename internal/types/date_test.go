package types

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDueDate_Monthly(t *testing.T) {
	cycle := BillingCycle{Period: BILLING_PERIOD_MONTHLY}

	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{
			name:  "simple month",
			start: date(2024, time.January, 15),
			want:  date(2024, time.February, 15),
		},
		{
			name:  "31st clamps to leap February",
			start: date(2024, time.January, 31),
			want:  date(2024, time.February, 29),
		},
		{
			name:  "31st clamps to non-leap February",
			start: date(2023, time.January, 31),
			want:  date(2023, time.February, 28),
		},
		{
			name:  "30th clamps to February",
			start: date(2023, time.April, 30),
			want:  date(2023, time.May, 30),
		},
		{
			name:  "cross year boundary",
			start: date(2023, time.December, 10),
			want:  date(2024, time.January, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDueDate(tt.start, cycle)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextDueDate_SemiAnnual(t *testing.T) {
	cycle := BillingCycle{Period: BILLING_PERIOD_SEMI_ANNUAL}

	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{
			name:  "simple six months",
			start: date(2024, time.January, 10),
			want:  date(2024, time.July, 10),
		},
		{
			name:  "Aug 31 clamps to Feb 28",
			start: date(2023, time.August, 31),
			want:  date(2024, time.February, 29),
		},
		{
			name:  "cross year boundary",
			start: date(2023, time.October, 5),
			want:  date(2024, time.April, 5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDueDate(tt.start, cycle)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextDueDate_Annual(t *testing.T) {
	cycle := BillingCycle{Period: BILLING_PERIOD_ANNUAL}

	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{
			name:  "simple year",
			start: date(2024, time.March, 10),
			want:  date(2025, time.March, 10),
		},
		{
			name:  "Feb 29 clamps to Feb 28 on non-leap year",
			start: date(2024, time.February, 29),
			want:  date(2025, time.February, 28),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDueDate(tt.start, cycle)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextDueDate_CustomDuration(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		duration CustomDuration
		want     time.Time
	}{
		{
			name:     "10 days",
			start:    date(2024, time.March, 25),
			duration: CustomDuration{Unit: DURATION_UNIT_DAYS, Amount: 10},
			want:     date(2024, time.April, 4),
		},
		{
			name:     "2 weeks",
			start:    date(2024, time.December, 27),
			duration: CustomDuration{Unit: DURATION_UNIT_WEEKS, Amount: 2},
			want:     date(2025, time.January, 10),
		},
		{
			name:     "3 months with clamping",
			start:    date(2023, time.November, 30),
			duration: CustomDuration{Unit: DURATION_UNIT_MONTHS, Amount: 3},
			want:     date(2024, time.February, 29),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cycle := BillingCycle{
				Period:   BILLING_PERIOD_CUSTOM_DURATION,
				Duration: &tt.duration,
			}
			got, err := NextDueDate(tt.start, cycle)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextDueDate_TerminalPeriods(t *testing.T) {
	termEnd := date(2024, time.June, 30)

	tests := []struct {
		name  string
		cycle BillingCycle
	}{
		{
			name:  "custom term never advances",
			cycle: BillingCycle{Period: BILLING_PERIOD_CUSTOM_TERM, TermEnd: &termEnd},
		},
		{
			name:  "unknown period never advances",
			cycle: BillingCycle{Period: BillingPeriod("QUARTERLY")},
		},
		{
			name:  "empty period never advances",
			cycle: BillingCycle{},
		},
		{
			name:  "custom duration without duration",
			cycle: BillingCycle{Period: BILLING_PERIOD_CUSTOM_DURATION},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NextDueDate(date(2024, time.January, 1), tt.cycle); err == nil {
				t.Errorf("expected error for terminal period, got nil")
			}
		})
	}
}

func TestAddClampedDate_PreservesClock(t *testing.T) {
	loc := time.FixedZone("IST", 5*60*60+30*60)
	start := time.Date(2024, time.January, 31, 23, 30, 15, 0, loc)

	got := AddClampedDate(start, 0, 1, 0)
	want := time.Date(2024, time.February, 29, 23, 30, 15, 0, loc)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
