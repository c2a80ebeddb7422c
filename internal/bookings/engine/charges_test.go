package engine

import (
	"testing"
	"time"
)

func TestComputeOvertime(t *testing.T) {
	planned := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	grace := 15 * time.Minute

	tests := []struct {
		name        string
		actual      time.Time
		rate        float64
		seats       int
		wantHours   int
		wantAmount  float64
		wantInGrace bool
	}{
		{
			name:        "on time",
			actual:      planned,
			rate:        150,
			seats:       1,
			wantInGrace: true,
		},
		{
			name:        "exactly at grace boundary",
			actual:      planned.Add(15 * time.Minute),
			rate:        150,
			seats:       1,
			wantInGrace: true,
		},
		{
			name:       "one second past grace charges a full hour",
			actual:     planned.Add(15*time.Minute + time.Second),
			rate:       150,
			seats:      1,
			wantHours:  1,
			wantAmount: 150,
		},
		{
			name:       "ninety minutes past grace charges two hours",
			actual:     planned.Add(15*time.Minute + 90*time.Minute),
			rate:       150,
			seats:      1,
			wantHours:  2,
			wantAmount: 300,
		},
		{
			name:       "charge scales with seats",
			actual:     planned.Add(15*time.Minute + 30*time.Minute),
			rate:       100,
			seats:      4,
			wantHours:  1,
			wantAmount: 400,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeOvertime(planned, tt.actual, grace, tt.rate, tt.seats)
			if got.WithinGrace != tt.wantInGrace {
				t.Errorf("WithinGrace = %v, want %v", got.WithinGrace, tt.wantInGrace)
			}
			if got.Hours != tt.wantHours {
				t.Errorf("Hours = %d, want %d", got.Hours, tt.wantHours)
			}
			if got.Amount != tt.wantAmount {
				t.Errorf("Amount = %.2f, want %.2f", got.Amount, tt.wantAmount)
			}
		})
	}
}

// A 09:00-17:00 stay with a 15 minute grace period and a 150/hr overtime
// rate where the guest leaves at 19:05 owes two overtime hours, 300 total.
func TestComputeOvertimeLateCheckoutScenario(t *testing.T) {
	planned := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	actual := time.Date(2026, 3, 10, 19, 5, 0, 0, time.UTC)

	got := ComputeOvertime(planned, actual, 15*time.Minute, 150, 1)
	if got.WithinGrace {
		t.Fatal("WithinGrace = true, want an overtime charge")
	}
	if got.Hours != 2 || got.Amount != 300 {
		t.Errorf("got %d hours / %.2f, want 2 hours / 300.00", got.Hours, got.Amount)
	}
}

func TestComputeRefund(t *testing.T) {
	checkIn := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	total := 1000.0

	tests := []struct {
		name       string
		notice     time.Duration
		wantFrac   float64
		wantAmount float64
	}{
		{"48 hours out", 48 * time.Hour, 0.80, 800},
		{"exactly 24 hours out", 24 * time.Hour, 0.80, 800},
		{"23h59m out", 24*time.Hour - time.Minute, 0.50, 500},
		{"exactly 12 hours out", 12 * time.Hour, 0.50, 500},
		{"6 hours out", 6 * time.Hour, 0.25, 250},
		{"exactly 4 hours out", 4 * time.Hour, 0.25, 250},
		{"3h59m out", 4*time.Hour - time.Minute, 0, 0},
		{"after check-in", -time.Hour, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRefund(checkIn, checkIn.Add(-tt.notice), total)
			if got.Fraction != tt.wantFrac {
				t.Errorf("Fraction = %.2f, want %.2f", got.Fraction, tt.wantFrac)
			}
			if got.Amount != tt.wantAmount {
				t.Errorf("Amount = %.2f, want %.2f", got.Amount, tt.wantAmount)
			}
		})
	}
}

func TestComputeRefundRoundsToCents(t *testing.T) {
	checkIn := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	got := ComputeRefund(checkIn, checkIn.Add(-48*time.Hour), 99.99)
	if got.Amount != 79.99 {
		t.Errorf("Amount = %v, want 79.99", got.Amount)
	}
}

func TestCapRefund(t *testing.T) {
	tests := []struct {
		name      string
		requested float64
		total     float64
		want      float64
	}{
		{"within total", 250, 1000, 250},
		{"equal to total", 1000, 1000, 1000},
		{"over total is capped", 1500, 1000, 1000},
		{"negative becomes zero", -10, 1000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CapRefund(tt.requested, tt.total); got != tt.want {
				t.Errorf("CapRefund(%.2f, %.2f) = %.2f, want %.2f", tt.requested, tt.total, got, tt.want)
			}
		})
	}
}
