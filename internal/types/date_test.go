package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestElapsedBillingMonths(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{
			name: "two whole months",
			from: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
			want: 2,
		},
		{
			name: "same day floors to one",
			from: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "day of month ignored",
			from: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "across year boundary",
			from: time.Date(2023, 11, 10, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ElapsedBillingMonths(tt.from, tt.to))
		})
	}
}

func TestAddBillingMonths(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), AddBillingMonths(start, 2))
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), AddBillingMonths(start, 1))
}

func TestCancellationDate(t *testing.T) {
	// startDate 2024-01-15, cancelled 2024-03-20: two whole months elapsed,
	// so the cancellation lands on 2024-03-15
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	months := ElapsedBillingMonths(start, now)
	assert.Equal(t, 2, months)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), AddBillingMonths(start, months))

	// Cancelling the day the period starts still buys one full cycle
	sameDay := ElapsedBillingMonths(start, start)
	assert.Equal(t, 1, sameDay)
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), AddBillingMonths(start, sameDay))
}
