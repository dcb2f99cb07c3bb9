package postgres

import (
	"testing"
	"time"
)

func TestNextOrderTimestamp(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		requested time.Time
		last      time.Time
		want      time.Time
	}{
		{"no previous order", base, time.Time{}, base},
		{"later than previous", base.Add(time.Second), base, base.Add(time.Second)},
		{"same as previous", base, base, base.Add(time.Microsecond)},
		{"clock went backwards", base.Add(-time.Minute), base, base.Add(time.Microsecond)},
		{"sub-microsecond difference", base.Add(500 * time.Nanosecond), base, base.Add(time.Microsecond)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextOrderTimestamp(tt.requested, tt.last)
			if !got.Equal(tt.want) {
				t.Errorf("nextOrderTimestamp() = %v, want %v", got, tt.want)
			}
			if !got.After(tt.last) {
				t.Errorf("timestamp %v is not after %v", got, tt.last)
			}
		})
	}
}

func TestNextOrderTimestampNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("AST", 3*60*60)
	requested := time.Date(2024, 3, 1, 13, 0, 0, 0, loc)

	got := nextOrderTimestamp(requested, time.Time{})
	if got.Location() != time.UTC {
		t.Errorf("expected UTC, got %v", got.Location())
	}
	if !got.Equal(requested) {
		t.Errorf("expected %v, got %v", requested, got)
	}
}
