package utils

import (
	"testing"
	"time"
)

func at(day, hour, min int) time.Time {
	return time.Date(2025, 6, day, hour, min, 0, 0, time.UTC)
}

func boolPtr(b bool) *bool { return &b }

func TestComputeWorkRange(t *testing.T) {
	tests := []struct {
		name        string
		start       time.Time
		end         time.Time
		endsNextDay *bool
		wantHours   float64
		wantNextDay bool
		wantErr     bool
	}{
		{
			name:      "plain same-day shift",
			start:     at(10, 8, 0),
			end:       at(10, 17, 0),
			wantHours: 9.0,
		},
		{
			name:      "half hour rounds to one decimal",
			start:     at(10, 8, 0),
			end:       at(10, 16, 30),
			wantHours: 8.5,
		},
		{
			name:      "twenty minutes rounds down",
			start:     at(10, 8, 0),
			end:       at(10, 8, 20),
			wantHours: 0.3,
		},
		{
			name:        "night shift inferred from end before start",
			start:       at(10, 22, 0),
			end:         at(10, 6, 0),
			wantHours:   8.0,
			wantNextDay: true,
		},
		{
			name:        "night shift with end already on next day",
			start:       at(10, 22, 0),
			end:         at(11, 6, 0),
			wantHours:   8.0,
			wantNextDay: true,
		},
		{
			name:        "pinned true rolls a same-day end forward",
			start:       at(10, 8, 0),
			end:         at(10, 6, 0),
			endsNextDay: boolPtr(true),
			wantHours:   22.0,
			wantNextDay: true,
		},
		{
			name:        "pinned true does not double-roll a next-day end",
			start:       at(10, 22, 0),
			end:         at(11, 6, 0),
			endsNextDay: boolPtr(true),
			wantHours:   8.0,
			wantNextDay: true,
		},
		{
			name:        "pinned false with end before start fails",
			start:       at(10, 22, 0),
			end:         at(10, 6, 0),
			endsNextDay: boolPtr(false),
			wantErr:     true,
		},
		{
			name:        "equal instants infer a full day",
			start:       at(10, 8, 0),
			end:         at(10, 8, 0),
			wantHours:   24.0,
			wantNextDay: true,
		},
		{
			name:        "pinned false same-day valid range stays put",
			start:       at(10, 9, 0),
			end:         at(10, 12, 15),
			endsNextDay: boolPtr(false),
			wantHours:   3.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeWorkRange(tt.start, tt.end, tt.endsNextDay)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ComputeWorkRange(%v, %v) expected error, got %+v", tt.start, tt.end, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputeWorkRange(%v, %v) unexpected error: %v", tt.start, tt.end, err)
			}
			if got.Hours != tt.wantHours {
				t.Errorf("hours = %v, expected %v", got.Hours, tt.wantHours)
			}
			if got.EndsNextDay != tt.wantNextDay {
				t.Errorf("endsNextDay = %v, expected %v", got.EndsNextDay, tt.wantNextDay)
			}
			if !got.End.After(got.Start) {
				t.Errorf("canonical end %v is not after start %v", got.End, got.Start)
			}
		})
	}
}

func TestComputeWorkRangeRecomputesInference(t *testing.T) {
	// A shift recorded 08:00-17:00 is same-day. Moving the start to
	// 22:00 without touching the end must flip the inferred flag.
	first, err := ComputeWorkRange(at(10, 8, 0), at(10, 17, 0), nil)
	if err != nil {
		t.Fatal(err)
	}
	if first.EndsNextDay {
		t.Fatal("initial range should not cross midnight")
	}

	second, err := ComputeWorkRange(at(10, 22, 0), first.End, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !second.EndsNextDay {
		t.Error("moving start past the end should infer a next-day end")
	}
	if second.Hours != 19.0 {
		t.Errorf("hours = %v, expected 19.0", second.Hours)
	}
}
