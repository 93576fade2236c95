package handlers

import (
	"errors"
	"testing"
	"time"

	"amana.dev/worklog/models"
)

func TestCreateLogRequestToInput(t *testing.T) {
	req := createLogRequest{
		Date:      "2024-03-04",
		Project:   "Site A",
		Employees: []string{"Amir", "Dana"},
		StartTime: "2024-03-04T09:00:00Z",
		EndTime:   "2024-03-04T17:00:00Z",
	}
	in, err := req.toInput()
	if err != nil {
		t.Fatalf("toInput: %v", err)
	}
	if !in.Date.Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", in.Date)
	}
	if !in.EndTime.Equal(time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC)) {
		t.Errorf("endTime = %v", in.EndTime)
	}
}

func TestCreateLogRequestToInputMalformedTimes(t *testing.T) {
	tests := []struct {
		name  string
		req   createLogRequest
		field string
	}{
		{"bad date", createLogRequest{Date: "04/03/2024"}, "date"},
		{"bad start time", createLogRequest{StartTime: "nine am"}, "startTime"},
		{"bad end time", createLogRequest{EndTime: "2024-03-04 17:00"}, "endTime"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.toInput()
			var v *models.ValidationError
			if !errors.As(err, &v) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if v.Field != tt.field {
				t.Errorf("field = %q, expected %q", v.Field, tt.field)
			}
		})
	}
}

func TestCreateLogRequestToInputAbsentTimes(t *testing.T) {
	// Absent fields stay zero so the required-field validation names
	// them rather than an "invalid" message.
	in, err := createLogRequest{Project: "Site A"}.toInput()
	if err != nil {
		t.Fatalf("toInput: %v", err)
	}
	if !in.Date.IsZero() || !in.StartTime.IsZero() || !in.EndTime.IsZero() {
		t.Error("absent time fields must stay zero")
	}
}
