package api

import (
	"strings"
	"testing"
	"time"
)

func TestValidateEventInput(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)
	past := now.Add(-48 * time.Hour)

	tests := []struct {
		name        string
		eventName   string
		description string
		date        time.Time
		wantErr     string
	}{
		{"valid", "Tech Fest", "Annual technology festival", future, ""},
		{"missing name", "", "desc", future, "name is required"},
		{"name too long", strings.Repeat("a", 101), "desc", future, "cannot exceed 100"},
		{"name at limit", strings.Repeat("a", 100), "desc", future, ""},
		{"missing description", "Tech Fest", "", future, "description is required"},
		{"description too long", "Tech Fest", strings.Repeat("a", 501), future, "cannot exceed 500"},
		{"description at limit", "Tech Fest", strings.Repeat("a", 500), future, ""},
		{"missing date", "Tech Fest", "desc", time.Time{}, "date is required"},
		{"past date", "Tech Fest", "desc", past, "must be in the future"},
		{"date equal to now", "Tech Fest", "desc", now, "must be in the future"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEventInput(tt.eventName, tt.description, tt.date, now)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}
