package config

import (
	"testing"
	"time"
)

func TestCurrentDay(t *testing.T) {
	campaign := CampaignConfig{StartDate: "2026-02-17", LengthDays: 30}

	cases := []struct {
		name string
		now  string
		want int
	}{
		{"before start", "2026-02-10T12:00:00Z", 0},
		{"first day", "2026-02-17T05:00:00Z", 1},
		{"mid campaign", "2026-02-26T23:00:00Z", 10},
		{"last day", "2026-03-18T12:00:00Z", 30},
		{"after end", "2026-04-01T00:00:00Z", 30},
	}
	for _, tc := range cases {
		now, err := time.Parse(time.RFC3339, tc.now)
		if err != nil {
			t.Fatal(err)
		}
		got, err := campaign.CurrentDay(now)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got day %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestCurrentDayBadStartDate(t *testing.T) {
	campaign := CampaignConfig{StartDate: "17-02-2026", LengthDays: 30}
	if _, err := campaign.CurrentDay(time.Now()); err == nil {
		t.Fatal("malformed startDate must be an error")
	}
}

func TestSessionTTL(t *testing.T) {
	auth := AuthConfig{SessionTTLHours: 48}
	if got := auth.SessionTTL(); got != 48*time.Hour {
		t.Fatalf("got %v, want 48h", got)
	}
}
