package config

import (
	"testing"
	"time"
)

func TestLoadBusinessDefaults(t *testing.T) {
	for _, k := range []string{"BUSINESS_OPEN_HOUR", "BUSINESS_CLOSE_HOUR", "SLOT_STEP_MIN", "BUSINESS_TZ", "BOOKING_PER_STAFF"} {
		t.Setenv(k, "")
	}
	b := LoadBusiness()
	if b.OpenHour != 9 || b.CloseHour != 19 || b.StepMinutes != 30 || !b.PerStaff || b.Timezone != "Europe/Budapest" {
		t.Fatalf("defaults = %+v", b)
	}
	t.Setenv("BOOKING_PER_STAFF", "false")
	t.Setenv("SLOT_STEP_MIN", "15")
	b = LoadBusiness()
	if b.PerStaff || b.StepMinutes != 15 {
		t.Fatalf("overrides = %+v", b)
	}
}

func TestRateLimitNormalized(t *testing.T) {
	c := RateLimitConfig{Capacity: 0, RefillTokens: 0, RefillInterval: 0, TTL: 0}.normalized()
	if c.Capacity != 1 || c.RefillTokens != 1 || c.RefillInterval != time.Second || c.TTL != 5*time.Second {
		t.Fatalf("normalized = %+v", c)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" https://a.hu , ,https://b.hu")
	if len(got) != 2 || got[0] != "https://a.hu" || got[1] != "https://b.hu" {
		t.Fatalf("splitList = %q", got)
	}
}
