package points_config

import "testing"

func TestNewPointsConfig(t *testing.T) {
	pc := NewPointsConfig()

	want := map[string]int{
		"new_report":      10,
		"confirm_issue":   5,
		"report_resolved": 20,
	}
	for eventType, points := range want {
		if got := pc.EventPoints[eventType]; got != points {
			t.Errorf("EventPoints[%q] = %d, want %d", eventType, got, points)
		}
	}
	if len(pc.EventPoints) != len(want) {
		t.Errorf("len(EventPoints) = %d, want %d", len(pc.EventPoints), len(want))
	}
}
