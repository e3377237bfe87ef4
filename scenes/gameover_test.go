package scenes

import (
	"testing"

	"github.com/automoto/snackman-client/logger"
)

func TestRouterTracksCurrentView(t *testing.T) {
	r := NewRouter(logger.Discard())
	if view, _ := r.Current(); view != "" {
		t.Fatalf("initial view = %q", view)
	}

	params := map[string]string{"winningRole": "GHOST", "timePlayed": "30", "kcalCollected": "5", "lobbyId": "L1"}
	r.NavigateTo(ViewGameEnd, params)
	params["winningRole"] = "changed"

	view, got := r.Current()
	if view != ViewGameEnd || got["winningRole"] != "GHOST" {
		t.Fatalf("current = %q %v", view, got)
	}
	got["lobbyId"] = "mutated"
	if _, again := r.Current(); again["lobbyId"] != "L1" {
		t.Error("Current exposed internal params")
	}
	if r.Visits() != 1 {
		t.Errorf("visits = %d", r.Visits())
	}
}

func TestGameOverSummary(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		want   string
	}{
		{
			name:   "full",
			params: map[string]string{"winningRole": "SNACKMAN", "timePlayed": "90", "kcalCollected": "1200", "lobbyId": "L9"},
			want:   "game over in lobby L9: SNACKMAN won after 90s, 1200 kcal collected",
		},
		{
			name:   "missing fields",
			params: map[string]string{"lobbyId": "L1"},
			want:   "game over in lobby L1: nobody won after 0s, 0 kcal collected",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GameOverSummary(tt.params); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
