package scenes

import (
	"fmt"
	"maps"
	"sync"

	"github.com/sirupsen/logrus"
)

// Router is the headless Navigator. It remembers the current view and logs a
// summary line when a game ends.
type Router struct {
	mu     sync.Mutex
	view   string
	params map[string]string
	visits int
	log    logrus.FieldLogger
}

// NewRouter returns a Router with no current view.
func NewRouter(log logrus.FieldLogger) *Router {
	return &Router{log: log.WithField("component", "navigator")}
}

func (r *Router) NavigateTo(view string, params map[string]string) {
	r.mu.Lock()
	r.view = view
	r.params = maps.Clone(params)
	r.visits++
	r.mu.Unlock()

	fields := logrus.Fields{"view": view}
	for k, v := range params {
		fields[k] = v
	}
	r.log.WithFields(fields).Info("[navigator] navigate")
	if view == ViewGameEnd {
		r.log.Info("[navigator] " + GameOverSummary(params))
	}
}

// Current returns the last view navigated to and a copy of its params.
func (r *Router) Current() (string, map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view, maps.Clone(r.params)
}

// Visits counts navigations.
func (r *Router) Visits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visits
}

// GameOverSummary renders the params of a GameEnd navigation as one line.
func GameOverSummary(params map[string]string) string {
	role := params["winningRole"]
	if role == "" {
		role = "nobody"
	}
	return fmt.Sprintf("game over in lobby %s: %s won after %ss, %s kcal collected",
		params["lobbyId"], role, orZero(params["timePlayed"]), orZero(params["kcalCollected"]))
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
