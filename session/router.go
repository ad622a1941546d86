package session

import "sync"

const (
	RouteDashboard = "/"
	RouteDrivers   = "/drivers"
	RouteTeams     = "/teams"
	RouteRaces     = "/races"
	RouteCircuits  = "/circuits"
	RouteLogin     = "/login"
)

type Navigator interface {
	Navigate(route string)
}

// Router tracks the active view. It starts at the dashboard.
type Router struct {
	mu      sync.Mutex
	current string
	history []string
}

func NewRouter() *Router {
	return &Router{current: RouteDashboard}
}

func (r *Router) Navigate(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if route == r.current {
		return
	}
	r.history = append(r.history, r.current)
	r.current = route
}

func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Back returns to the previous route. It reports false when there is none.
func (r *Router) Back() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return false
	}
	r.current = r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	return true
}
