// Package navigation tracks where a client session is in the app: a stack of
// named routes plus the selected bottom tab.
package navigation

import (
	"errors"
	"fmt"
	"sync"
)

// Route names a stack screen
type Route string

const (
	Splash        Route = "Splash"
	SignIn        Route = "SignIn"
	SignUp        Route = "SignUp"
	Setup         Route = "Setup"
	MainTabs      Route = "MainTabs"
	GuestList     Route = "GuestList"
	BudgetTracker Route = "BudgetTracker"
	Timeline      Route = "Timeline"
	PhotoGallery  Route = "PhotoGallery"
	VendorDetail  Route = "VendorDetail"
	Invitation    Route = "Invitation"
)

// Routes are the declared stack routes. Splash is the initial route.
var Routes = map[Route]bool{
	Splash: true, SignIn: true, SignUp: true, Setup: true, MainTabs: true,
	GuestList: true, BudgetTracker: true, Timeline: true, PhotoGallery: true,
	VendorDetail: true, Invitation: true,
}

// Tab names a bottom tab under MainTabs
type Tab string

const (
	TabHome     Tab = "Home"
	TabSearch   Tab = "Search"
	TabPackages Tab = "Packages"
	TabPlanning Tab = "Planning"
	TabProfile  Tab = "Profile"
)

// Tabs lists the bottom tabs in display order
var Tabs = []Tab{TabHome, TabSearch, TabPackages, TabPlanning, TabProfile}

var (
	ErrUnknownRoute = errors.New("unknown route")
	ErrUnknownTab   = errors.New("unknown tab")
	ErrNotOnTabs    = errors.New("tabs are only available under MainTabs")
)

// Entry is one screen on the stack. Params are opaque to the navigator.
type Entry struct {
	Route  Route          `json:"route"`
	Params map[string]any `json:"params,omitempty"`
}

// State is a snapshot of the navigator
type State struct {
	Stack []Entry `json:"stack"`
	Tab   Tab     `json:"tab,omitempty"`
}

// Stack is a navigator. It is safe for concurrent use.
type Stack struct {
	mu      sync.Mutex
	entries []Entry
	tab     Tab
}

// NewStack starts a navigator at the Splash route
func NewStack() *Stack {
	return &Stack{entries: []Entry{{Route: Splash}}}
}

// Navigate goes to route. When the route is already on the stack the
// navigator returns to it, replacing its params; otherwise it is pushed.
func (s *Stack) Navigate(route Route, params map[string]any) error {
	if !Routes[route] {
		return fmt.Errorf("%w: %s", ErrUnknownRoute, route)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Route == route {
			s.entries = s.entries[:i+1]
			s.entries[i].Params = params
			s.syncTab()
			return nil
		}
	}

	s.entries = append(s.entries, Entry{Route: route, Params: params})
	s.syncTab()
	return nil
}

// GoBack pops the current route. It reports false at the root.
func (s *Stack) GoBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) <= 1 {
		return false
	}
	s.entries = s.entries[:len(s.entries)-1]
	s.syncTab()
	return true
}

// Reset replaces the whole stack with route
func (s *Stack) Reset(route Route) error {
	if !Routes[route] {
		return fmt.Errorf("%w: %s", ErrUnknownRoute, route)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = []Entry{{Route: route}}
	s.tab = ""
	s.syncTab()
	return nil
}

// SelectTab switches the bottom tab. The current route must be MainTabs.
func (s *Stack) SelectTab(tab Tab) error {
	known := false
	for _, t := range Tabs {
		if t == tab {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %s", ErrUnknownTab, tab)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entries[len(s.entries)-1].Route != MainTabs {
		return ErrNotOnTabs
	}
	s.tab = tab
	return nil
}

// Current returns the top of the stack
func (s *Stack) Current() Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[len(s.entries)-1]
}

// State returns a copy of the navigator state
func (s *Stack) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)

	state := State{Stack: entries}
	if entries[len(entries)-1].Route == MainTabs {
		state.Tab = s.tab
	}
	return state
}

// syncTab selects Home the first time MainTabs comes on top. Callers hold mu.
func (s *Stack) syncTab() {
	if s.tab == "" && s.entries[len(s.entries)-1].Route == MainTabs {
		s.tab = TabHome
	}
}
