package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wedding-planner-api/internal/listview"
	"github.com/wedding-planner-api/internal/seed"
)

// ScreenInfo describes a mounted screen
type ScreenInfo struct {
	ID       string    `json:"id"`
	Kind     Kind      `json:"kind"`
	LastUsed time.Time `json:"last_used"`
}

// screenService is the concrete implementation of ScreenService
type screenService struct {
	deps      screenDeps
	maxScreen int
	idleTTL   time.Duration
	interval  time.Duration
	gauge     MountGauge
	log       zerolog.Logger

	sessions   SessionReaper
	sessionTTL time.Duration

	mu      sync.RWMutex
	screens map[string]Screen

	runMu   sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// SessionReaper drops client sessions last used before cutoff
type SessionReaper interface {
	Reap(cutoff time.Time) int
}

// MountGauge is told how many screens of a kind are mounted
type MountGauge interface {
	SetMounted(kind string, n int)
}

// ScreenOptions configures the screen registry
type ScreenOptions struct {
	Seed       *seed.Data
	Confirmer  listview.Confirmer
	Observer   listview.Observer
	Gauge      MountGauge
	MaxScreens int
	IdleTTL    time.Duration
	Interval   time.Duration
	Now        func() time.Time
	// Sessions are reaped on the same tick once idle for SessionTTL
	Sessions   SessionReaper
	SessionTTL time.Duration
}

func newScreenService(opts ScreenOptions, log zerolog.Logger) *screenService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Seed == nil {
		opts.Seed = seed.Default()
	}
	if opts.Confirmer == nil {
		opts.Confirmer = listview.RequireAnswer
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}

	log = log.With().Str("service", "screens").Logger()
	return &screenService{
		deps: screenDeps{
			seed:      opts.Seed,
			confirmer: opts.Confirmer,
			observer:  opts.Observer,
			log:       log,
			now:       opts.Now,
		},
		maxScreen: opts.MaxScreens,
		idleTTL:   opts.IdleTTL,
		interval:  opts.Interval,
		gauge:     opts.Gauge,
		log:       log,
		screens:   make(map[string]Screen),

		sessions:   opts.Sessions,
		sessionTTL: opts.SessionTTL,
	}
}

// Mount builds a freshly seeded screen and registers it
func (s *screenService) Mount(kind Kind) (Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxScreen > 0 && len(s.screens) >= s.maxScreen {
		return nil, ErrTooManyScreens
	}

	id := uuid.New().String()
	scr, err := buildScreen(kind, id, s.deps)
	if err != nil {
		return nil, err
	}
	s.screens[id] = scr
	s.updateGauge(kind)

	s.log.Info().Str("screen_id", id).Str("kind", string(kind)).Msg("Screen mounted")
	return scr, nil
}

// Get looks up a mounted screen
func (s *screenService) Get(id string) (Screen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scr, ok := s.screens[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrScreenNotFound, id)
	}
	return scr, nil
}

// Unmount discards a screen and its collection
func (s *screenService) Unmount(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scr, ok := s.screens[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrScreenNotFound, id)
	}
	delete(s.screens, id)
	s.updateGauge(scr.Kind())

	s.log.Info().Str("screen_id", id).Str("kind", string(scr.Kind())).Msg("Screen unmounted")
	return nil
}

// List describes every mounted screen, most recently used first
func (s *screenService) List() []ScreenInfo {
	s.mu.RLock()
	out := make([]ScreenInfo, 0, len(s.screens))
	for _, scr := range s.screens {
		out = append(out, ScreenInfo{ID: scr.ID(), Kind: scr.Kind(), LastUsed: scr.LastUsed()})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastUsed.After(out[j].LastUsed)
	})
	return out
}

// Reap unmounts screens idle for longer than the TTL. It returns how many
// were removed.
func (s *screenService) Reap() int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := s.deps.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	reaped := 0
	kinds := make(map[Kind]bool)
	for id, scr := range s.screens {
		if scr.LastUsed().Before(cutoff) {
			delete(s.screens, id)
			kinds[scr.Kind()] = true
			reaped++
		}
	}
	for kind := range kinds {
		s.updateGauge(kind)
	}

	if reaped > 0 {
		s.log.Info().Int("count", reaped).Msg("Idle screens unmounted")
	}
	return reaped
}

// StartReaper launches the loop that unmounts idle screens and drops idle
// sessions on every tick until ctx is cancelled or StopReaper is called. It
// returns once the loop is registered, so StopReaper may follow at once.
func (s *screenService) StartReaper(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.running {
		return
	}
	s.running = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	s.log.Info().Dur("idle_ttl", s.idleTTL).Dur("session_ttl", s.sessionTTL).Msg("Reaper started")
	go s.reapLoop(ctx, s.done)
}

func (s *screenService) reapLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("Reaper stopping")
			return
		case <-ticker.C:
			s.Reap()
			s.reapSessions()
		}
	}
}

// reapSessions drops sessions idle for longer than the session TTL
func (s *screenService) reapSessions() {
	if s.sessions == nil || s.sessionTTL <= 0 {
		return
	}
	s.sessions.Reap(s.deps.now().Add(-s.sessionTTL))
}

// StopReaper stops the reaper and waits for it to exit
func (s *screenService) StopReaper() {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	<-s.done
	s.running = false
	s.log.Info().Msg("Reaper stopped")
}

// updateGauge reports the mounted count of kind. Callers hold mu.
func (s *screenService) updateGauge(kind Kind) {
	if s.gauge == nil {
		return
	}
	n := 0
	for _, scr := range s.screens {
		if scr.Kind() == kind {
			n++
		}
	}
	s.gauge.SetMounted(string(kind), n)
}
