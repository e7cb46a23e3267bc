// Package store holds the two client-side state containers: the App store
// (suggestions, stats, filters and the action protocol) and the Auth store
// (session state). Each is constructed once and passed by handle.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/HammerMeetNail/suggestly/internal/api"
	"github.com/HammerMeetNail/suggestly/internal/logging"
	"github.com/HammerMeetNail/suggestly/internal/metrics"
	"github.com/HammerMeetNail/suggestly/internal/models"
	"github.com/HammerMeetNail/suggestly/internal/services"
)

type Action string

const (
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionPostpone Action = "postpone"
	ActionExecute  Action = "execute"
)

// DefaultPostpone is used when a postpone carries no resume time.
const DefaultPostpone = 24 * time.Hour

// ActionData carries the optional inputs of an action.
type ActionData struct {
	Reason string    // reject
	Until  time.Time // postpone; zero means DefaultPostpone from now
}

// ActionResult is the outcome of HandleSuggestionAction. Exactly one of
// Response and Err is set.
type ActionResult struct {
	OK       bool
	Response *models.InteractResponse
	Err      error
	Message  string // user-facing failure text
}

type Loading struct {
	Suggestions bool
	Stats       bool
}

// AppState is a read-only copy of the App store's state.
type AppState struct {
	Suggestions []models.Suggestion
	Stats       *models.Stats
	Loading     Loading
	Filters     models.Filters
}

// LoadObserver is told how each load ended.
type LoadObserver interface {
	ObserveLoad(concern, outcome string)
}

type concern int

const (
	concernSuggestions concern = iota
	concernStats
	concernCount
)

func (c concern) String() string {
	if c == concernStats {
		return "stats"
	}
	return "suggestions"
}

var errLoadAborted = errors.New("load aborted")

type AppStore struct {
	suggestions services.SuggestionServiceInterface
	analytics   services.AnalyticsServiceInterface
	logger      *logging.Logger
	observer    LoadObserver
	now         func() time.Time

	mu       sync.Mutex
	state    AppState
	inflight [concernCount]int
	latest   [concernCount]uint64

	subMu   sync.Mutex
	subs    map[int]func(AppState)
	nextSub int
}

type AppOption func(*AppStore)

func WithAppLogger(logger *logging.Logger) AppOption {
	return func(s *AppStore) { s.logger = logger }
}

func WithLoadObserver(o LoadObserver) AppOption {
	return func(s *AppStore) { s.observer = o }
}

func NewAppStore(suggestions services.SuggestionServiceInterface, analytics services.AnalyticsServiceInterface, opts ...AppOption) *AppStore {
	s := &AppStore{
		suggestions: suggestions,
		analytics:   analytics,
		now:         time.Now,
		state: AppState{
			Suggestions: []models.Suggestion{},
			Filters:     models.DefaultFilters(),
		},
		subs: make(map[int]func(AppState)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Default
	}
	s.logger = s.logger.WithComponent("app_store")
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *AppStore) Snapshot() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *AppStore) snapshotLocked() AppState {
	snap := s.state
	if s.state.Suggestions != nil {
		snap.Suggestions = make([]models.Suggestion, len(s.state.Suggestions))
		for i, sg := range s.state.Suggestions {
			snap.Suggestions[i] = sg.Clone()
		}
	}
	snap.Stats = s.state.Stats.Clone()
	return snap
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn may be called from several goroutines at once.
func (s *AppStore) Subscribe(fn func(AppState)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *AppStore) notify(snap AppState) {
	s.subMu.Lock()
	fns := make([]func(AppState), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// LoadSuggestions fetches the collection for the current filters and
// replaces it wholesale. On failure the prior collection stays visible.
// A response is applied only if no newer load was issued meanwhile.
func (s *AppStore) LoadSuggestions(ctx context.Context) (err error) {
	gen, filters := s.begin(concernSuggestions)
	var apply func(*AppState)
	err = errLoadAborted
	defer func() { s.settle(concernSuggestions, gen, apply, err) }()

	items, err := s.suggestions.List(ctx, filters)
	if err != nil {
		return err
	}
	if items == nil {
		items = []models.Suggestion{}
	}
	apply = func(st *AppState) { st.Suggestions = items }
	return nil
}

// LoadStats replaces the stats snapshot under the same rules as
// LoadSuggestions.
func (s *AppStore) LoadStats(ctx context.Context) (err error) {
	gen, _ := s.begin(concernStats)
	var apply func(*AppState)
	err = errLoadAborted
	defer func() { s.settle(concernStats, gen, apply, err) }()

	stats, err := s.analytics.DashboardStats(ctx)
	if err != nil {
		return err
	}
	apply = func(st *AppState) { st.Stats = stats }
	return nil
}

// Refresh reloads suggestions and stats concurrently.
func (s *AppStore) Refresh(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.LoadSuggestions(ctx) })
	g.Go(func() error { return s.LoadStats(ctx) })
	return g.Wait()
}

func (s *AppStore) begin(c concern) (uint64, models.Filters) {
	s.mu.Lock()
	s.latest[c]++
	gen := s.latest[c]
	s.inflight[c]++
	s.setLoadingLocked(c)
	filters := s.state.Filters
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return gen, filters
}

// settle releases the load's hold on the loading flag exactly once and
// applies the result if it is still the latest for its concern.
func (s *AppStore) settle(c concern, gen uint64, apply func(*AppState), err error) {
	s.mu.Lock()
	s.inflight[c]--
	s.setLoadingLocked(c)

	outcome := metrics.OutcomeApplied
	switch {
	case err != nil:
		outcome = metrics.OutcomeFailed
	case gen != s.latest[c]:
		outcome = metrics.OutcomeSuperseded
	default:
		apply(&s.state)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	switch outcome {
	case metrics.OutcomeFailed:
		s.logger.Error(fmt.Sprintf("Failed to load %s", c), map[string]interface{}{"error": err.Error()})
	case metrics.OutcomeSuperseded:
		s.logger.Debug(fmt.Sprintf("Discarded superseded %s response", c), map[string]interface{}{"generation": gen})
	}
	if s.observer != nil {
		s.observer.ObserveLoad(c.String(), outcome)
	}
	s.notify(snap)
}

func (s *AppStore) setLoadingLocked(c concern) {
	busy := s.inflight[c] > 0
	if c == concernStats {
		s.state.Loading.Stats = busy
	} else {
		s.state.Loading.Suggestions = busy
	}
}

// UpdateFilters merges patch into the filter set and reloads suggestions and
// stats. A value outside its enum is rejected and nothing changes.
func (s *AppStore) UpdateFilters(ctx context.Context, patch models.FilterPatch) error {
	if patch.Empty() {
		return nil
	}

	s.mu.Lock()
	next, err := s.state.Filters.Apply(patch)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state.Filters = next
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	_ = s.Refresh(ctx) // failures are logged by the loads
	return nil
}

// HandleSuggestionAction performs the mutation and, on success, a full
// refresh of suggestions and stats before returning. It never returns an
// error; an unknown action is a caller defect and panics.
func (s *AppStore) HandleSuggestionAction(ctx context.Context, id uuid.UUID, action Action, data ActionData) ActionResult {
	var call func() (*models.InteractResponse, error)
	switch action {
	case ActionAccept:
		call = func() (*models.InteractResponse, error) { return s.suggestions.Accept(ctx, id) }
	case ActionReject:
		call = func() (*models.InteractResponse, error) { return s.suggestions.Reject(ctx, id, data.Reason) }
	case ActionPostpone:
		until := data.Until
		if until.IsZero() {
			until = s.now().Add(DefaultPostpone)
		}
		call = func() (*models.InteractResponse, error) { return s.suggestions.Postpone(ctx, id, until) }
	case ActionExecute:
		call = func() (*models.InteractResponse, error) { return s.suggestions.Execute(ctx, id) }
	default:
		panic(fmt.Sprintf("store: unknown suggestion action %q", action))
	}

	resp, err := call()
	if err != nil {
		s.logger.Warn("Suggestion action failed", map[string]interface{}{
			"suggestion_id": id.String(),
			"action":        string(action),
			"error":         err.Error(),
		})
		return ActionResult{Err: err, Message: api.Message(err, fmt.Sprintf("Failed to %s suggestion", action))}
	}

	_ = s.Refresh(ctx)
	return ActionResult{OK: true, Response: resp}
}
