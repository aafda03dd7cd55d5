package memory

import (
	"log/slog"
	"slices"
)

// Engine is the memory-matching level/state engine.
//
// All methods must be called from the engine's thread (see package docs).
type Engine struct {
	rules     Rules
	sched     Scheduler
	dealer    Dealer
	presenter Presenter
	listeners []Listener
	logger    *slog.Logger

	level    int
	coins    int
	timeLeft int
	phase    Phase

	deck    Deck
	flipped []int
	matched []bool
	nMatch  int

	// generation invalidates scheduled callbacks from earlier levels/sessions.
	generation uint64
	countdown  Timer
	settle     Timer
}

// Option configures an Engine.
type Option func(*Engine)

// WithDealer overrides the default random dealer.
func WithDealer(d Dealer) Option {
	return func(e *Engine) {
		e.dealer = d
	}
}

// WithPresenter sets the presenter that receives frames.
func WithPresenter(p Presenter) Option {
	return func(e *Engine) {
		e.presenter = p
	}
}

// WithListener registers a listener. Listeners are called in registration
// order.
func WithListener(l Listener) Option {
	return func(e *Engine) {
		e.listeners = append(e.listeners, l)
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine creates an engine in the idle phase at level 1.
func NewEngine(rules Rules, sched Scheduler, opts ...Option) *Engine {
	e := &Engine{
		rules:     rules,
		sched:     sched,
		presenter: nopPresenter{},
		logger:    slog.Default(),
		level:     1,
		phase:     PhaseIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.dealer == nil {
		e.dealer = NewRandomDealer(nil)
	}
	return e
}

// AddListener registers a listener after construction.
func (e *Engine) AddListener(l Listener) {
	e.listeners = append(e.listeners, l)
}

// Rules returns the engine's rules.
func (e *Engine) Rules() Rules { return e.rules }

// Level returns the current level.
func (e *Engine) Level() int { return e.level }

// Coins returns the coins earned this session.
func (e *Engine) Coins() int { return e.coins }

// TimeLeft returns the remaining seconds of the current level.
func (e *Engine) TimeLeft() int { return e.timeLeft }

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// Generation returns the current callback generation.
func (e *Engine) Generation() uint64 { return e.generation }

// InitSession resets the engine to level 1 with no coins and cancels any
// pending countdown or settle.
func (e *Engine) InitSession() {
	e.invalidate()
	e.level = 1
	e.coins = 0
	e.timeLeft = 0
	e.deck = nil
	e.flipped = nil
	e.matched = nil
	e.nMatch = 0
	e.phase = PhaseIdle

	e.logger.Debug("session reset", "generation", e.generation)
	e.emit(EventSessionReset, nil)
}

// StartLevel deals a fresh deck for the current level, resets the round and
// starts the countdown.
func (e *Engine) StartLevel() {
	e.invalidate()

	pairs := e.rules.PairCount(e.level)
	symbols := slices.Clone(e.rules.Tokens[:pairs])
	e.deck = e.dealer.Deal(e.level, symbols)
	e.flipped = nil
	e.matched = make([]bool, len(e.deck))
	e.nMatch = 0
	e.timeLeft = e.rules.TimeBudget(e.level)
	e.phase = PhasePlaying

	e.logger.Debug("level started",
		"level", e.level,
		"pairs", pairs,
		"time_left", e.timeLeft,
		"generation", e.generation,
	)
	e.emit(EventLevelStarted, nil)
	e.render()
	e.armCountdown(e.generation)
}

// AdvanceLevel moves to the next level after a level-complete event.
// It returns false (and does nothing) in any other phase.
func (e *Engine) AdvanceLevel() bool {
	if e.phase != PhaseComplete {
		return false
	}
	e.level++
	e.StartLevel()
	return true
}

// Tick counts the level timer down by one second. When it reaches zero the
// countdown stops and a time-expired event is emitted. Ticks outside the
// playing phase are ignored.
func (e *Engine) Tick() {
	if e.phase != PhasePlaying {
		return
	}
	e.timeLeft--
	if e.timeLeft > 0 {
		e.emit(EventTick, nil)
		e.render()
		return
	}

	e.timeLeft = 0
	e.stopCountdown()
	e.phase = PhaseExpired
	e.emit(EventTick, nil)
	e.render()

	e.logger.Info("time expired", "level", e.level, "coins", e.coins)
	e.emit(EventTimeExpired, nil)
}

// Flip turns the card at index face-up. It returns false without changing
// any state when the card is already face-up or matched, when two cards are
// already face-up, when index is out of range, or when no level is being
// played.
func (e *Engine) Flip(index int) bool {
	if e.phase != PhasePlaying {
		return false
	}
	if index < 0 || index >= len(e.deck) {
		return false
	}
	if e.matched[index] || slices.Contains(e.flipped, index) || len(e.flipped) >= 2 {
		e.logger.Debug("flip rejected", "index", index, "flipped", e.flipped)
		return false
	}

	e.flipped = append(e.flipped, index)
	e.emit(EventFlipped, []int{index})

	if len(e.flipped) < 2 {
		e.render()
		return true
	}

	a, b := e.flipped[0], e.flipped[1]
	if e.deck[a].Token != e.deck[b].Token {
		e.emit(EventMismatched, []int{a, b})
		e.render()
		e.armSettle(e.generation)
		return true
	}

	e.matched[a] = true
	e.matched[b] = true
	e.nMatch += 2
	e.coins++
	e.flipped = nil
	e.emit(EventMatched, []int{a, b})
	e.render()

	if e.nMatch == len(e.deck) {
		e.stopCountdown()
		e.phase = PhaseComplete
		e.logger.Info("level complete", "level", e.level, "coins", e.coins)
		e.emit(EventLevelComplete, nil)
	}
	return true
}

// Snapshot returns the current state as a frame.
func (e *Engine) Snapshot() Frame {
	matched := make([]int, 0, e.nMatch)
	for i, ok := range e.matched {
		if ok {
			matched = append(matched, i)
		}
	}
	flipped := slices.Clone(e.flipped)
	if flipped == nil {
		flipped = []int{}
	}
	return Frame{
		Deck:     slices.Clone(e.deck),
		Flipped:  flipped,
		Matched:  matched,
		Level:    e.level,
		Coins:    e.coins,
		TimeLeft: e.timeLeft,
		Phase:    e.phase,
	}
}

// Halt cancels the countdown and any pending settle, leaving the visible
// state as it is. Owners call it when they stop driving the engine.
func (e *Engine) Halt() {
	e.invalidate()
	e.logger.Debug("engine halted", "generation", e.generation)
}

// invalidate advances the generation and stops every armed callback.
func (e *Engine) invalidate() {
	e.generation++
	e.stopCountdown()
	if e.settle != nil {
		e.settle.Stop()
		e.settle = nil
	}
}

func (e *Engine) stopCountdown() {
	if e.countdown != nil {
		e.countdown.Stop()
		e.countdown = nil
	}
}

func (e *Engine) armCountdown(gen uint64) {
	e.countdown = e.sched.AfterFunc(e.rules.Tick, func() {
		if gen != e.generation || e.phase != PhasePlaying {
			return
		}
		e.countdown = nil
		e.Tick()
		if e.phase == PhasePlaying && gen == e.generation {
			e.armCountdown(gen)
		}
	})
}

func (e *Engine) armSettle(gen uint64) {
	e.settle = e.sched.AfterFunc(e.rules.Settle, func() {
		if gen != e.generation {
			e.logger.Debug("stale settle ignored", "generation", gen, "current", e.generation)
			return
		}
		e.settle = nil
		settled := e.flipped
		e.flipped = nil
		e.emit(EventSettled, settled)
		e.render()
	})
}

func (e *Engine) render() {
	e.presenter.Render(e.Snapshot())
}

func (e *Engine) emit(kind EventKind, indices []int) {
	ev := Event{
		Kind:       kind,
		Level:      e.level,
		Coins:      e.coins,
		TimeLeft:   e.timeLeft,
		Indices:    indices,
		Generation: e.generation,
	}
	for _, l := range e.listeners {
		l.OnEvent(ev)
	}
}
