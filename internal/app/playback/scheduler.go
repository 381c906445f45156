package playback

import (
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/speedreader/internal/app/pacing"
	"github.com/osa030/speedreader/internal/app/progress"
	"github.com/osa030/speedreader/internal/domain/token"
)

// Config holds scheduler configuration.
type Config struct {
	InitialRate int           // Words per minute, clamped to the valid range
	EventBuffer int           // Capacity of the event channel
	Pacer       *pacing.Pacer // Delay rules (default rules when nil)
	Clock       Clock         // Timer source (WallClock when nil)
}

// Snapshot is a point-in-time copy of the playback state.
type Snapshot struct {
	State    State
	Index    int
	Total    int
	Rate     int
	Fraction float64
	Word     string // Current word, empty on a paragraph break
}

// Scheduler owns the token sequence, the position, the rate and the single
// pending timer that advances the position.
//
// All methods are safe for concurrent use; they and the timer callback are
// serialized by one mutex. Every operation is a no-op on an empty sequence.
type Scheduler struct {
	mu sync.Mutex

	// Playback state
	tokens []token.Token
	index  int
	rate   int
	state  State

	// Timer
	timerCancel func() // Cancel function for the pending advance
	generation  uint64 // Identifies the only timer allowed to advance

	clock Clock
	pacer *pacing.Pacer

	// Events
	eventCh chan Event
	closed  bool
}

// NewScheduler creates a new scheduler with no article loaded.
func NewScheduler(config Config) *Scheduler {
	if config.EventBuffer <= 0 {
		config.EventBuffer = 64
	}
	if config.Pacer == nil {
		config.Pacer = pacing.NewPacer(nil)
	}
	if config.Clock == nil {
		config.Clock = WallClock{}
	}

	rate := config.InitialRate
	if rate == 0 {
		rate = pacing.DefaultRate
	}

	return &Scheduler{
		tokens:  make([]token.Token, 0),
		rate:    pacing.ClampRate(rate),
		state:   StateIdle,
		clock:   config.Clock,
		pacer:   config.Pacer,
		eventCh: make(chan Event, config.EventBuffer),
	}
}

// Events returns the event channel. It is closed by Close.
func (s *Scheduler) Events() <-chan Event {
	return s.eventCh
}

// Load replaces the token sequence and resets the position to the first token.
// Any pending timer is cancelled and the state becomes idle. The rate is kept.
func (s *Scheduler) Load(tokens []token.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelTimerLocked()

	s.tokens = append(make([]token.Token, 0, len(tokens)), tokens...)
	s.index = 0
	s.state = StateIdle

	zlog.Debug().Msgf("playback: loaded %d tokens", len(s.tokens))

	s.sendStateLocked()
	s.sendEventLocked(Event{Type: EventRateChanged, Rate: s.rate})
	if len(s.tokens) == 0 || s.tokens[0].IsBreak() {
		s.sendBlankLocked()
	} else {
		s.sendWordLocked()
	}
	s.sendProgressLocked()
}

// Play starts or resumes playback. Playing from the finished state restarts
// at the first token. It does nothing while playing or when nothing is loaded.
func (s *Scheduler) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.playLocked()
}

func (s *Scheduler) playLocked() {
	if s.closed || len(s.tokens) == 0 || s.state == StatePlaying {
		return
	}

	if s.state == StateFinished {
		s.index = 0
		if s.tokens[0].IsBreak() {
			s.sendBlankLocked()
		} else {
			s.sendWordLocked()
		}
		s.sendProgressLocked()
	}

	s.state = StatePlaying
	s.sendStateLocked()
	s.armLocked()
}

// Pause stops advancing without moving the position.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pauseLocked()
}

func (s *Scheduler) pauseLocked() {
	if s.state != StatePlaying {
		return
	}

	s.cancelTimerLocked()
	s.state = StatePaused
	s.sendStateLocked()
}

// Toggle pauses while playing and plays otherwise.
func (s *Scheduler) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StatePlaying {
		s.pauseLocked()
		return
	}
	s.playLocked()
}

// SetRate sets the rate, clamped to the valid range in whole steps.
// While playing, the in-flight delay is discarded and the current token is
// held again for its full delay at the new rate.
func (s *Scheduler) SetRate(rate int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setRateLocked(rate)
}

// IncreaseRate raises the rate by one step.
func (s *Scheduler) IncreaseRate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setRateLocked(s.rate + pacing.RateStep)
}

// DecreaseRate lowers the rate by one step.
func (s *Scheduler) DecreaseRate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setRateLocked(s.rate - pacing.RateStep)
}

func (s *Scheduler) setRateLocked(rate int) {
	s.rate = pacing.ClampRate(rate)
	s.sendEventLocked(Event{Type: EventRateChanged, Rate: s.rate})

	if s.state == StatePlaying && len(s.tokens) > 0 {
		s.armLocked()
	}
}

// Seek moves to the given token index, clamped into range. The state does not
// change and a pending timer keeps its original deadline.
func (s *Scheduler) Seek(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seekLocked(index)
}

// SeekFraction moves to the token nearest to position f (0.0-1.0).
func (s *Scheduler) SeekFraction(f float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seekLocked(progress.FractionToIndex(f, len(s.tokens)))
}

func (s *Scheduler) seekLocked(index int) {
	if len(s.tokens) == 0 {
		return
	}

	s.index = progress.ClampIndex(index, len(s.tokens))
	if !s.tokens[s.index].IsBreak() {
		s.sendWordLocked()
	}
	s.sendProgressLocked()
}

// GetState returns the current playback state.
func (s *Scheduler) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// GetRate returns the current rate in words per minute.
func (s *Scheduler) GetRate() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

// GetIndex returns the current token index.
func (s *Scheduler) GetIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Snapshot returns a copy of the current playback state.
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:    s.state,
		Index:    s.index,
		Total:    len(s.tokens),
		Rate:     s.rate,
		Fraction: progress.IndexToFraction(s.index, len(s.tokens)),
	}
	if len(s.tokens) > 0 && !s.tokens[s.index].IsBreak() {
		snap.Word = s.tokens[s.index].Text
	}
	return snap
}

// Close cancels the pending timer and closes the event channel.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelTimerLocked()
	if !s.closed {
		s.closed = true
		close(s.eventCh)
	}
}

// onTimer is called when an armed timer fires.
func (s *Scheduler) onTimer(generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A cancelled timer may still fire; only the latest one may advance.
	if generation != s.generation || s.state != StatePlaying {
		return
	}
	s.timerCancel = nil

	s.tickLocked()
}

// tickLocked advances to the next token and arms the timer for it.
// Must be called with lock held.
func (s *Scheduler) tickLocked() {
	s.index++

	if s.index > len(s.tokens)-1 {
		s.index = len(s.tokens) - 1
		s.state = StateFinished
		zlog.Debug().Msgf("playback: finished at index %d", s.index)
		s.sendProgressLocked()
		s.sendStateLocked()
		return
	}

	// Paragraph breaks are a timed pause: the previous word stays on screen.
	if !s.tokens[s.index].IsBreak() {
		s.sendWordLocked()
	}
	s.sendProgressLocked()
	s.armLocked()
}

// armLocked replaces any pending timer with one for the current token.
// Must be called with lock held.
func (s *Scheduler) armLocked() {
	s.cancelTimerLocked()
	if s.closed {
		return
	}

	current := s.tokens[s.index]
	delay, rule := s.pacer.Explain(current, s.rate)
	generation := s.generation

	s.timerCancel = s.clock.ScheduleOnce(delay, func() {
		s.onTimer(generation)
	})

	if e := zlog.Debug(); e.Enabled() {
		e.Msgf("playback: armed timer: index=%d token=%q rule=%s delay=%v",
			s.index, current.String(), rule, delay.Round(time.Millisecond))
	}
}

// cancelTimerLocked cancels the pending timer and invalidates its callback.
// Must be called with lock held.
func (s *Scheduler) cancelTimerLocked() {
	if s.timerCancel != nil {
		s.timerCancel()
		s.timerCancel = nil
	}
	s.generation++
}

func (s *Scheduler) sendStateLocked() {
	s.sendEventLocked(Event{Type: EventStateChanged, State: s.state})
}

func (s *Scheduler) sendWordLocked() {
	word := s.tokens[s.index].Text
	before, focus, after := pacing.Split(word)
	s.sendEventLocked(Event{
		Type:   EventWordChanged,
		Word:   word,
		Before: before,
		Focus:  focus,
		After:  after,
	})
}

func (s *Scheduler) sendBlankLocked() {
	s.sendEventLocked(Event{Type: EventWordChanged})
}

func (s *Scheduler) sendProgressLocked() {
	s.sendEventLocked(Event{
		Type:     EventProgress,
		Fraction: progress.IndexToFraction(s.index, len(s.tokens)),
	})
}

// sendEventLocked sends an event without blocking.
// Must be called with lock held.
func (s *Scheduler) sendEventLocked(e Event) {
	if s.closed {
		return
	}

	e.State = s.state
	e.Index = s.index
	e.Total = len(s.tokens)

	select {
	case s.eventCh <- e:
	default:
		zlog.Warn().Msgf("playback: event channel full, dropping %s event", e.Type)
	}
}
