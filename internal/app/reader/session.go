// Package reader provides the reading session that connects an article,
// the playback scheduler and the presentation layer.
package reader

import (
	"sync"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/speedreader/internal/app/notification"
	"github.com/osa030/speedreader/internal/app/pacing"
	"github.com/osa030/speedreader/internal/app/playback"
	"github.com/osa030/speedreader/internal/domain/article"
)

// Presenter receives display updates. Calls are made from a single goroutine
// in the order the scheduler produced them.
type Presenter interface {
	WordChanged(before, focus, after string)
	Progress(fraction float64)
	RateChanged(rate int)
	StatusChanged(status playback.State)
}

// Config holds session configuration.
type Config struct {
	InitialRate   int
	Abbreviations []string // nil selects the default abbreviations
	EventBuffer   int
	Clock         playback.Clock // nil selects the wall clock
}

// Status is a snapshot of the session.
type Status struct {
	SessionID string
	Title     string
	WordCount int
	playback.Snapshot
}

// Session manages one reader's playback.
type Session struct {
	id           string
	scheduler    *playback.Scheduler
	notification *notification.Manager

	mu         sync.RWMutex
	title      string
	wordCount  int
	presenters []Presenter

	done      chan struct{}
	startOnce sync.Once
}

// NewSession creates a new session. notif may be nil when nobody subscribes remotely.
func NewSession(cfg Config, notif *notification.Manager) *Session {
	return &Session{
		id: uuid.New().String(),
		scheduler: playback.NewScheduler(playback.Config{
			InitialRate: cfg.InitialRate,
			EventBuffer: cfg.EventBuffer,
			Pacer:       pacing.NewPacer(cfg.Abbreviations),
			Clock:       cfg.Clock,
		}),
		notification: notif,
		done:         make(chan struct{}),
	}
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// AddPresenter registers a presenter for display updates.
func (s *Session) AddPresenter(p Presenter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presenters = append(s.presenters, p)
}

// Start starts delivering scheduler events. It is safe to call more than once.
func (s *Session) Start() {
	s.startOnce.Do(func() {
		go s.playbackLoop()
	})
}

// Done returns a channel closed after Close once all events were delivered.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Load replaces the current article and resets playback.
func (s *Session) Load(a article.Article) {
	tokens := a.Tokens()

	s.mu.Lock()
	s.title = a.Title
	s.wordCount = a.WordCount()
	s.mu.Unlock()

	zlog.Info().Msgf("reader: loaded article: title=%q words=%d tokens=%d", a.Title, s.wordCount, len(tokens))
	s.scheduler.Load(tokens)
}

// Play starts or resumes playback.
func (s *Session) Play() { s.scheduler.Play() }

// Pause pauses playback.
func (s *Session) Pause() { s.scheduler.Pause() }

// Toggle switches between playing and paused.
func (s *Session) Toggle() { s.scheduler.Toggle() }

// IncreaseRate raises the rate by one step.
func (s *Session) IncreaseRate() { s.scheduler.IncreaseRate() }

// DecreaseRate lowers the rate by one step.
func (s *Session) DecreaseRate() { s.scheduler.DecreaseRate() }

// SetRate sets the rate; out-of-range values are clamped.
func (s *Session) SetRate(rate int) { s.scheduler.SetRate(rate) }

// SeekFraction moves to a normalized position.
func (s *Session) SeekFraction(f float64) { s.scheduler.SeekFraction(f) }

// Seek moves to a token index.
func (s *Session) Seek(index int) { s.scheduler.Seek(index) }

// Status returns the current session status.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		SessionID: s.id,
		Title:     s.title,
		WordCount: s.wordCount,
		Snapshot:  s.scheduler.Snapshot(),
	}
}

// Close stops playback and releases resources.
func (s *Session) Close() {
	s.scheduler.Close()
	// Without a running loop nobody else would close done.
	s.startOnce.Do(func() {
		close(s.done)
	})
}

// playbackLoop delivers scheduler events until the scheduler is closed.
func (s *Session) playbackLoop() {
	defer func() {
		if r := recover(); r != nil {
			zlog.Error().Msgf("reader: playback loop panicked: %v", r)
			// Restart loop so remaining events are still delivered
			go s.playbackLoop()
			return
		}
		close(s.done)
	}()

	for event := range s.scheduler.Events() {
		s.handlePlaybackEvent(event)
	}
}

// handlePlaybackEvent forwards an event to presenters and subscribers.
func (s *Session) handlePlaybackEvent(event playback.Event) {
	s.mu.RLock()
	presenters := append([]Presenter(nil), s.presenters...)
	title := s.title
	s.mu.RUnlock()

	n := &notification.Notification{
		SessionID: s.id,
		Title:     title,
		State:     event.State.String(),
		Index:     event.Index,
		Total:     event.Total,
	}

	switch event.Type {
	case playback.EventWordChanged:
		for _, p := range presenters {
			p.WordChanged(event.Before, event.Focus, event.After)
		}
		n.Type = notification.TypeWord
		n.Word, n.Before, n.Focus, n.After = event.Word, event.Before, event.Focus, event.After

	case playback.EventProgress:
		for _, p := range presenters {
			p.Progress(event.Fraction)
		}
		n.Type = notification.TypeProgress
		n.Fraction = event.Fraction

	case playback.EventRateChanged:
		for _, p := range presenters {
			p.RateChanged(event.Rate)
		}
		n.Type = notification.TypeRate
		n.Rate = event.Rate

	case playback.EventStateChanged:
		zlog.Debug().Msgf("reader: state changed: %s", event.State)
		for _, p := range presenters {
			p.StatusChanged(event.State)
		}
		n.Type = notification.TypeState

	default:
		return
	}

	if s.notification != nil {
		s.notification.Broadcast(n)
	}
}
