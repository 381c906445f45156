package connect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/speedreader/internal/app/notification"
	"github.com/osa030/speedreader/internal/app/reader"
	"github.com/osa030/speedreader/internal/infra/config"
)

// manualClock never fires, so playback stays at the position set by the test.
type manualClock struct{}

func (manualClock) ScheduleOnce(time.Duration, func()) func() {
	return func() {}
}

type testServer struct {
	client  *ReaderServiceClient
	session *reader.Session
	notif   *notification.Manager
}

func newTestServer(t *testing.T, cfg *config.Config, opts ...connect.ClientOption) *testServer {
	t.Helper()

	notif := notification.NewManager()
	session := reader.NewSession(reader.Config{
		InitialRate: 500,
		EventBuffer: 256,
		Clock:       manualClock{},
	}, notif)
	session.Start()

	mux := http.NewServeMux()
	path, handler := NewReaderServiceHandler(NewReaderService(session, notif), cfg)
	mux.Handle(path, handler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	// Closing the session first ends open subscriptions.
	t.Cleanup(session.Close)

	return &testServer{
		client:  NewReaderServiceClient(server.Client(), server.URL, opts...),
		session: session,
		notif:   notif,
	}
}

func TestReaderService_LoadAndGetStatus(t *testing.T) {
	ts := newTestServer(t, nil)
	ctx := context.Background()

	status, err := ts.client.Load(ctx, "Greeting", "Hello world.\n\nEnd")
	require.NoError(t, err)
	assert.Equal(t, "Greeting", status.Title)
	assert.Equal(t, 3, status.WordCount)
	assert.Equal(t, 4, status.Total)
	assert.Equal(t, 0, status.Index)
	assert.Equal(t, "idle", status.State)
	assert.Equal(t, "Hello", status.Word)
	assert.Equal(t, 500, status.Rate)
	assert.Equal(t, ts.session.ID(), status.SessionID)

	got, err := ts.client.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, status, got)
}

func TestReaderService_Controls(t *testing.T) {
	ts := newTestServer(t, nil)
	ctx := context.Background()

	_, err := ts.client.Load(ctx, "", "one two three four five")
	require.NoError(t, err)

	tests := []struct {
		name      string
		call      func() (Status, error)
		wantState string
		wantRate  int
		wantIndex int
	}{
		{"play", func() (Status, error) { return ts.client.Play(ctx) }, "playing", 500, 0},
		{"toggle pauses", func() (Status, error) { return ts.client.Toggle(ctx) }, "paused", 500, 0},
		{"toggle resumes", func() (Status, error) { return ts.client.Toggle(ctx) }, "playing", 500, 0},
		{"faster", func() (Status, error) { return ts.client.IncreaseRate(ctx) }, "playing", 550, 0},
		{"slower", func() (Status, error) { return ts.client.DecreaseRate(ctx) }, "playing", 500, 0},
		{"set rate rounds", func() (Status, error) { return ts.client.SetRate(ctx, 777) }, "playing", 800, 0},
		{"set rate clamps", func() (Status, error) { return ts.client.SetRate(ctx, 5) }, "playing", 50, 0},
		{"seek end", func() (Status, error) { return ts.client.Seek(ctx, 1) }, "playing", 50, 4},
		{"seek middle", func() (Status, error) { return ts.client.Seek(ctx, 0.5) }, "playing", 50, 2},
		{"pause", func() (Status, error) { return ts.client.Pause(ctx) }, "paused", 50, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := tt.call()
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, status.State)
			assert.Equal(t, tt.wantRate, status.Rate)
			assert.Equal(t, tt.wantIndex, status.Index)
		})
	}
}

func TestReaderService_LoadRejectsInvalidArticle(t *testing.T) {
	ts := newTestServer(t, nil)

	_, err := ts.client.Load(context.Background(), strings.Repeat("t", 2000), "text")
	require.Error(t, err)
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestReaderService_AuthToken(t *testing.T) {
	cfg := &config.Config{Auth: config.AuthConfig{Token: "secret"}}
	ctx := context.Background()

	t.Run("missing token", func(t *testing.T) {
		ts := newTestServer(t, cfg)
		_, err := ts.client.Play(ctx)
		require.Error(t, err)
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

		// Status stays readable.
		_, err = ts.client.GetStatus(ctx)
		assert.NoError(t, err)
	})

	t.Run("wrong token", func(t *testing.T) {
		ts := newTestServer(t, cfg, connect.WithInterceptors(NewTokenInterceptor("guess")))
		_, err := ts.client.Load(ctx, "", "words")
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("valid token", func(t *testing.T) {
		ts := newTestServer(t, cfg, connect.WithInterceptors(NewTokenInterceptor("secret")))
		_, err := ts.client.Load(ctx, "", "words")
		require.NoError(t, err)
		status, err := ts.client.Play(ctx)
		require.NoError(t, err)
		assert.Equal(t, "playing", status.State)
	})
}

func TestReaderService_Subscribe(t *testing.T) {
	ts := newTestServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *notification.Notification, 64)
	go func() {
		_ = ts.client.Subscribe(ctx, func(n *notification.Notification) error {
			received <- n
			return nil
		})
	}()

	initial := receive(t, received)
	assert.Equal(t, notification.TypeInitialState, initial.Type)
	assert.Equal(t, "idle", initial.State)
	assert.Equal(t, 500, initial.Rate)
	assert.Equal(t, ts.session.ID(), initial.SessionID)

	require.Eventually(t, func() bool { return ts.notif.SubscriberCount() == 1 }, time.Second, 5*time.Millisecond)

	_, err := ts.client.Load(ctx, "News", "Read this")
	require.NoError(t, err)

	var types []notification.Type
	var word *notification.Notification
	for i := 0; i < 4; i++ {
		n := receive(t, received)
		types = append(types, n.Type)
		if n.Type == notification.TypeWord {
			word = n
		}
		assert.Greater(t, n.SequenceNo, initial.SequenceNo)
	}

	assert.Equal(t, []notification.Type{
		notification.TypeState,
		notification.TypeRate,
		notification.TypeWord,
		notification.TypeProgress,
	}, types)
	require.NotNil(t, word)
	assert.Equal(t, "Read", word.Word)
	assert.Equal(t, "R", word.Before)
	assert.Equal(t, "e", word.Focus)
	assert.Equal(t, "ad", word.After)
	assert.Equal(t, "News", word.Title)
	assert.Equal(t, 2, word.Total)

	cancel()
	assert.Eventually(t, func() bool { return ts.notif.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)
}

func receive(t *testing.T, ch <-chan *notification.Notification) *notification.Notification {
	t.Helper()
	select {
	case n := <-ch:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("no notification received")
		return nil
	}
}

func TestStatusFromStruct_Nil(t *testing.T) {
	_, err := StatusFromStruct(nil)
	assert.Error(t, err)

	_, err = NotificationFromStruct(nil)
	assert.Error(t, err)
}
