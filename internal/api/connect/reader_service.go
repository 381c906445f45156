package connect

import (
	"context"
	"net/http"
	"slices"
	"sync"

	"connectrpc.com/connect"
	zlog "github.com/rs/zerolog/log"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/osa030/speedreader/internal/app/notification"
	"github.com/osa030/speedreader/internal/app/pacing"
	"github.com/osa030/speedreader/internal/app/reader"
	"github.com/osa030/speedreader/internal/domain/article"
	"github.com/osa030/speedreader/internal/infra/config"
)

// ReaderServiceName is the fully-qualified name of the reader service.
const ReaderServiceName = "speedreader.v1.ReaderService"

// Procedure paths of the reader service.
const (
	LoadProcedure         = "/" + ReaderServiceName + "/Load"
	PlayProcedure         = "/" + ReaderServiceName + "/Play"
	PauseProcedure        = "/" + ReaderServiceName + "/Pause"
	ToggleProcedure       = "/" + ReaderServiceName + "/Toggle"
	IncreaseRateProcedure = "/" + ReaderServiceName + "/IncreaseRate"
	DecreaseRateProcedure = "/" + ReaderServiceName + "/DecreaseRate"
	SetRateProcedure      = "/" + ReaderServiceName + "/SetRate"
	SeekProcedure         = "/" + ReaderServiceName + "/Seek"
	GetStatusProcedure    = "/" + ReaderServiceName + "/GetStatus"
	SubscribeProcedure    = "/" + ReaderServiceName + "/Subscribe"
)

// ReaderService implements the ReaderService RPC.
type ReaderService struct {
	session      *reader.Session
	notification *notification.Manager
}

// NewReaderService creates a new ReaderService.
func NewReaderService(session *reader.Session, notif *notification.Manager) *ReaderService {
	return &ReaderService{
		session:      session,
		notification: notif,
	}
}

// NewReaderServiceHandler builds an HTTP handler serving every procedure of
// the service. When a control token is configured, every procedure except
// GetStatus and Subscribe requires it.
func NewReaderServiceHandler(svc *ReaderService, cfg *config.Config, opts ...connect.HandlerOption) (string, http.Handler) {
	control := opts
	if cfg != nil && cfg.IsAuthEnabled() {
		control = append(slices.Clone(opts), connect.WithInterceptors(NewAuthInterceptor(cfg)))
	}

	mux := http.NewServeMux()
	mux.Handle(LoadProcedure, connect.NewUnaryHandler(LoadProcedure, svc.Load, control...))
	mux.Handle(PlayProcedure, connect.NewUnaryHandler(PlayProcedure, svc.Play, control...))
	mux.Handle(PauseProcedure, connect.NewUnaryHandler(PauseProcedure, svc.Pause, control...))
	mux.Handle(ToggleProcedure, connect.NewUnaryHandler(ToggleProcedure, svc.Toggle, control...))
	mux.Handle(IncreaseRateProcedure, connect.NewUnaryHandler(IncreaseRateProcedure, svc.IncreaseRate, control...))
	mux.Handle(DecreaseRateProcedure, connect.NewUnaryHandler(DecreaseRateProcedure, svc.DecreaseRate, control...))
	mux.Handle(SetRateProcedure, connect.NewUnaryHandler(SetRateProcedure, svc.SetRate, control...))
	mux.Handle(SeekProcedure, connect.NewUnaryHandler(SeekProcedure, svc.Seek, control...))
	mux.Handle(GetStatusProcedure, connect.NewUnaryHandler(GetStatusProcedure, svc.GetStatus, opts...))
	mux.Handle(SubscribeProcedure, connect.NewServerStreamHandler(SubscribeProcedure, svc.Subscribe, opts...))

	return "/" + ReaderServiceName + "/", mux
}

// Load replaces the article. The request carries {"title": ..., "text": ...}.
func (s *ReaderService) Load(
	ctx context.Context,
	req *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	a, err := article.FromPreloaded(req.Msg.AsMap())
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	s.session.Load(a)
	return s.status()
}

// Play starts or resumes playback.
func (s *ReaderService) Play(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	s.session.Play()
	return s.status()
}

// Pause pauses playback.
func (s *ReaderService) Pause(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	s.session.Pause()
	return s.status()
}

// Toggle switches between playing and paused.
func (s *ReaderService) Toggle(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	s.session.Toggle()
	return s.status()
}

// IncreaseRate raises the rate by one step.
func (s *ReaderService) IncreaseRate(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	s.session.IncreaseRate()
	return s.status()
}

// DecreaseRate lowers the rate by one step.
func (s *ReaderService) DecreaseRate(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	s.session.DecreaseRate()
	return s.status()
}

// SetRate sets the rate in words per minute.
func (s *ReaderService) SetRate(
	ctx context.Context,
	req *connect.Request[wrapperspb.Int32Value],
) (*connect.Response[structpb.Struct], error) {
	s.session.SetRate(int(req.Msg.GetValue()))
	return s.status()
}

// Seek moves to a normalized position in [0, 1].
func (s *ReaderService) Seek(
	ctx context.Context,
	req *connect.Request[wrapperspb.DoubleValue],
) (*connect.Response[structpb.Struct], error) {
	s.session.SeekFraction(req.Msg.GetValue())
	return s.status()
}

// GetStatus returns the current session status.
func (s *ReaderService) GetStatus(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	return s.status()
}

// Subscribe sends the current state followed by every reader event until the
// client goes away or the session ends.
func (s *ReaderService) Subscribe(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
	stream *connect.ServerStream[structpb.Struct],
) error {
	sequenceNo := s.notification.NextSequenceNo()
	status := s.session.Status()
	before, focus, after := pacing.Split(status.Word)

	msg, err := notificationToStruct(&notification.Notification{
		Type:       notification.TypeInitialState,
		SequenceNo: sequenceNo,
		SessionID:  status.SessionID,
		Title:      status.Title,
		State:      status.State.String(),
		Index:      status.Index,
		Total:      status.Total,
		Rate:       status.Rate,
		Fraction:   status.Fraction,
		Word:       status.Word,
		Before:     before,
		Focus:      focus,
		After:      after,
	})
	if err != nil {
		return connect.NewError(connect.CodeInternal, err)
	}
	if err := stream.Send(msg); err != nil {
		return err
	}

	adapter := &notificationStreamAdapter{stream: stream}
	subscriptionID := s.notification.Subscribe(adapter)
	zlog.Debug().Msgf("connect: subscriber joined: subscription=%s", subscriptionID)

	select {
	case <-ctx.Done():
	case <-s.session.Done():
	}

	s.notification.Unsubscribe(subscriptionID)
	adapter.close()
	zlog.Debug().Msgf("connect: subscriber left: subscription=%s", subscriptionID)

	return nil
}

func (s *ReaderService) status() (*connect.Response[structpb.Struct], error) {
	msg, err := newStatus(s.session.Status()).toStruct()
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(msg), nil
}

// notificationStreamAdapter adapts connect.ServerStream to notification.Stream.
// Sends are serialized and refused once the handler has returned.
type notificationStreamAdapter struct {
	mu     sync.Mutex
	stream *connect.ServerStream[structpb.Struct]
	closed bool
}

func (a *notificationStreamAdapter) Send(n *notification.Notification) error {
	msg, err := notificationToStruct(n)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return errStreamClosed
	}
	return a.stream.Send(msg)
}

func (a *notificationStreamAdapter) close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
}
