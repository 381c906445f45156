package connect

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/osa030/speedreader/internal/app/notification"
)

// ReaderServiceClient is a client for the reader service.
type ReaderServiceClient struct {
	load      *connect.Client[structpb.Struct, structpb.Struct]
	setRate   *connect.Client[wrapperspb.Int32Value, structpb.Struct]
	seek      *connect.Client[wrapperspb.DoubleValue, structpb.Struct]
	subscribe *connect.Client[emptypb.Empty, structpb.Struct]
	controls  map[string]*connect.Client[emptypb.Empty, structpb.Struct]
}

// NewReaderServiceClient creates a client for the service at baseURL
// (for example http://localhost:8080).
func NewReaderServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ReaderServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")

	controls := make(map[string]*connect.Client[emptypb.Empty, structpb.Struct])
	for _, procedure := range []string{
		PlayProcedure,
		PauseProcedure,
		ToggleProcedure,
		IncreaseRateProcedure,
		DecreaseRateProcedure,
		GetStatusProcedure,
	} {
		controls[procedure] = connect.NewClient[emptypb.Empty, structpb.Struct](httpClient, baseURL+procedure, opts...)
	}

	return &ReaderServiceClient{
		load:      connect.NewClient[structpb.Struct, structpb.Struct](httpClient, baseURL+LoadProcedure, opts...),
		setRate:   connect.NewClient[wrapperspb.Int32Value, structpb.Struct](httpClient, baseURL+SetRateProcedure, opts...),
		seek:      connect.NewClient[wrapperspb.DoubleValue, structpb.Struct](httpClient, baseURL+SeekProcedure, opts...),
		subscribe: connect.NewClient[emptypb.Empty, structpb.Struct](httpClient, baseURL+SubscribeProcedure, opts...),
		controls:  controls,
	}
}

// Load sends an article to the reader.
func (c *ReaderServiceClient) Load(ctx context.Context, title, text string) (Status, error) {
	msg, err := structpb.NewStruct(map[string]any{
		"title": title,
		"text":  text,
	})
	if err != nil {
		return Status{}, errors.Wrap(err, "failed to build load request")
	}

	resp, err := c.load.CallUnary(ctx, connect.NewRequest(msg))
	if err != nil {
		return Status{}, err
	}
	return StatusFromStruct(resp.Msg)
}

// Play starts or resumes playback.
func (c *ReaderServiceClient) Play(ctx context.Context) (Status, error) {
	return c.call(ctx, PlayProcedure)
}

// Pause pauses playback.
func (c *ReaderServiceClient) Pause(ctx context.Context) (Status, error) {
	return c.call(ctx, PauseProcedure)
}

// Toggle switches between playing and paused.
func (c *ReaderServiceClient) Toggle(ctx context.Context) (Status, error) {
	return c.call(ctx, ToggleProcedure)
}

// IncreaseRate raises the rate by one step.
func (c *ReaderServiceClient) IncreaseRate(ctx context.Context) (Status, error) {
	return c.call(ctx, IncreaseRateProcedure)
}

// DecreaseRate lowers the rate by one step.
func (c *ReaderServiceClient) DecreaseRate(ctx context.Context) (Status, error) {
	return c.call(ctx, DecreaseRateProcedure)
}

// GetStatus returns the session status.
func (c *ReaderServiceClient) GetStatus(ctx context.Context) (Status, error) {
	return c.call(ctx, GetStatusProcedure)
}

// SetRate sets the rate in words per minute.
func (c *ReaderServiceClient) SetRate(ctx context.Context, rate int) (Status, error) {
	resp, err := c.setRate.CallUnary(ctx, connect.NewRequest(wrapperspb.Int32(int32(rate))))
	if err != nil {
		return Status{}, err
	}
	return StatusFromStruct(resp.Msg)
}

// Seek moves to a normalized position in [0, 1].
func (c *ReaderServiceClient) Seek(ctx context.Context, fraction float64) (Status, error) {
	resp, err := c.seek.CallUnary(ctx, connect.NewRequest(wrapperspb.Double(fraction)))
	if err != nil {
		return Status{}, err
	}
	return StatusFromStruct(resp.Msg)
}

// Subscribe calls fn for every notification until ctx is done, the stream
// ends, or fn returns an error.
func (c *ReaderServiceClient) Subscribe(ctx context.Context, fn func(*notification.Notification) error) error {
	stream, err := c.subscribe.CallServerStream(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		return err
	}
	defer stream.Close()

	for stream.Receive() {
		n, err := NotificationFromStruct(stream.Msg())
		if err != nil {
			return err
		}
		if err := fn(n); err != nil {
			return err
		}
	}
	return stream.Err()
}

func (c *ReaderServiceClient) call(ctx context.Context, procedure string) (Status, error) {
	resp, err := c.controls[procedure].CallUnary(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		return Status{}, err
	}
	return StatusFromStruct(resp.Msg)
}
