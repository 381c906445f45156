package connect

import (
	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/osa030/speedreader/internal/app/notification"
	"github.com/osa030/speedreader/internal/app/reader"
)

var errStreamClosed = errors.New("stream closed")

// Status is the wire form of a reader session status.
type Status struct {
	SessionID string  `mapstructure:"session_id"`
	Title     string  `mapstructure:"title"`
	WordCount int     `mapstructure:"word_count"`
	State     string  `mapstructure:"state"`
	Index     int     `mapstructure:"index"`
	Total     int     `mapstructure:"total"`
	Rate      int     `mapstructure:"rate"`
	Fraction  float64 `mapstructure:"fraction"`
	Word      string  `mapstructure:"word"`
}

func newStatus(st reader.Status) Status {
	return Status{
		SessionID: st.SessionID,
		Title:     st.Title,
		WordCount: st.WordCount,
		State:     st.State.String(),
		Index:     st.Index,
		Total:     st.Total,
		Rate:      st.Rate,
		Fraction:  st.Fraction,
		Word:      st.Word,
	}
}

func (s Status) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"session_id": s.SessionID,
		"title":      s.Title,
		"word_count": s.WordCount,
		"state":      s.State,
		"index":      s.Index,
		"total":      s.Total,
		"rate":       s.Rate,
		"fraction":   s.Fraction,
		"word":       s.Word,
	})
}

// StatusFromStruct decodes a status message.
func StatusFromStruct(msg *structpb.Struct) (Status, error) {
	var s Status
	if err := decodeStruct(msg, &s); err != nil {
		return Status{}, errors.Wrap(err, "failed to decode status")
	}
	return s, nil
}

func notificationToStruct(n *notification.Notification) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"type":        string(n.Type),
		"sequence_no": n.SequenceNo,
		"session_id":  n.SessionID,
		"title":       n.Title,
		"state":       n.State,
		"index":       n.Index,
		"total":       n.Total,
		"rate":        n.Rate,
		"fraction":    n.Fraction,
		"word":        n.Word,
		"before":      n.Before,
		"focus":       n.Focus,
		"after":       n.After,
	})
}

// NotificationFromStruct decodes a notification message.
func NotificationFromStruct(msg *structpb.Struct) (*notification.Notification, error) {
	var n notification.Notification
	if err := decodeStruct(msg, &n); err != nil {
		return nil, errors.Wrap(err, "failed to decode notification")
	}
	return &n, nil
}

// decodeStruct decodes msg into out. Numbers arrive as float64.
func decodeStruct(msg *structpb.Struct, out any) error {
	if msg == nil {
		return errors.New("message is empty")
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}
	return decoder.Decode(msg.AsMap())
}
