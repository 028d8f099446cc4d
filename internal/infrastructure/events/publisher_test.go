package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"mrcfield/internal/ports"
)

type fakeConn struct {
	subject   string
	data      []byte
	err       error
	flushed   bool
	flushWait time.Duration
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subject = subject
	f.data = data
	return nil
}

func (f *fakeConn) FlushTimeout(timeout time.Duration) error {
	f.flushed = true
	f.flushWait = timeout
	return nil
}

func TestNATSPublisherPublishesEnvelope(t *testing.T) {
	conn := &fakeConn{}
	closed := false
	pub := newNATSPublisher(conn, func() error { closed = true; return nil }, "")

	completedAt := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	err := pub.PublishInspectionCompleted(context.Background(), ports.InspectionCompleted{
		InspectionID: "insp-1",
		LeadID:       "lead-1",
		JobNumber:    "MRC-2026-0001",
		Version:      7,
		TotalCost:    decimal.RequireFromString("420.75"),
		FinalCost:    decimal.RequireFromString("400"),
		CompletedAt:  completedAt,
	})
	if err != nil {
		t.Fatalf("PublishInspectionCompleted() error = %v", err)
	}
	if conn.subject != DefaultSubject || !conn.flushed {
		t.Fatalf("subject = %q flushed = %v", conn.subject, conn.flushed)
	}

	var got struct {
		Type       string    `json:"type"`
		OccurredAt time.Time `json:"occurredAt"`
		Data       struct {
			InspectionID string `json:"inspectionId"`
			JobNumber    string `json:"jobNumber"`
			TotalCost    string `json:"totalCost"`
		} `json:"data"`
	}
	if err := json.Unmarshal(conn.data, &got); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if got.Type != "inspection.completed" || !got.OccurredAt.Equal(completedAt) {
		t.Fatalf("envelope = %+v", got)
	}
	if got.Data.InspectionID != "insp-1" || got.Data.JobNumber != "MRC-2026-0001" || got.Data.TotalCost != "420.75" {
		t.Fatalf("data = %+v", got.Data)
	}

	if err := pub.Close(); err != nil || !closed {
		t.Fatalf("Close() error = %v closed = %v", err, closed)
	}
}

func TestNATSPublisherWrapsPublishError(t *testing.T) {
	boom := errors.New("connection closed")
	pub := newNATSPublisher(&fakeConn{err: boom}, nil, "custom.subject")

	err := pub.PublishInspectionCompleted(context.Background(), ports.InspectionCompleted{InspectionID: "insp-1"})
	if !errors.Is(err, boom) {
		t.Fatalf("PublishInspectionCompleted() error = %v, want %v", err, boom)
	}
}

func TestNATSPublisherUsesContextDeadlineForFlush(t *testing.T) {
	conn := &fakeConn{}
	pub := newNATSPublisher(conn, nil, "custom.subject")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pub.PublishInspectionCompleted(ctx, ports.InspectionCompleted{InspectionID: "insp-1"}); err != nil {
		t.Fatalf("PublishInspectionCompleted() error = %v", err)
	}
	if conn.subject != "custom.subject" || conn.flushWait <= 2*time.Second {
		t.Fatalf("subject = %q flush wait = %s", conn.subject, conn.flushWait)
	}
}

func TestNewNATSPublisherRequiresURL(t *testing.T) {
	if _, err := NewNATSPublisher(context.Background(), Config{}); err == nil {
		t.Fatalf("NewNATSPublisher() expected error")
	}
}

func TestNoopPublisher(t *testing.T) {
	if err := (NoopPublisher{}).PublishInspectionCompleted(context.Background(), ports.InspectionCompleted{}); err != nil {
		t.Fatalf("PublishInspectionCompleted() error = %v", err)
	}
}
