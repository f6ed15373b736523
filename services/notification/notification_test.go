package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type recordingPublisher struct {
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event Event) error {
	p.events = append(p.events, event)
	return p.err
}

func TestMessageBuilder(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	event := NewMessageBuilder(EventBookingCreated, 12).
		BookingCreated("Hạ Long", 3, decimal.NewFromInt(4500000)).
		WithPayload(map[string]int{"people": 3}).
		At(at).
		Build()

	if event.Type != EventBookingCreated || event.EntityID != 12 || !event.OccurredAt.Equal(at) {
		t.Errorf("event = %+v", event)
	}
	if !strings.Contains(event.Message, "Booking #12") || !strings.Contains(event.Message, "4500000 VND") {
		t.Errorf("message = %q", event.Message)
	}

	limit := 100
	used := NewMessageBuilder(EventVoucherUsed, 1).VoucherUsed("SUMMER", 5, &limit).Build()
	if !strings.Contains(used.Message, "5/100") {
		t.Errorf("message = %q", used.Message)
	}
	if used.OccurredAt.IsZero() {
		t.Error("OccurredAt should default to now")
	}
	unlimited := NewMessageBuilder(EventVoucherUsed, 1).VoucherUsed("SUMMER", 5, nil).Build()
	if strings.Contains(unlimited.Message, "/") {
		t.Errorf("message = %q", unlimited.Message)
	}

	changed := NewMessageBuilder(EventBookingStatusChanged, 4).StatusChanged("Pending", "Confirmed").Build()
	if !strings.Contains(changed.Message, "Pending → Confirmed") {
		t.Errorf("message = %q", changed.Message)
	}
}

func TestMultiPublishesToAll(t *testing.T) {
	failing := &recordingPublisher{err: errors.New("kafka down")}
	ok := &recordingPublisher{}
	multi := Multi{failing, nil, ok}

	err := multi.Publish(context.Background(), NewMessageBuilder(EventVoucherChanged, 1).Text("x").Build())
	if err == nil || err.Error() != "kafka down" {
		t.Errorf("err = %v, want kafka down", err)
	}
	if len(failing.events) != 1 || len(ok.events) != 1 {
		t.Errorf("events = %d/%d, want 1/1", len(failing.events), len(ok.events))
	}
}

func TestNewPublisherWithoutBackends(t *testing.T) {
	p := NewPublisher(nil, nil)
	if err := p.Publish(context.Background(), Event{Type: EventDailyDigest}); err != nil {
		t.Errorf("empty publisher returned %v", err)
	}
}

func TestMelodyServiceNil(t *testing.T) {
	if err := NewMelodyService(nil).SendMessage("hi"); err == nil {
		t.Error("expected error for nil melody")
	}
	if err := NewKafkaService(nil).Publish(context.Background(), Event{}); err == nil {
		t.Error("expected error for nil kafka writer")
	}
}
