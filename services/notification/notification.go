package notification

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/olahol/melody"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// Loại sự kiện
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingDeleted       = "booking.deleted"
	EventPaymentStatusChanged = "payment.status_changed"
	EventVoucherUsed          = "voucher.used"
	EventVoucherChanged       = "voucher.changed"
	EventDailyDigest          = "statistics.daily_digest"
)

// Event là sự kiện nghiệp vụ được đẩy qua websocket và Kafka
type Event struct {
	Type       string      `json:"type"`
	EntityID   uint        `json:"entityId"`
	Message    string      `json:"message"`
	Payload    interface{} `json:"payload,omitempty"`
	OccurredAt time.Time   `json:"occurredAt"`
}

// Publisher gửi sự kiện có cấu trúc
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

func (s *MelodyService) SendMessage(message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.Broadcast([]byte(message))
}

func (s *MelodyService) Publish(_ context.Context, event Event) error {
	b, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.SendMessage(string(b))
}

// KafkaService publish sự kiện lên Kafka, key là EntityID để giữ thứ tự theo entity
type KafkaService struct {
	writer *kafka.Writer
}

func NewKafkaService(writer *kafka.Writer) *KafkaService {
	return &KafkaService{writer: writer}
}

func (s *KafkaService) Publish(ctx context.Context, event Event) error {
	if s.writer == nil {
		return fmt.Errorf("kafka writer is nil")
	}
	b, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.EntityID), 10)),
		Value: b,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
}

// Multi phát sự kiện tới nhiều publisher, trả về lỗi đầu tiên gặp phải
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var firstErr error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewPublisher ghép các publisher đã cấu hình
func NewPublisher(m *melody.Melody, writer *kafka.Writer) Publisher {
	var multi Multi
	if m != nil {
		multi = append(multi, NewMelodyService(m))
	}
	if writer != nil {
		multi = append(multi, NewKafkaService(writer))
	}
	return multi
}

type MessageBuilder struct {
	event Event
}

func NewMessageBuilder(eventType string, entityID uint) *MessageBuilder {
	return &MessageBuilder{
		event: Event{Type: eventType, EntityID: entityID},
	}
}

func (b *MessageBuilder) WithPayload(payload interface{}) *MessageBuilder {
	b.event.Payload = payload
	return b
}

func (b *MessageBuilder) At(t time.Time) *MessageBuilder {
	b.event.OccurredAt = t
	return b
}

func (b *MessageBuilder) BookingCreated(tourName string, people int, total decimal.Decimal) *MessageBuilder {
	b.event.Message = fmt.Sprintf("🔔 Booking #%d: %d khách đặt tour %s, tổng %s VND.", b.event.EntityID, people, tourName, total.StringFixed(0))
	return b
}

func (b *MessageBuilder) StatusChanged(from, to string) *MessageBuilder {
	b.event.Message = fmt.Sprintf("🔔 #%d chuyển trạng thái %s → %s.", b.event.EntityID, from, to)
	return b
}

func (b *MessageBuilder) VoucherUsed(code string, used int, limit *int) *MessageBuilder {
	if limit != nil {
		b.event.Message = fmt.Sprintf("🔔 Voucher %s đã dùng %d/%d lượt.", code, used, *limit)
	} else {
		b.event.Message = fmt.Sprintf("🔔 Voucher %s đã dùng %d lượt.", code, used)
	}
	return b
}

func (b *MessageBuilder) Text(message string) *MessageBuilder {
	b.event.Message = message
	return b
}

func (b *MessageBuilder) Build() Event {
	if b.event.OccurredAt.IsZero() {
		b.event.OccurredAt = time.Now()
	}
	return b.event
}
