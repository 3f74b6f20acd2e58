package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/sanosuguru/go-hotel-room-reservation/internal/domain/event"
)

// メッセージヘッダーのキー
const (
	headerEventID   = "event-id"
	headerEventType = "event-type"
	headerSource    = "source"
)

const sourceName = "hotel-room-reservation"

// Publisher はドメインイベントをKafkaに発行する
// パーティションキーに部屋IDを使い、同一部屋のイベント順序を保証する
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher は新しいPublisherを作成する
func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // キーのハッシュで順序を保証
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Publisher{writer: writer}
}

// Publish はイベントを発行する
func (p *Publisher) Publish(ctx context.Context, ev event.Event) error {
	msg, err := buildMessage(ev)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("イベント発行に失敗: %w", err)
	}
	return nil
}

// buildMessage はイベントをKafkaメッセージに変換する
// ID・発生時刻が未設定の場合はここで補完する
func buildMessage(ev event.Event) (kafka.Message, error) {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("イベントのシリアライズに失敗: %w", err)
	}

	return kafka.Message{
		Key:   []byte(ev.RoomID),
		Value: value,
		Headers: []kafka.Header{
			{Key: headerEventID, Value: []byte(ev.ID)},
			{Key: headerEventType, Value: []byte(string(ev.Type))},
			{Key: headerSource, Value: []byte(sourceName)},
		},
	}, nil
}

// Close はライターを閉じる
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ event.Publisher = (*Publisher)(nil)
