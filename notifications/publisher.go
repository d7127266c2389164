package notifications

import (
	"context"
	"encoding/json"
	"github.com/juju/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"strconv"
	"sync"
	"time"
)

// Exchange is the fanout exchange the dispatch service consumes from.
const Exchange = "notifications_fanout"

// Message is the JSON body published for each notification.
type Message struct {
	NotificationID uint      `json:"notification_id"`
	ShipmentID     *uint     `json:"shipment_id,omitempty"`
	MilestoneID    *uint     `json:"milestone_id,omitempty"`
	Type           string    `json:"notification_type"`
	Recipients     []string  `json:"recipients"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// RabbitPublisher publishes messages to Exchange, redialing once when the
// connection has dropped since the last publish.
type RabbitPublisher struct {
	url    string
	logger *zap.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

func DialRabbit(url string, logger *zap.Logger) (*RabbitPublisher, error) {
	p := &RabbitPublisher{url: url, logger: logger}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *RabbitPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return errors.Annotate(err, "dialing rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return errors.Annotate(err, "opening rabbitmq channel")
	}
	if err := ch.ExchangeDeclare(Exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return errors.Annotatef(err, "declaring exchange %s", Exchange)
	}
	p.conn = conn
	p.channel = ch
	p.logger.Info("Connected to RabbitMQ", zap.String("exchange", Exchange))
	return nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return errors.Trace(err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		p.logger.Warn("RabbitMQ connection lost, reconnecting")
		if err := p.connect(); err != nil {
			return err
		}
	}

	err = p.channel.PublishWithContext(ctx, Exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    strconv.FormatUint(uint64(msg.NotificationID), 10),
		Type:         msg.Type,
		Timestamp:    msg.CreatedAt,
		Body:         body,
	})
	return errors.Annotatef(err, "publishing notification %d", msg.NotificationID)
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
