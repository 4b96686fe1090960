package consumer

import (
	"encoding/json"
	"log"

	"github.com/denoblevoices/ticketing/internal/models"
	"github.com/denoblevoices/ticketing/pkg/rabbitmq"
	amqp "github.com/rabbitmq/amqp091-go"
	"gorm.io/gorm"
)

// NotificationConsumer is the delivery worker on the far side of the
// notification queue. It hands each message to the mail gateway and records
// the outcome; state transitions upstream never wait on it.
type NotificationConsumer struct {
	db     *gorm.DB
	mailer Mailer
}

// Mailer is the outbound email gateway. The default implementation only logs;
// a real SMTP/ESP client plugs in behind this without touching the consumer.
type Mailer interface {
	Deliver(template, recipient string, payload map[string]any) error
}

type logMailer struct{}

func (logMailer) Deliver(template, recipient string, payload map[string]any) error {
	log.Printf("[Mailer] %s -> %s", template, recipient)
	return nil
}

func NewNotificationConsumer(db *gorm.DB, mailer Mailer) *NotificationConsumer {
	if mailer == nil {
		mailer = logMailer{}
	}
	return &NotificationConsumer{db: db, mailer: mailer}
}

// Start processes deliveries until the channel closes.
func (nc *NotificationConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			nc.handleMessage(msg)
		}
		log.Println("[NotificationConsumer] channel closed, stopping consumer")
	}()
}

func (nc *NotificationConsumer) handleMessage(msg amqp.Delivery) {
	var n rabbitmq.NotificationMessage
	if err := json.Unmarshal(msg.Body, &n); err != nil {
		log.Printf("[NotificationConsumer] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}

	status := models.NotificationDelivered
	if err := nc.mailer.Deliver(n.Template, n.Recipient, n.Payload); err != nil {
		log.Printf("[NotificationConsumer] delivery failed for %s: %v", n.Recipient, err)
		status = models.NotificationFailed
	}

	payload, _ := json.Marshal(n.Payload)
	record := models.NotificationRecord{
		Template:  n.Template,
		Recipient: n.Recipient,
		Payload:   string(payload),
		Status:    status,
		Attempts:  1,
	}
	if err := nc.db.Create(&record).Error; err != nil {
		log.Printf("[NotificationConsumer] failed to record %s notification: %v", n.Template, err)
		msg.Nack(false, true) // requeue
		return
	}

	msg.Ack(false)
}
