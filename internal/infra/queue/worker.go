package queue

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Worker drains the dispatched-notification queue into the audit log.
type Worker struct {
	Channel *amqp.Channel
}

func NewWorker(ch *amqp.Channel) *Worker {
	return &Worker{Channel: ch}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual is safer)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ [AUDIT] failed to register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var event DispatchedEvent
			if err := json.Unmarshal(d.Body, &event); err != nil {
				log.Printf("❌ [AUDIT] invalid message: %s", err)
				// Malformed message. Reject without requeue so the queue keeps moving.
				d.Nack(false, false)
				continue
			}

			log.Printf("📋 [AUDIT] %s: confirmation for %s sent via %s at %s",
				event.ID,
				event.Email,
				strings.Join(event.Channels, ","),
				event.DispatchedAt.Format(time.RFC3339),
			)
			d.Ack(false)
		}
	}()

	log.Printf(" [*] Audit worker waiting on queue '%s'", queueName)
	<-forever
}
