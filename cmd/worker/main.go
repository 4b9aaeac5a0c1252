package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/radityaputra/tautan/config"
	app "github.com/radityaputra/tautan/internal/application"
	"github.com/radityaputra/tautan/internal/domain/entity"
	pginfra "github.com/radityaputra/tautan/internal/infrastructure/postgres"
	"github.com/radityaputra/tautan/pkg/mailer"
)

// The worker drains the engagement event queue: follow/like/comment events
// become notification rows, user.registered events become welcome emails.
// It only runs when the API is configured with a RabbitMQ publisher.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	notifications := pginfra.NewNotificationRepository(pool)

	var mg *mailer.Mailgun
	if cfg.MailSendEnabled && cfg.MailgunDomain != "" && cfg.MailgunAPIKey != "" && cfg.MailgunSender != "" {
		mg = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	} else {
		log.Println("mailgun not configured; welcome emails disabled")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	if _, err := ch.QueueDeclare(cfg.RabbitMQEventQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQEventQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var ev app.Event
			if err := json.Unmarshal(msg.Body, &ev); err != nil {
				log.Printf("bad message: %v", err)
				_ = msg.Nack(false, false)
				continue
			}

			switch ev.Type {
			case app.EventUserRegistered:
				if mg != nil {
					c, cancel := context.WithTimeout(ctx, 15*time.Second)
					err := mg.SendWelcome(c, ev.Email, ev.Username)
					cancel()
					if err != nil {
						log.Printf("welcome email failed: %v", err)
						_ = msg.Nack(false, true)
						continue
					}
				}
			default:
				typ := ev.NotificationType()
				if typ == "" || ev.FromID == ev.ToID {
					// Unknown event types and self-actions are dropped.
					_ = msg.Ack(false)
					continue
				}
				n := &entity.Notification{Type: typ, FromID: ev.FromID, ToID: ev.ToID}
				c, cancel := context.WithTimeout(ctx, 5*time.Second)
				err := notifications.Create(c, n)
				cancel()
				if err != nil {
					log.Printf("notification write failed: %v", err)
					_ = msg.Nack(false, true)
					continue
				}
			}
			_ = msg.Ack(false)
		}
		close(done)
	}()

	log.Printf("worker listening on queue=%s", cfg.RabbitMQEventQueue)
	<-stop
	log.Printf("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
