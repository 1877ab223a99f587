package main // booking.confirmed worker: booking log and mail

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/iliyamo/salon-booking/internal/config"
	"github.com/iliyamo/salon-booking/internal/queue"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; using system environment")
	}
	nc := config.LoadNotify()

	var mailer queue.Mailer = queue.LogMailer{}
	if nc.ResendAPIKey != "" {
		mailer = queue.NewResendMailer(nc.ResendAPIKey, nc.From)
	}
	if nc.OwnerEmail == "" {
		log.Println("notifier: OWNER_EMAIL not set; owner mails disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := &queue.Worker{
		URL:        nc.AMQPURL,
		Queue:      nc.Queue,
		LogDir:     nc.LogDir,
		OwnerEmail: nc.OwnerEmail,
		Mailer:     mailer,
	}
	log.Printf("notifier: consuming %s", nc.Queue)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("notifier: %v", err)
	}
	log.Println("notifier: stopped")
}
