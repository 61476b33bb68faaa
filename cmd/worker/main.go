package main

import (
	"context"
	"log"
	"net/mail"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classcheck/internal/auth"
	"classcheck/internal/config"
	"classcheck/internal/mailer"
	"classcheck/internal/metrics"
	"classcheck/internal/queue"
	"classcheck/internal/roster"
	"classcheck/internal/session"
	"classcheck/internal/store"
)

// Worker consumes queue messages and delivers QR email batches.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "classcheck:email_batches")
	}

	var sender mailer.Sender
	if cfg.EmailBackend == "sendgrid" && cfg.SendgridAPIKey != "" {
		sender = mailer.NewSendgridSender(cfg.SendgridAPIKey, mail.Address{Name: cfg.EmailFromName, Address: cfg.EmailFromAddr})
		log.Println("sendgrid configured")
	} else {
		sender = &mailer.ConsoleSender{}
		log.Println("email backend: console (set EMAIL_BACKEND=sendgrid and SENDGRID_API_KEY for real delivery)")
	}

	w := worker{
		batches:  mailer.NewRepository(db.Client),
		roster:   roster.NewRepository(db.Client),
		sessions: session.NewRepository(db.Client),
		accounts: auth.NewRepository(db.Client),
		batcher:  mailer.NewBatcher(sender),
	}

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != "email_batch" {
			continue
		}
		id := string(msg.Body)
		log.Printf("processing batch %s", id)
		if err := w.process(ctx, id); err != nil {
			log.Printf("batch %s failed: %v", id, err)
		}
		time.Sleep(10 * time.Millisecond) // Small delay between batches
	}

	log.Println("worker stopped")
}

type worker struct {
	batches  *mailer.Repository
	roster   *roster.Repository
	sessions *session.Repository
	accounts *auth.Repository
	batcher  *mailer.Batcher
}

func (w *worker) process(ctx context.Context, batchID string) error {
	batch, err := w.batches.GetBatch(ctx, batchID)
	if err != nil {
		return err
	}
	if batch == nil {
		log.Printf("batch %s not found, skipping", batchID)
		return nil
	}
	if ok, err := w.batches.ClaimBatch(ctx, batchID); err != nil {
		return err
	} else if !ok {
		log.Printf("batch %s already claimed, skipping", batchID)
		return nil
	}

	sess, err := w.sessions.GetSession(ctx, batch.SessionID)
	if err != nil || sess == nil {
		_ = w.batches.FinishBatch(ctx, batchID, "failed", 0, 0, 0)
		return err
	}
	teacher, err := w.accounts.GetTeacher(ctx, sess.TeacherID)
	if err != nil || teacher == nil {
		_ = w.batches.FinishBatch(ctx, batchID, "failed", 0, 0, 0)
		return err
	}
	students, err := w.roster.ListEnrolled(ctx, batch.SessionID)
	if err != nil {
		_ = w.batches.FinishBatch(ctx, batchID, "failed", 0, 0, 0)
		return err
	}
	if len(students) == 0 {
		log.Printf("batch %s: no students assigned to session %s", batchID, sess.Name)
		return w.batches.FinishBatch(ctx, batchID, "no_students", 0, 0, 0)
	}

	res := w.batcher.SendQRBatch(ctx, batch.Origin, sess.ID, sess.Name, teacher.Name, teacher.Email, students,
		func(d mailer.Delivery) {
			metrics.EmailsTotal.WithLabelValues(d.Status).Inc()
			if err := w.batches.RecordDelivery(ctx, batchID, d); err != nil {
				log.Printf("record delivery for %s failed: %v", d.Email, err)
			}
		})

	log.Printf("batch %s: %d sent, %d failed of %d", batchID, res.Sent, res.Failed, res.Total)
	return w.batches.FinishBatch(ctx, batchID, "done", res.Total, res.Sent, res.Failed)
}
