package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/caioav/lead-relay/internal/entity"
	"github.com/caioav/lead-relay/internal/infra/database"
	"github.com/caioav/lead-relay/internal/infra/http/handlers"
	"github.com/caioav/lead-relay/internal/infra/http/middleware"
	"github.com/caioav/lead-relay/internal/infra/integration/sendgrid"
	"github.com/caioav/lead-relay/internal/infra/integration/twilio"
	"github.com/caioav/lead-relay/internal/infra/mail"
	"github.com/caioav/lead-relay/internal/infra/queue"
	"github.com/caioav/lead-relay/internal/infra/store"
	"github.com/caioav/lead-relay/internal/usecase"
)

func main() {
	godotenv.Load()

	// 1. Lead store (in-memory by default, Postgres when DATABASE_URL is set)
	var leads entity.LeadRepositoryInterface
	var db *sql.DB
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		var err error
		db, err = database.NewDBConnection(dsn)
		if err != nil {
			log.Fatalf("❌ Postgres: %v", err)
		}
		defer db.Close()

		repo := database.NewLeadRepository(db)
		leads = repo
		go sweepExpiredLeads(repo)
	} else {
		leads = store.NewMemoryLeadStore()
	}

	// 2. Notification providers
	var mailer usecase.EmailService
	if os.Getenv("MAIL_PROVIDER") == "smtp" {
		port, _ := strconv.Atoi(os.Getenv("MAIL_PORT"))
		if port == 0 {
			port = 587
		}
		mailer = mail.NewSMTPSender(
			os.Getenv("MAIL_HOST"), port,
			os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
			os.Getenv("EMAIL_FROM"),
		)
	} else {
		mailer = sendgrid.NewClient(os.Getenv("SENDGRID_API_KEY"), os.Getenv("EMAIL_FROM"))
	}
	sms := twilio.NewClient(os.Getenv("TWILIO_SID"), os.Getenv("TWILIO_AUTH"))

	// 3. Audit queue (optional)
	var rabbitConn *amqp.Connection
	var producer usecase.AuditProducerInterface
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		rabbitMQ, err := queue.NewRabbitMQ(url)
		if err != nil {
			log.Fatalf("❌ RabbitMQ: %v", err)
		}
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()

		rabbitConn = rabbitMQ.Conn
		producer = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

		worker := queue.NewWorker(rabbitMQ.Ch)
		go worker.Start(queue.QueueName)
	}

	// 4. UseCases
	storeLeadUC := usecase.NewStoreLeadUseCase(leads)
	confirmBookingUC := usecase.NewConfirmBookingUseCase(
		leads, mailer, sms, producer,
		os.Getenv("TWILIO_PHONE"),
		os.Getenv("TWILIO_WHATSAPP"),
	)

	// 5. Handlers
	leadHandler := handlers.NewLeadHandler(storeLeadUC)
	webhookHandler := handlers.NewWebhookHandler(confirmBookingUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitConn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	r.Post("/api/store-lead", leadHandler.Handle)
	r.Post("/webhook/calendly", webhookHandler.Handle)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🔥 Lead relay running on port %s", port)
	http.ListenAndServe(":"+port, r)
}

// sweepExpiredLeads evicts leads that never matched a booking event.
func sweepExpiredLeads(repo *database.LeadRepository) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		n, err := repo.DeleteExpired(context.Background(), 30*24*time.Hour)
		if err != nil {
			log.Printf("⚠️ Lead expiry sweep failed: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("🧹 Expired %d stale leads", n)
		}
	}
}
