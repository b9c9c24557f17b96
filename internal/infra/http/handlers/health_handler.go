package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type HealthHandler struct {
	DB        *sql.DB
	RabbitMQ  *amqp091.Connection
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(db *sql.DB, rabbitMQ *amqp091.Connection) *HealthHandler {
	return &HealthHandler{
		DB:        db,
		RabbitMQ:  rabbitMQ,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	// Lead store: in-memory unless DATABASE_URL is set
	if h.DB != nil {
		if err := h.DB.Ping(); err != nil {
			deps["lead_store"] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps["lead_store"] = "healthy"
		}
	} else {
		deps["lead_store"] = "in-memory"
	}

	// Audit queue
	if h.RabbitMQ != nil {
		if h.RabbitMQ.IsClosed() {
			deps["rabbitmq"] = "unhealthy: connection closed"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	// Notification providers: credential checks only, no outbound call
	if os.Getenv("MAIL_PROVIDER") == "smtp" {
		if os.Getenv("MAIL_HOST") != "" {
			deps["email"] = "configured"
		} else {
			deps["email"] = "not configured"
		}
	} else if os.Getenv("SENDGRID_API_KEY") != "" {
		deps["email"] = "configured"
	} else {
		deps["email"] = "not configured"
	}

	if os.Getenv("TWILIO_SID") != "" && os.Getenv("TWILIO_AUTH") != "" {
		deps["twilio"] = "configured"
	} else {
		deps["twilio"] = "not configured"
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "configured" && v != "not configured" && v != "in-memory" {
			status = "degraded"
			break
		}
	}

	uptime := time.Since(h.StartTime).Round(time.Second).String()

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       uptime,
		Dependencies: deps,
	}

	w.Header().Set("Content-Type", "application/json")
	if status == "degraded" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}
