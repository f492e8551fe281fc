package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"freight-web/internal/config"
	"freight-web/internal/handler"
	"freight-web/internal/repository"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// AuditTaskHandler persists pricing analysis snapshots queued by the API so
// the synchronous analysis path never blocks on storage.
type AuditTaskHandler struct {
	db        *sqlx.DB
	redis     *redis.Client
	cfg       *config.Config
	auditRepo *repository.AuditRepository
}

func NewAuditTaskHandler(db *sqlx.DB, redis *redis.Client, cfg *config.Config) *AuditTaskHandler {
	return &AuditTaskHandler{
		db:        db,
		redis:     redis,
		cfg:       cfg,
		auditRepo: repository.NewAuditRepository(db),
	}
}

func (h *AuditTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload handler.PricingAuditPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	analysisJSON, err := json.Marshal(payload.Analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	audit := &repository.PriceAnalysisAudit{
		CarrierID:     payload.CarrierID,
		AnalyzedPrice: payload.AnalyzedPrice,
		FloorPrice:    payload.Analysis.Compliance.FloorPrice,
		Blocking:      payload.Analysis.Compliance.HasBlockingErrors,
		Payload:       analysisJSON,
	}
	if err := h.auditRepo.Insert(audit); err != nil {
		return fmt.Errorf("failed to store pricing audit: %w", err)
	}

	// Track the latest verdict per carrier for the operator dashboard
	stateKey := fmt.Sprintf("pricing:last_verdict:%d", payload.CarrierID)
	verdict := "ok"
	if payload.Analysis.Compliance.HasBlockingErrors {
		verdict = "blocked"
	}
	if err := h.redis.Set(ctx, stateKey, verdict, 0).Err(); err != nil {
		log.Printf("Warning: failed to update verdict key for carrier %d: %v", payload.CarrierID, err)
	}

	log.Printf("Stored pricing audit %d for carrier %d (blocking=%v)", audit.ID, payload.CarrierID, audit.Blocking)
	return nil
}
