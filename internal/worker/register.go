package worker

import (
	"freight-web/internal/config"
	"freight-web/internal/handler"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func RegisterHandlers(mux *asynq.ServeMux, db *sqlx.DB, redis *redis.Client, cfg *config.Config) {
	auditHandler := NewAuditTaskHandler(db, redis, cfg)
	mux.HandleFunc(handler.TaskPricingAudit, auditHandler.Handle)
}
