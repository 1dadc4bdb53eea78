package domain

import (
	"context"
	"time"
)

// AccessRecord is one access event as returned by the analytics endpoint
type AccessRecord struct {
	ID        int       `json:"id" validate:"required,gt=0"`
	UserID    int       `json:"usuario_id" validate:"required,gt=0"`
	AgentID   int       `json:"agente_id" validate:"required,gt=0"`
	Timestamp time.Time `json:"timestamp"`
}

// AccessLog defines read access to the platform's access analytics
type AccessLog interface {
	ListAccesses(ctx context.Context) ([]AccessRecord, error)
}
