package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-optimizer/internal/types"
)

// StoredAnalysis is a persisted analysis record
type StoredAnalysis struct {
	ID        uuid.UUID               `json:"id"`
	CVID      uuid.UUID               `json:"cv_id,omitempty"`
	Source    string                  `json:"source"`
	Score     int                     `json:"score"`
	Analysis  *types.JobMatchAnalysis `json:"analysis"`
	CreatedAt time.Time               `json:"created_at"`
}

// AnalysisSummary is a lightweight view of an analysis for listing
type AnalysisSummary struct {
	ID        uuid.UUID `json:"id"`
	Source    string    `json:"source"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}
