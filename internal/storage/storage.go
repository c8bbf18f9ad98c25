// Package storage provides PostgreSQL persistence for CV texts and
// completed analyses.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/cv-optimizer/internal/types"
)

// Store wraps a PostgreSQL connection pool
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// SaveCV stores raw CV text and returns its ID
func (s *Store) SaveCV(ctx context.Context, name, rawText string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO cvs (name, raw_text)
		 VALUES ($1, $2)
		 RETURNING id`,
		name, rawText,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save cv: %w", err)
	}
	return id, nil
}

// GetCVText retrieves the stored raw text for a CV ID. A missing row
// yields ("", nil); callers treat the text as an opaque string source.
func (s *Store) GetCVText(ctx context.Context, cvID uuid.UUID) (string, error) {
	var text string
	err := s.pool.QueryRow(ctx,
		`SELECT raw_text FROM cvs WHERE id = $1`,
		cvID,
	).Scan(&text)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get cv text: %w", err)
	}
	return text, nil
}

// SaveAnalysis stores a completed analysis for later retrieval
func (s *Store) SaveAnalysis(ctx context.Context, cvID uuid.UUID, source string, analysis *types.JobMatchAnalysis) (uuid.UUID, error) {
	jsonBytes, err := json.Marshal(analysis)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal analysis: %w", err)
	}

	var id uuid.UUID
	err = s.pool.QueryRow(ctx,
		`INSERT INTO analyses (cv_id, source, score, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		nullableID(cvID), source, analysis.Score, jsonBytes,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	return id, nil
}

// GetAnalysis retrieves a stored analysis by ID. A missing row yields
// (nil, nil).
func (s *Store) GetAnalysis(ctx context.Context, id uuid.UUID) (*StoredAnalysis, error) {
	var stored StoredAnalysis
	var cvID *uuid.UUID
	var content []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, cv_id, source, score, content, created_at
		 FROM analyses WHERE id = $1`,
		id,
	).Scan(&stored.ID, &cvID, &stored.Source, &stored.Score, &content, &stored.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	if cvID != nil {
		stored.CVID = *cvID
	}
	var analysis types.JobMatchAnalysis
	if err := json.Unmarshal(content, &analysis); err != nil {
		return nil, fmt.Errorf("failed to decode stored analysis: %w", err)
	}
	analysis.Normalize()
	stored.Analysis = &analysis
	return &stored, nil
}

// ListAnalyses retrieves recent analysis summaries
func (s *Store) ListAnalyses(ctx context.Context, limit int) ([]AnalysisSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, source, score, created_at
		 FROM analyses ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var summaries []AnalysisSummary
	for rows.Next() {
		var summary AnalysisSummary
		if err := rows.Scan(&summary.ID, &summary.Source, &summary.Score, &summary.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return summaries, nil
}

// nullableID maps uuid.Nil to a SQL NULL
func nullableID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
