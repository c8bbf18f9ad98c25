package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/cv-optimizer/internal/analysis"
	"github.com/jonathan/cv-optimizer/internal/types"
)

var validate = validator.New()

// captchaMinScore is the minimum reCAPTCHA score accepted on the
// analysis endpoints.
const captchaMinScore = 0.5

// analyzeRequest covers both /analyze and /optimize. The CV can arrive
// inline or as a reference to a previously stored one.
type analyzeRequest struct {
	CVText         string `json:"cv_text" validate:"required_without=CVID"`
	CVID           string `json:"cv_id" validate:"omitempty,uuid"`
	JobDescription string `json:"job_description" validate:"required"`
	CaptchaToken   string `json:"captcha_token"`
}

type analyzeResponse struct {
	AnalysisID string                  `json:"analysis_id,omitempty"`
	Source     string                  `json:"source"`
	Analysis   *types.JobMatchAnalysis `json:"analysis"`
}

type optimizeResponse struct {
	AnalysisID    string                  `json:"analysis_id,omitempty"`
	Source        string                  `json:"source"`
	OptimizedText string                  `json:"optimized_text,omitempty"`
	OptimizedCV   *types.StructuredCV     `json:"optimized_cv,omitempty"`
	Analysis      *types.JobMatchAnalysis `json:"analysis"`
	// Document carries the rendered file, base64-encoded, when a
	// renderer is configured.
	Document string `json:"document,omitempty"`
}

type saveCVRequest struct {
	Name   string `json:"name" validate:"required"`
	CVText string `json:"cv_text" validate:"required"`
}

// handleAnalyze handles POST /analyze.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, cvText, cvID, err := s.prepareAnalysis(r, "analyze")
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.orchestrator.Analyze(r.Context(), cvText, req.JobDescription, nil)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	id := s.persistAnalysis(r.Context(), cvID, string(result.Source), result.Analysis)
	s.jsonResponse(w, http.StatusOK, analyzeResponse{
		AnalysisID: id,
		Source:     string(result.Source),
		Analysis:   result.Analysis,
	})
}

// handleAnalyzeStream handles POST /analyze/stream. Progress events go
// out as SSE while the analysis runs; the result arrives as a final
// "result" event followed by "complete".
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	req, cvText, cvID, err := s.prepareAnalysis(r, "analyze")
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	onProgress := func(event analysis.ProgressEvent) {
		sse.WriteEvent("progress", event) //nolint:errcheck
	}

	result, err := s.orchestrator.Analyze(r.Context(), cvText, req.JobDescription, onProgress)
	if err != nil {
		sse.WriteError(err.Error())
		return
	}

	id := s.persistAnalysis(r.Context(), cvID, string(result.Source), result.Analysis)
	sse.WriteEvent("result", analyzeResponse{ //nolint:errcheck
		AnalysisID: id,
		Source:     string(result.Source),
		Analysis:   result.Analysis,
	})
	sse.WriteComplete(id, string(result.Source))
}

// handleOptimize handles POST /optimize.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	req, cvText, cvID, err := s.prepareAnalysis(r, "optimize")
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.orchestrator.Optimize(r.Context(), cvText, req.JobDescription, nil, nil)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	id := s.persistAnalysis(r.Context(), cvID, string(result.Source), result.Analysis)
	s.jsonResponse(w, http.StatusOK, optimizeResponse{
		AnalysisID:    id,
		Source:        string(result.Source),
		OptimizedText: result.OptimizedText,
		OptimizedCV:   result.OptimizedCV,
		Analysis:      result.Analysis,
		Document:      s.renderDocument(r.Context(), result),
	})
}

// renderDocument produces the base64 rendered document for an optimize
// result, or "" when no renderer is configured. Rendering failures are
// logged and never fail the request; the optimized content has already
// been produced.
func (s *Server) renderDocument(ctx context.Context, result *analysis.OptimizeResult) string {
	if s.renderer == nil {
		return ""
	}
	doc, err := s.renderer.Render(ctx, result.OptimizedCV, result.OptimizedText)
	if err != nil {
		log.Printf("Warning: document rendering failed: %v", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(doc)
}

// handleSaveCV handles POST /cvs.
func (s *Server) handleSaveCV(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		err := &ErrStorageUnavailable{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req saveCVRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		verr := validationError(err)
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}

	id, err := s.store.SaveCV(r.Context(), req.Name, req.CVText)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"cv_id": id.String()})
}

// handleGetAnalysis handles GET /analyses/{id}.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		err := &ErrStorageUnavailable{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid analysis ID")
		return
	}

	stored, err := s.store.GetAnalysis(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if stored == nil {
		nf := &ErrNotFound{Resource: "analysis", ID: id.String()}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, stored)
}

// handleListAnalyses handles GET /analyses.
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		err := &ErrStorageUnavailable{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	summaries, err := s.store.ListAnalyses(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"analyses": summaries})
}

// handleToken handles POST /auth/token.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	resp, err := s.authHandler.Token(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// prepareAnalysis decodes and validates the shared analyze/optimize
// request shape, checks the captcha, and resolves the CV text. The
// returned cvID is uuid.Nil for inline CV text.
func (s *Server) prepareAnalysis(r *http.Request, action string) (*analyzeRequest, string, uuid.UUID, error) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, "", uuid.Nil, &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if err := validate.Struct(&req); err != nil {
		return nil, "", uuid.Nil, validationError(err)
	}

	if s.captcha.Enabled() {
		if _, err := s.captcha.Verify(r.Context(), req.CaptchaToken, captchaMinScore, action); err != nil {
			return nil, "", uuid.Nil, err
		}
	}

	cvText, cvID, err := s.resolveCVText(r.Context(), &req)
	if err != nil {
		return nil, "", uuid.Nil, err
	}
	return &req, cvText, cvID, nil
}

// resolveCVText returns inline CV text as-is, or loads the stored text
// when the request references a CV by ID.
func (s *Server) resolveCVText(ctx context.Context, req *analyzeRequest) (string, uuid.UUID, error) {
	if req.CVText != "" {
		return req.CVText, uuid.Nil, nil
	}

	if s.store == nil {
		return "", uuid.Nil, &ErrStorageUnavailable{}
	}

	cvID, err := uuid.Parse(req.CVID)
	if err != nil {
		return "", uuid.Nil, &ErrValidation{Field: "cv_id", Message: "invalid UUID"}
	}

	text, err := s.store.GetCVText(ctx, cvID)
	if err != nil {
		return "", uuid.Nil, err
	}
	if text == "" {
		return "", uuid.Nil, &ErrNotFound{Resource: "cv", ID: req.CVID}
	}
	return text, cvID, nil
}

// persistAnalysis saves an analysis when a store is configured and
// returns the new ID, or "" when nothing was stored. Persistence
// failures never fail the request.
func (s *Server) persistAnalysis(ctx context.Context, cvID uuid.UUID, source string, a *types.JobMatchAnalysis) string {
	if s.store == nil || a == nil {
		return ""
	}
	id, err := s.store.SaveAnalysis(ctx, cvID, source, a)
	if err != nil {
		log.Printf("Warning: failed to persist analysis: %v", err)
		return ""
	}
	return id.String()
}

// validationError converts validator failures into a field-level error.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return &ErrValidation{Field: first.Field(), Message: "failed " + first.Tag() + " validation"}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}
