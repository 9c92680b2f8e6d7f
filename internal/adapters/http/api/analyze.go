package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	service "github.com/okian/cfcoach/internal/app"
	"github.com/okian/cfcoach/pkg/logger"
)

// maxBodyBytes bounds the POST /analyze request body.
const maxBodyBytes = 4 << 10

// User-facing error messages.
const (
	msgUsernameRequired = "Username is required"
	msgInvalidUsername  = "Invalid Codeforces username"
	msgAnalysisFailed   = "Failed to analyze profile"
)

// analyzeRequest mirrors the OpenAPI schema for POST /analyze.
type analyzeRequest struct {
	Username string `json:"username"`
}

// AnalyzeHandler handles analysis requests.
type AnalyzeHandler struct {
	analyzer Analyzer
	logger   logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(analyzer Analyzer, log logger.Logger) *AnalyzeHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AnalyzeHandler{analyzer: analyzer, logger: log}
}

// HandleAnalyze handles POST /analyze requests.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}

	var req analyzeRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: invalid JSON body", ErrBadRequest).Error())
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", msgUsernameRequired)
		return
	}

	ctx := r.Context()
	report, err := h.analyzer.Analyze(ctx, req.Username)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, report)
	case errors.Is(err, service.ErrInvalidHandle):
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Sprintf("Username must be at most %d characters", service.MaxHandleLength))
	case errors.Is(err, service.ErrInvalidAccount):
		writeError(w, http.StatusBadRequest, "invalid_account", msgInvalidUsername)
	default:
		h.logger.Error(ctx, "analysis failed",
			logger.String("request_id", RequestIDFrom(ctx)),
			logger.String("username", req.Username),
			logger.Error(fmt.Errorf("%w: %w", ErrInternal, err)),
		)
		writeError(w, http.StatusInternalServerError, "internal", msgAnalysisFailed)
	}
}
