package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	stderrors "crm-context-engine/internal/common/errors"
	"crm-context-engine/internal/common/logger"
	"crm-context-engine/internal/engine"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

// requestSchema validates the build request before it reaches the engine, so
// malformed payloads never turn into Fatal engine errors.
const requestSchema = `{
	"type": "object",
	"required": ["tenant_id", "query"],
	"properties": {
		"tenant_id": {"type": "string", "minLength": 1},
		"query": {"type": "string", "minLength": 1, "maxLength": 2000}
	},
	"additionalProperties": false
}`

type contextRequest struct {
	TenantID string `json:"tenant_id"`
	Query    string `json:"query"`
}

type contextResponse struct {
	RequestID string `json:"request_id"`
	Context   string `json:"context"`
}

type errorResponse struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
}

type contextHandler struct {
	engine *engine.Engine
	schema *gojsonschema.Schema
	log    logger.Logger
}

func newContextHandler(eng *engine.Engine, log logger.Logger) *contextHandler {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(requestSchema))
	if err != nil {
		panic("invalid context request schema: " + err.Error())
	}
	return &contextHandler{engine: eng, schema: schema, log: log}
}

func (h *contextHandler) buildContext(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		writeError(w, requestID, http.StatusBadRequest, "INVALID_BODY", "unable to read request body", "")
		return
	}

	validation, err := h.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		writeError(w, requestID, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON", "")
		return
	}
	if !validation.Valid() {
		details := ""
		if errs := validation.Errors(); len(errs) > 0 {
			details = errs[0].String()
		}
		writeError(w, requestID, http.StatusBadRequest, "INVALID_REQUEST", "request failed schema validation", details)
		return
	}

	var req contextRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, requestID, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON", "")
		return
	}

	text, err := h.engine.BuildContext(r.Context(), req.TenantID, req.Query)
	if err != nil {
		var stdErr *stderrors.StandardError
		if errors.As(err, &stdErr) {
			writeError(w, requestID, http.StatusBadRequest, string(stdErr.Code), stdErr.Message, stdErr.Details)
			return
		}
		h.log.Error("context build failed", map[string]interface{}{
			"request_id": requestID,
			"tenant_id":  req.TenantID,
			"error":      err.Error(),
		})
		writeError(w, requestID, http.StatusInternalServerError, "INTERNAL", "context build failed", "")
		return
	}

	writeJSON(w, http.StatusOK, contextResponse{RequestID: requestID, Context: text})
}

func writeError(w http.ResponseWriter, requestID string, status int, code, message, details string) {
	writeJSON(w, status, errorResponse{
		RequestID: requestID,
		Code:      code,
		Message:   message,
		Details:   details,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
