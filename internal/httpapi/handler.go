package httpapi

import (
	"net/http"

	"github.com/HendryAvila/clarify/internal/api"
	"github.com/HendryAvila/clarify/internal/service"
	"github.com/gin-gonic/gin"
)

// Handler serves the clarify routes from a Service.
type Handler struct {
	svc *service.Service
}

// NewHandler creates a Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Health answers GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Health())
}

// Analyze answers POST /v1/analyze_context.
func (h *Handler) Analyze(c *gin.Context) {
	var req api.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid analyze request", err)
		return
	}
	resp, err := h.svc.Analyze(c.Request.Context(), req)
	if err != nil {
		serviceError(c, "analyze failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Dialogue answers POST /v1/dialogue.
func (h *Handler) Dialogue(c *gin.Context) {
	var req api.DialogueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid dialogue request", err)
		return
	}
	resp, err := h.svc.Dialogue(c.Request.Context(), req)
	if err != nil {
		serviceError(c, "dialogue failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GenerateCode answers POST /v1/generate_code.
func (h *Handler) GenerateCode(c *gin.Context) {
	var req api.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid generate request", err)
		return
	}
	resp, err := h.svc.GenerateCode(c.Request.Context(), req)
	if err != nil {
		serviceError(c, "generate failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Summarize answers POST /v1/summarize_findings.
func (h *Handler) Summarize(c *gin.Context) {
	var req api.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid summarize request", err)
		return
	}
	resp, err := h.svc.Summarize(c.Request.Context(), req)
	if err != nil {
		serviceError(c, "summarize failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListMemory answers GET /v1/memory?project_id=.
func (h *Handler) ListMemory(c *gin.Context) {
	resp, err := h.svc.ListMemory(c.Request.Context(), c.Query("project_id"))
	if err != nil {
		serviceError(c, "list memory failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpsertMemory answers POST /v1/memory.
func (h *Handler) UpsertMemory(c *gin.Context) {
	var req api.MemoryUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid memory request", err)
		return
	}
	resp, err := h.svc.UpsertMemory(c.Request.Context(), req)
	if err != nil {
		serviceError(c, "upsert memory failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
