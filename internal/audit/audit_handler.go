package audit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go-staffing/internal/shared/apperror"
	"go-staffing/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RecordResponse struct {
	ID           string          `json:"id"`
	ActorID      string          `json:"actor_id"`
	Action       string          `json:"action"`
	ResourceType string          `json:"resource_type,omitempty"`
	ResourceID   string          `json:"resource_id,omitempty"`
	Changes      json.RawMessage `json:"changes,omitempty"`
	Details      string          `json:"details,omitempty"`
	SourceIP     string          `json:"source_ip,omitempty"`
	UserAgent    string          `json:"user_agent,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

type Handler struct {
	repo   Repository
	logger *zap.Logger
}

func NewHandler(repo Repository, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("audit.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.handler")
	}
	return &Handler{repo: repo, logger: l}
}

// List returns ledger entries newest first. Read-only: the ledger has no
// mutating endpoints at all.
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 {
		pageSize = 20
	}

	records, total, err := h.repo.List(c.Request.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("list audit records failed",
			zap.Int("status", httpErr.Status),
			zap.Error(err),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	resp := make([]RecordResponse, len(records))
	for i, record := range records {
		resp[i] = RecordResponse{
			ID:           record.ID.String(),
			ActorID:      record.ActorID,
			Action:       string(record.Action),
			ResourceType: record.ResourceType,
			ResourceID:   record.ResourceID,
			Changes:      json.RawMessage(record.Changes),
			Details:      record.Details,
			SourceIP:     record.SourceIP,
			UserAgent:    record.UserAgent,
			CreatedAt:    record.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp, &meta)
}
