package dispatch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quoteverse/core/internal/models"
	"github.com/quoteverse/core/internal/pkg/pagination"
	"github.com/quoteverse/core/internal/pkg/response"
)

// History reads past runs.
type History interface {
	ListRuns(ctx context.Context, limit int) ([]models.DigestRunModel, error)
	ListDeliveries(ctx context.Context, runID string, q pagination.Query) ([]models.DeliveryRecordModel, response.Pagination, error)
}

type sendBody struct {
	IsTestMode    bool     `json:"isTestMode"`
	TestEmail     string   `json:"testEmail"`
	SelectedUsers []string `json:"selectedUsers"`
}

type Handler struct {
	engine  *Engine
	history History
}

func NewHandler(engine *Engine, history History) *Handler {
	return &Handler{engine: engine, history: history}
}

// RegisterRoutes mounts the dispatch endpoints; authMW guards all of them.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/digest", authMW)
	g.POST("/send", h.send)
	g.GET("/runs", h.listRuns)
	g.GET("/runs/:id/deliveries", h.listDeliveries)
}

func (h *Handler) send(c *gin.Context) {
	var body sendBody
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "testMode": false})
		return
	}

	result, err := h.engine.Dispatch(c.Request.Context(), Request{
		IsTestMode:          body.IsTestMode,
		TestEmail:           body.TestEmail,
		SelectedSubscribers: body.SelectedUsers,
	})
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrTestEmailRequired):
			status = http.StatusBadRequest
		case errors.Is(err, ErrRunInProgress):
			status = http.StatusConflict
		default:
			_ = c.Error(err)
		}
		c.JSON(status, gin.H{"error": err.Error(), "testMode": body.IsTestMode})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) listRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	runs, err := h.history.ListRuns(c.Request.Context(), limit)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.List(c, runs)
}

func (h *Handler) listDeliveries(c *gin.Context) {
	recs, meta, err := h.history.ListDeliveries(c.Request.Context(), c.Param("id"), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, recs, meta)
}
