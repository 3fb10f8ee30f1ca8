package trigger

import (
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quoteverse/core/internal/modules/digest/dispatch"
	"github.com/quoteverse/core/internal/pkg/ratelimit"
	"github.com/quoteverse/core/internal/pkg/response"
)

type sendBody struct {
	SelectedUsers []string `json:"selectedUsers"`
}

type Handler struct {
	trigger *Trigger
}

func NewHandler(t *Trigger) *Handler {
	return &Handler{trigger: t}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/admin", authMW)
	g.POST("/digest/send", h.send)
	g.GET("/subscribers", h.listSubscribers)
}

func (h *Handler) send(c *gin.Context) {
	var body sendBody
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body")
		return
	}

	toast, err := h.trigger.SendDigest(c.Request.Context(), body.SelectedUsers)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, toast)
	case errors.Is(err, ErrEmptySelection):
		c.JSON(http.StatusBadRequest, toast)
	case errors.Is(err, dispatch.ErrRunInProgress):
		c.JSON(http.StatusConflict, toast)
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, toast)
	}
}

func (h *Handler) listSubscribers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	subs, err := h.trigger.ListSubscribers(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, ratelimit.ErrTooSoon) {
			wait := h.trigger.RetryAfter().Seconds()
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait))))
			response.TooManyRequests(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.List(c, subs)
}
