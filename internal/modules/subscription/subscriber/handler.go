package subscriber

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes returned in the intake error envelope.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeEmailSend  = "EMAIL_SEND_FAILED"
	CodeDatabase   = "DATABASE_ERROR"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public intake endpoint. Extra middleware (rate
// limiting) runs before the handler.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	g := rg.Group("/subscribers")
	g.POST("", append(mw, h.subscribe)...)
}

func (h *Handler) subscribe(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "status": "error", "code": CodeValidation})
		return
	}

	result, err := h.svc.Subscribe(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": result.Message, "status": string(result.Outcome)})
}

func (h *Handler) fail(c *gin.Context, err error) {
	var validationErr *ValidationError
	var sendErr *EmailSendError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "status": "error", "code": CodeValidation})
	case errors.Is(err, ErrAlreadySubscribed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "This email is already subscribed", "status": "already_subscribed"})
	case errors.As(err, &sendErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "We could not send the verification email. Please try again later",
			"status": "error",
			"code":   CodeEmailSend,
		})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process subscription", "status": "error", "code": CodeDatabase})
	}
}
