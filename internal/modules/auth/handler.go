package auth

import (
	"errors"
	"io"
	"net/http"

	"bookclub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

// NewHandler creates a new auth handler with injected service
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh/token", h.Refresh)
	}
}

// Register creates a user account. No tokens are issued.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			response.ValidationFailed(c, http.StatusBadRequest, verr.Errors)
		case errors.Is(err, ErrConflict):
			response.Fail(c, http.StatusBadRequest, "Email or username already exists")
		default:
			response.Internal(c, http.StatusInternalServerError, err)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": user})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			response.ValidationFailed(c, http.StatusBadRequest, verr.Errors)
		case errors.Is(err, ErrInvalidCredentials):
			response.Fail(c, http.StatusUnauthorized, "Invalid email or password")
		default:
			response.Internal(c, http.StatusInternalServerError, err)
		}
		return
	}

	response.Success(c, http.StatusOK, tokens)
}

// Refresh answers with a bare {accessToken} object, without the status envelope.
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.service.Refresh(c.Request.Context(), req)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			response.ValidationFailed(c, http.StatusBadRequest, verr.Errors)
		case errors.Is(err, ErrInvalidRefreshToken):
			response.Fail(c, http.StatusUnauthorized, "Invalid refresh token")
		case errors.Is(err, ErrRefreshTokenExpired):
			response.Fail(c, http.StatusUnauthorized, "Refresh token expired or invalid")
		default:
			response.Internal(c, http.StatusInternalServerError, err)
		}
		return
	}

	c.JSON(http.StatusOK, token)
}

// bindJSON decodes the body into dst. An empty body leaves dst zeroed so the
// validator can report the missing fields.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		response.ValidationFailed(c, http.StatusBadRequest, []string{"request body must be valid JSON"})
		return false
	}
	return true
}
