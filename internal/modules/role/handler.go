package role

import (
	"errors"
	"io"
	"net/http"

	"bookclub/internal/pkg/response"
	"bookclub/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the role endpoints on a group that is already behind JWTAuth.
func (h *Handler) RegisterRoutes(admin gin.IRouter) {
	v1 := admin.Group("/api/v1")
	{
		v1.GET("/get/roles", h.List)
		v1.POST("/create/role", h.Create)
		v1.DELETE("/delete/role", h.Delete)
	}
}

type roleView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *Handler) List(c *gin.Context) {
	roles, err := h.service.List(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrNoRoles) {
			response.Fail(c, http.StatusNotFound, "No roles found")
			return
		}
		response.Internal(c, http.StatusInternalServerError, err)
		return
	}

	views := make([]roleView, 0, len(roles))
	for _, r := range roles {
		views = append(views, roleView{ID: r.ID.String(), Name: r.Name})
	}
	response.Success(c, http.StatusOK, gin.H{"roles": views})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if !bindAndValidate(c, &req) {
		return
	}

	role, err := h.service.Create(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, ErrRoleExists) {
			response.Fail(c, http.StatusBadRequest, "Role already exists")
			return
		}
		response.Internal(c, http.StatusInternalServerError, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"role": roleView{ID: role.ID.String(), Name: role.Name}})
}

func (h *Handler) Delete(c *gin.Context) {
	var req DeleteRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.RoleID); err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			response.Fail(c, http.StatusNotFound, "Role not found")
			return
		}
		response.Internal(c, http.StatusInternalServerError, err)
		return
	}

	response.Message(c, http.StatusOK, "Role deleted successfully")
}

func bindAndValidate(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		response.ValidationFailed(c, http.StatusBadRequest, []string{"request body must be valid JSON"})
		return false
	}
	if errs := validator.Validate(dst); errs != nil {
		response.ValidationFailed(c, http.StatusBadRequest, errs)
		return false
	}
	return true
}
