package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ErlanBelekov/socios/internal/domain"
	"github.com/ErlanBelekov/socios/internal/usecase"
	"github.com/gin-gonic/gin"
)

type memberUsecaser interface {
	List(ctx context.Context) ([]usecase.MemberSummary, error)
	Get(ctx context.Context, id int64) (*domain.Member, error)
	Create(ctx context.Context, in usecase.CreateMemberInput) (*domain.Member, error)
}

type MemberHandler struct {
	base
	members memberUsecaser
}

func NewMemberHandler(members memberUsecaser, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{
		base:    base{logger: logger.With("component", "member_handler")},
		members: members,
	}
}

type createMemberRequest struct {
	Email   string         `json:"email"    binding:"required,email"`
	Name    string         `json:"nombre"   binding:"required"`
	Phone   string         `json:"telefono"`
	Profile map[string]any `json:"perfil"`
}

type memberResponse struct {
	ID        int64          `json:"id"`
	Email     string         `json:"email"`
	Name      string         `json:"nombre"`
	Phone     string         `json:"telefono"`
	Profile   map[string]any `json:"perfil,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func toMemberResponse(m *domain.Member) memberResponse {
	return memberResponse{
		ID:        m.ID,
		Email:     m.Email,
		Name:      m.Name,
		Phone:     m.Phone,
		Profile:   m.Profile,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// GET /socios
func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.members.List(c.Request.Context())
	if err != nil {
		h.writeError(c, "list members", err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// GET /socios/:id
func (h *MemberHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, errInvalidID)
		return
	}

	m, err := h.members.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "get member", err)
		return
	}
	c.JSON(http.StatusOK, toMemberResponse(m))
}

// POST /socios
func (h *MemberHandler) Create(c *gin.Context) {
	var req createMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	m, err := h.members.Create(c.Request.Context(), usecase.CreateMemberInput{
		Email:   req.Email,
		Name:    req.Name,
		Phone:   req.Phone,
		Profile: req.Profile,
	})
	if err != nil {
		h.writeError(c, "create member", err)
		return
	}
	c.JSON(http.StatusCreated, toMemberResponse(m))
}
