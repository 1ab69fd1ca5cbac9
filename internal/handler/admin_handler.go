package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"wedding/guesthub/internal/service"
	"wedding/guesthub/pkg/response"
)

type AdminHandler struct {
	guestService  service.GuestService
	signupService service.SignupService
	logger        *zap.Logger
}

func NewAdminHandler(guestService service.GuestService, signupService service.SignupService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		guestService:  guestService,
		signupService: signupService,
		logger:        logger.Named("admin"),
	}
}

type ImportGuestsRequest struct {
	Guests []service.GuestInput `json:"guests" binding:"required,min=1"`
}

type LinkGuestRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// ImportGuests adds guest-list entries in the order given.
func (h *AdminHandler) ImportGuests(c *gin.Context) {
	var req ImportGuestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	guests, err := h.guestService.ImportGuests(c.Request.Context(), req.Guests)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidGuest):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, "failed to import guests")
		}
		return
	}

	response.Success(c, guests)
}

func (h *AdminHandler) ListUnmatchedGuests(c *gin.Context) {
	guests, err := h.guestService.ListUnmatchedGuests(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to list unmatched guests")
		return
	}

	response.Success(c, guests)
}

func (h *AdminHandler) ListUnlinkedUsers(c *gin.Context) {
	users, err := h.guestService.ListUnlinkedUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("list unlinked users failed", zap.Error(err))
		response.ServiceUnavailable(c, "failed to list unlinked users")
		return
	}

	response.Success(c, users)
}

// LinkGuest manually attaches an account to a guest entry.
func (h *AdminHandler) LinkGuest(c *gin.Context) {
	adminID, err := getAccountIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	guestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid guest id")
		return
	}

	var req LinkGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	if !h.guestService.AdminLinkUserToGuest(ctx, req.UserID, guestID, adminID) {
		response.Conflict(c, "link failed: guest missing or already claimed, or account already linked")
		return
	}

	if err := h.signupService.Forget(ctx, req.UserID); err != nil {
		h.logger.Warn("drop cached signup outcome failed", zap.String("account_id", req.UserID), zap.Error(err))
	}

	response.Success(c, gin.H{"guest_id": guestID, "user_id": req.UserID})
}

func (h *AdminHandler) ListLinks(c *gin.Context) {
	guestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid guest id")
		return
	}

	links, err := h.guestService.ListLinkHistory(c.Request.Context(), guestID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGuestNotFound):
			response.NotFound(c, err.Error())
		default:
			response.InternalError(c, "failed to list link history")
		}
		return
	}

	response.Success(c, links)
}
