package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"wedding/guesthub/internal/model"
	"wedding/guesthub/internal/service"
	"wedding/guesthub/pkg/response"
)

type GuestHandler struct {
	guestService service.GuestService
}

func NewGuestHandler(guestService service.GuestService) *GuestHandler {
	return &GuestHandler{guestService: guestService}
}

type SubmitRSVPRequest struct {
	Status string `json:"status" binding:"required"`
}

// MyGuest returns the guest entry linked to the caller.
func (h *GuestHandler) MyGuest(c *gin.Context) {
	accountID, err := getAccountIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	guest, err := h.guestService.GetLinkedGuest(c.Request.Context(), accountID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGuestNotLinked):
			response.NotFound(c, err.Error())
		default:
			response.InternalError(c, "load guest failed")
		}
		return
	}

	response.Success(c, guest)
}

func (h *GuestHandler) SubmitRSVP(c *gin.Context) {
	accountID, err := getAccountIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	var req SubmitRSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	guest, err := h.guestService.SubmitRSVP(c.Request.Context(), accountID, model.RSVPStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRSVPStatus):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrGuestNotLinked):
			response.NotFound(c, err.Error())
		default:
			response.InternalError(c, "submit rsvp failed")
		}
		return
	}

	response.Success(c, guest)
}
