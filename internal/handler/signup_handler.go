package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"wedding/guesthub/internal/model"
	"wedding/guesthub/internal/service"
	"wedding/guesthub/pkg/response"
)

type SignupHandler struct {
	signupService service.SignupService
}

func NewSignupHandler(signupService service.SignupService) *SignupHandler {
	return &SignupHandler{signupService: signupService}
}

// CompleteSignupRequest carries the attributes captured at registration.
// Email defaults to the token's email claim.
type CompleteSignupRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Mobile    string `json:"mobile"`
}

func (h *SignupHandler) CompleteSignup(c *gin.Context) {
	claims, err := getClaimsFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	var req CompleteSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Email == "" {
		req.Email = claims.Email
	}

	result, err := h.signupService.CompleteSignup(c.Request.Context(), model.AccountIdentity{
		AccountID: claims.Subject,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Mobile:    req.Mobile,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidIdentity):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, "complete signup failed")
		}
		return
	}

	response.Success(c, result)
}
