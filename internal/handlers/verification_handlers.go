package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/travelbridge/internal/middleware"
	"github.com/01moynul/travelbridge/internal/models"
	"github.com/01moynul/travelbridge/internal/verification"
)

//
// --- Admin: Account Verification Handlers ---
//

type approveInput struct {
	Email     string           `json:"email"`
	RiskLevel *int             `json:"riskLevel"`
	Notes     *string          `json:"notes"`
	Checklist models.Checklist `json:"checklist"`
}

type rejectInput struct {
	Reason string `json:"reason"`
}

type statusInput struct {
	Action string `json:"action"`
}

// ApproveAccount is the handler for POST /v1/admin/accounts/:type/:id/approve
func (h *Handlers) ApproveAccount(c *gin.Context) {
	// 1. --- Bind Input ---
	var input approveInput
	if !bindOptionalJSON(c, &input) {
		return
	}

	// 2. --- Run Workflow ---
	res := h.Reviews.Approve(c.Request.Context(), middleware.CallerFrom(c), verification.ApproveRequest{
		AccountID:   c.Param("id"),
		AccountType: models.AccountType(c.Param("type")),
		Email:       input.Email,
		Review: &models.ReviewMetadata{
			RiskLevel: input.RiskLevel,
			Notes:     input.Notes,
			Checklist: input.Checklist,
		},
	})

	// 3. --- Send Response ---
	h.respond(c, res)
}

// RejectSupplier is the handler for POST /v1/admin/suppliers/:id/reject
func (h *Handlers) RejectSupplier(c *gin.Context) {
	var input rejectInput
	if !bindOptionalJSON(c, &input) {
		return
	}

	res := h.Reviews.Reject(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), input.Reason)
	h.respond(c, res)
}

// UpdateAccountStatus is the handler for POST /v1/admin/accounts/:type/:id/status
// It freezes, deactivates, or sends a password reset for the account.
func (h *Handlers) UpdateAccountStatus(c *gin.Context) {
	var input statusInput
	if !bindOptionalJSON(c, &input) {
		return
	}

	res := h.Reviews.UpdateStatus(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), input.Action, models.AccountType(c.Param("type")))
	h.respond(c, res)
}

// ResendInvite is the handler for POST /v1/admin/accounts/:type/:id/resend-invite
func (h *Handlers) ResendInvite(c *gin.Context) {
	res := h.Reviews.ResendInvite(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), models.AccountType(c.Param("type")))
	h.respond(c, res)
}

// GetVerificationQueue is the handler for GET /v1/admin/verification/queue
// It lists pending agents or suppliers, oldest first.
func (h *Handlers) GetVerificationQueue(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	caller := middleware.CallerFrom(c)

	accounts, err := h.Reviews.PendingQueue(c.Request.Context(), caller, models.AccountType(c.Query("type")), limit)
	if err != nil {
		c.JSON(statusFor(err, caller != nil), gin.H{"success": false, "error": err.Error()})
		return
	}
	if accounts == nil {
		accounts = []*models.Account{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"accounts": accounts,
	})
}

// bindOptionalJSON decodes the body when there is one. An empty body leaves
// the input zero-valued so the workflow can report what is missing. A chunked
// request has no declared length, so an empty one only shows up as io.EOF.
func bindOptionalJSON(c *gin.Context, dst interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return false
	}
	return true
}

func (h *Handlers) respond(c *gin.Context, res verification.Result) {
	status := http.StatusOK
	if !res.Success {
		status = statusFor(res.Err, middleware.CallerFrom(c) != nil)
	}
	if res.Partial() {
		h.Log.Warn().Str("path", c.FullPath()).Str("error", res.Error).Msg("review committed with follow-up required")
	}
	c.JSON(status, res)
}

// statusFor maps a classified workflow error onto an HTTP status.
func statusFor(err error, authenticated bool) int {
	switch {
	case errors.Is(err, verification.ErrUnauthorized):
		if !authenticated {
			return http.StatusUnauthorized
		}
		return http.StatusForbidden
	case errors.Is(err, verification.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, verification.ErrInvalidAction), errors.Is(err, verification.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, verification.ErrAccountBusy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
