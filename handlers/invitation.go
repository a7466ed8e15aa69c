package handlers

import (
	"errors"
	"log"
	"net/http"
	"tmail/models"

	"github.com/gin-gonic/gin"
)

type InvitationApplyRequest struct {
	Code string `json:"code"`
}

type InvitationCreateRequest struct {
	Role            string `json:"role" binding:"required"`
	MailboxExpiryMs *int64 `json:"mailboxExpiryMs"`
	ExpiresInDays   *int   `json:"expiresInDays"` // absent means 7 days
}

type InvitationValidateRequest struct {
	Code string `json:"code"`
}

// InvitationApply redeems an invitation code for the logged-in user
func InvitationApply(c *gin.Context, user *models.User) {
	postReq := InvitationApplyRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if postReq.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invitation code is required"})
		return
	}
	role, err := models.InvitationRedeem(user, postReq.Code)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUserHasRole),
			errors.Is(err, models.ErrInvitationNotFound),
			errors.Is(err, models.ErrInvitationUsed),
			errors.Is(err, models.ErrInvitationExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrMailboxProvision):
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			log.Printf("Failed to apply invitation code: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to apply invitation code"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "role": role})
}

// InvitationCreate issues a new code; gated by the manage_api_key capability
func InvitationCreate(c *gin.Context, user *models.User) {
	postReq := InvitationCreateRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	expiresInDays := 7
	if postReq.ExpiresInDays != nil {
		expiresInDays = *postReq.ExpiresInDays
	}
	invitation, err := models.InvitationIssue(user, models.RoleName(postReq.Role), postReq.MailboxExpiryMs, expiresInDays)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidRole),
			errors.Is(err, models.ErrExpiresOutOfRange),
			errors.Is(err, models.ErrMailboxExpiryRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("Failed to generate invitation code: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate invitation code"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":            invitation.Code,
		"role":            invitation.Role,
		"mailboxExpiryMs": invitation.MailboxExpiryMs,
		"expiresAt":       invitation.ExpiresAt,
	})
}

// InvitationValidate checks a code without consuming it. Unusable codes are
// reported with 200 and valid=false, only an empty code is a 400.
func InvitationValidate(c *gin.Context) {
	postReq := InvitationValidateRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": err.Error()})
		return
	}
	if postReq.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": "invitation code is required"})
		return
	}
	invitation, err := models.InvitationValidate(postReq.Code)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvitationNotFound),
			errors.Is(err, models.ErrInvitationUsed),
			errors.Is(err, models.ErrInvitationExpired):
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		default:
			log.Printf("Failed to validate invitation code: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"valid": false, "error": "failed to validate invitation code"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":           true,
		"role":            invitation.Role,
		"mailboxExpiryMs": invitation.MailboxExpiryMs,
	})
}
