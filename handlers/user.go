package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"
	"tmail/auth"
	"tmail/models"

	"github.com/gin-gonic/gin"
)

type UserRegisterRequest struct {
	Name           string `json:"name"`
	Username       string `json:"username" binding:"required"`
	Email          string `json:"email"`
	Password       string `json:"password" binding:"required"`
	InvitationCode string `json:"invitationCode"`
}

type UserLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserDeleteRequest struct {
	UserID uint64 `json:"userId" binding:"required"`
}

// UserRegister creates an account and, if an invitation code was supplied,
// redeems it right away. The code is checked before the account is created
// so a bad code doesn't leave a roleless user behind.
func UserRegister(c *gin.Context) {
	postReq := UserRegisterRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if postReq.InvitationCode != "" {
		if _, err := models.InvitationValidate(postReq.InvitationCode); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	user, err := models.UserCreate(postReq.Name, postReq.Username, postReq.Email, postReq.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	role := models.RoleName("")
	if postReq.InvitationCode != "" {
		role, err = models.InvitationRedeem(&user, postReq.InvitationCode)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, models.ErrMailboxProvision) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
	}
	session := auth.LoadSession(c)
	session.LoginUser(&user)
	c.JSON(http.StatusOK, gin.H{"error": "", "id": user.ID, "name": user.Name, "role": role})
}

func UserLogin(c *gin.Context) {
	postReq := UserLoginRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, success := models.UserLogin(postReq.Username, postReq.Password)
	if !success {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid login"})
		return
	}
	session := auth.LoadSession(c)
	session.LoginUser(&user)
	c.JSON(http.StatusOK, gin.H{"error": "", "name": user.Name, "roles": user.Roles()})
}

func UserLogout(c *gin.Context, user *models.User) {
	auth.LoadSession(c).LogoutUser()
	c.JSON(http.StatusOK, OKResponse)
}

func UserGetStatus(c *gin.Context, user *models.User) {
	c.JSON(http.StatusOK, gin.H{"error": "", "name": user.Name, "roles": user.Roles()})
}

// UserListHandler returns a page of users with role and mailbox stats
func UserListHandler(c *gin.Context, user *models.User) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	roleFilter := c.Query("role")
	hasExpiredMailbox := c.Query("hasExpiredMailbox") == "true"
	entries, total, err := models.UserList(roleFilter, page, limit, hasExpiredMailbox, time.Now())
	if err != nil {
		log.Printf("Failed to list users: %v", err)
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": entries,
		"pagination": gin.H{
			"page":    page,
			"limit":   limit,
			"total":   total,
			"hasMore": int64((page-1)*limit+len(entries)) < total,
		},
	})
}

func UserDelete(c *gin.Context, user *models.User) {
	postReq := UserDeleteRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := models.UserDelete(user, postReq.UserID); err != nil {
		switch {
		case errors.Is(err, models.ErrSelfDelete):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrDeleteEmperor):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			log.Printf("Failed to delete user %d: %v", postReq.UserID, err)
			c.JSON(http.StatusInternalServerError, DBError2Response)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
