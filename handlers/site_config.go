package handlers

import (
	"net/http"
	"tmail/models"

	"github.com/gin-gonic/gin"
)

type SiteConfigSaveRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

// SiteConfigSave updates a runtime setting, e.g. EMAIL_DOMAINS
func SiteConfigSave(c *gin.Context, user *models.User) {
	postReq := SiteConfigSaveRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := models.SiteConfigSet(postReq.Key, postReq.Value); err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func SiteConfigGet(c *gin.Context, user *models.User) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}
	value, ok := models.SiteConfigGet(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "key": key, "value": value})
}
