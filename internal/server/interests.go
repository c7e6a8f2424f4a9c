package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type interestRequest struct {
	UserID   string `json:"user_id"`
	Category string `json:"category"`
	Region   string `json:"region"`
}

func (s *Server) requireInterests(c *gin.Context) bool {
	if s.interests == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Interest store not configured"})
		return false
	}
	return true
}

func (s *Server) getInterests(c *gin.Context) {
	if !s.requireInterests(c) {
		return
	}
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user_id"})
		return
	}
	interests, err := s.interests.InterestsByUser(c.Request.Context(), userID)
	if err != nil {
		slog.Error("server: listing interests failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"interests": interests})
}

func (s *Server) postAddInterest(c *gin.Context) {
	if !s.requireInterests(c) {
		return
	}
	var req interestRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.Category == "" || req.Region == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid interest payload"})
		return
	}
	if err := s.interests.AddInterest(c.Request.Context(), req.UserID, req.Category, req.Region); err != nil {
		slog.Error("server: adding interest failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"added": true})
}

func (s *Server) deleteInterest(c *gin.Context) {
	if !s.requireInterests(c) {
		return
	}
	userID, category, region := c.Query("user_id"), c.Query("category"), c.Query("region")
	if userID == "" || category == "" || region == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user_id, category, or region"})
		return
	}
	if err := s.interests.RemoveInterest(c.Request.Context(), userID, category, region); err != nil {
		slog.Error("server: removing interest failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

func (s *Server) getForYou(c *gin.Context) {
	if !s.requireInterests(c) {
		return
	}
	userID := c.Query("user_id")
	if userID == "" {
		userID = s.anonUser
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user_id"})
		return
	}
	items, err := s.interests.ArticlesByInterests(c.Request.Context(), userID, getQueryLimit(c))
	if err != nil {
		slog.Error("server: interest feed failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": items, "count": len(items)})
}

func (s *Server) getTrending(c *gin.Context) {
	if !s.requireInterests(c) {
		return
	}
	items, err := s.interests.TrendingArticles(c.Request.Context(), getQueryLimit(c))
	if err != nil {
		slog.Error("server: trending feed failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": items, "count": len(items)})
}
