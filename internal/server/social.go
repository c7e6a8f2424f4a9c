package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"voice-of-kalki/internal/model"
)

// connectAccountRequest carries tokens on the way in; the model never
// serializes them back out.
type connectAccountRequest struct {
	UserID       string `json:"user_id"`
	Platform     string `json:"platform"`
	AccountName  string `json:"account_name"`
	AccountID    string `json:"account_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type publishRequest struct {
	PostID      string `json:"post_id"`
	Platform    string `json:"platform"`
	Content     string `json:"content"`
	AccessToken string `json:"access_token"`
}

func (s *Server) requireSocial(c *gin.Context) bool {
	if s.social == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Social store not configured"})
		return false
	}
	return true
}

func (s *Server) getAccounts(c *gin.Context) {
	if !s.requireSocial(c) {
		return
	}
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user_id"})
		return
	}
	accounts, err := s.social.ConnectedAccounts(c.Request.Context(), userID)
	if err != nil {
		slog.Error("server: listing accounts failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (s *Server) postConnectAccount(c *gin.Context) {
	if !s.requireSocial(c) {
		return
	}
	var req connectAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.Platform == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account payload"})
		return
	}
	id, err := s.social.ConnectAccount(c.Request.Context(), model.SocialMediaAccount{
		UserID:       req.UserID,
		Platform:     req.Platform,
		AccountName:  req.AccountName,
		AccountID:    req.AccountID,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		IsConnected:  true,
	})
	if err != nil {
		slog.Error("server: connecting account failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) deleteAccount(c *gin.Context) {
	if !s.requireSocial(c) {
		return
	}
	if err := s.social.DisconnectAccount(c.Request.Context(), c.Param("id")); err != nil {
		slog.Error("server: disconnecting account failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"disconnected": true})
}

func (s *Server) getPosts(c *gin.Context) {
	if !s.requireSocial(c) {
		return
	}
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user_id"})
		return
	}
	posts, err := s.social.PostsByUser(c.Request.Context(), userID, model.PostStatus(c.Query("status")))
	if err != nil {
		slog.Error("server: listing posts failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (s *Server) postCreatePost(c *gin.Context) {
	if !s.requireSocial(c) {
		return
	}
	var post model.SocialMediaPost
	if err := c.ShouldBindJSON(&post); err != nil || post.UserID == "" || post.Platform == "" || post.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post payload"})
		return
	}
	id, err := s.social.CreatePost(c.Request.Context(), post)
	if err != nil {
		slog.Error("server: creating post failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) deletePost(c *gin.Context) {
	if !s.requireSocial(c) {
		return
	}
	if err := s.social.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		slog.Error("server: deleting post failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// postPublish publishes one post immediately and records the outcome on the
// post row. The response always carries a success/error envelope.
func (s *Server) postPublish(c *gin.Context) {
	if !s.requireSocial(c) {
		return
	}
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		req.PostID == "" || req.Platform == "" || req.Content == "" || req.AccessToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required fields"})
		return
	}
	ctx := c.Request.Context()
	externalID, err := s.publisher.Publish(ctx, req.Platform, req.Content, req.AccessToken)
	if err != nil {
		slog.Error("server: publish failed", "post_id", req.PostID, "platform", req.Platform, "error", err)
		if markErr := s.social.MarkPostFailed(ctx, req.PostID); markErr != nil {
			slog.Error("server: marking post failed errored", "post_id", req.PostID, "error", markErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err := s.social.MarkPostPublished(ctx, req.PostID, externalID, time.Now()); err != nil {
		slog.Error("server: marking post published errored", "post_id", req.PostID, "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "external_post_id": externalID})
}
