package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"voice-of-kalki/internal/model"
	"voice-of-kalki/internal/store"
)

type bookmarkRequest struct {
	UserID  string         `json:"user_id"`
	Article model.NewsItem `json:"article"`
}

type reactionRequest struct {
	UserID   string `json:"user_id"`
	NewsID   string `json:"news_id"`
	Reaction string `json:"reaction"`
}

func (s *Server) userStore(c *gin.Context, userID string) *store.Store {
	if userID == "" {
		userID = s.anonUser
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user_id"})
		return nil
	}
	st, err := s.stores.For(c.Request.Context(), userID)
	if err != nil {
		slog.Error("server: opening user store failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Store error"})
		return nil
	}
	return st
}

func (s *Server) getBookmarks(c *gin.Context) {
	st := s.userStore(c, c.Query("user_id"))
	if st == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"saved":           st.Saved(),
		"read_later":      st.ReadLater(),
		"reactions":       st.Reactions(),
		"cloud_connected": st.CloudConnected(),
	})
}

func (s *Server) postToggleSave(c *gin.Context) {
	s.toggleBookmark(c, model.BookmarkSaved)
}

func (s *Server) postToggleReadLater(c *gin.Context) {
	s.toggleBookmark(c, model.BookmarkReadLater)
}

func (s *Server) toggleBookmark(c *gin.Context, kind model.BookmarkKind) {
	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Article.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bookmark payload"})
		return
	}
	st := s.userStore(c, req.UserID)
	if st == nil {
		return
	}
	var added bool
	if kind == model.BookmarkSaved {
		added = st.ToggleSave(req.Article)
	} else {
		added = st.ToggleReadLater(req.Article)
	}
	c.JSON(http.StatusOK, gin.H{
		"bookmarked": added,
		"sync":       st.SyncStatus(kind, req.Article.ID),
	})
}

func (s *Server) postReaction(c *gin.Context) {
	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.NewsID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reaction payload"})
		return
	}
	kind := model.Reaction(req.Reaction)
	if kind != model.ReactionUp && kind != model.ReactionDown {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reaction"})
		return
	}
	st := s.userStore(c, req.UserID)
	if st == nil {
		return
	}
	result := st.React(req.NewsID, kind)
	c.JSON(http.StatusOK, gin.H{
		"reaction": result,
		"sync":     st.ReactionSyncStatus(req.NewsID),
	})
}
