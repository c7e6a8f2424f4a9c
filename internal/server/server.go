package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"voice-of-kalki/internal/ai"
	"voice-of-kalki/internal/model"
	"voice-of-kalki/internal/store"
)

// FeedCache is the slice of the redis feed cache the handlers need.
type FeedCache interface {
	Get(ctx context.Context, lang model.Language, region model.Region, city string, genre model.Genre) ([]model.NewsItem, bool)
	Set(ctx context.Context, lang model.Language, region model.Region, city string, genre model.Genre, items []model.NewsItem) error
}

// SocialStore is the slice of the remote store backing the social routes.
type SocialStore interface {
	ConnectAccount(ctx context.Context, acct model.SocialMediaAccount) (string, error)
	DisconnectAccount(ctx context.Context, accountID string) error
	ConnectedAccounts(ctx context.Context, userID string) ([]model.SocialMediaAccount, error)
	AccountByID(ctx context.Context, id string) (*model.SocialMediaAccount, error)
	CreatePost(ctx context.Context, post model.SocialMediaPost) (string, error)
	PostsByUser(ctx context.Context, userID string, status model.PostStatus) ([]model.SocialMediaPost, error)
	DeletePost(ctx context.Context, postID string) error
	MarkPostPublished(ctx context.Context, postID, externalPostID string, at time.Time) error
	MarkPostFailed(ctx context.Context, postID string) error
}

// Publisher posts content to an external platform.
type Publisher interface {
	Publish(ctx context.Context, platform, content, accessToken string) (string, error)
}

// ArticleStore archives fetched stories and serves them back out.
type ArticleStore interface {
	InsertArticle(ctx context.Context, item model.NewsItem) error
	Articles(ctx context.Context, category, region string, limit, offset int) ([]model.NewsItem, error)
}

// InterestStore backs the followed-topics routes and the feeds derived from
// them.
type InterestStore interface {
	AddInterest(ctx context.Context, userID, category, region string) error
	RemoveInterest(ctx context.Context, userID, category, region string) error
	InterestsByUser(ctx context.Context, userID string) ([]model.UserInterest, error)
	ArticlesByInterests(ctx context.Context, userID string, limit int) ([]model.NewsItem, error)
	TrendingArticles(ctx context.Context, limit int) ([]model.NewsItem, error)
}

// Server wires the HTTP handlers to their backends. Cache and social may be
// nil; the corresponding routes degrade (cache misses, 503 on social).
type Server struct {
	fetcher   ai.Fetcher
	cache     FeedCache
	stores    *store.Manager
	social    SocialStore
	publisher Publisher
	articles  ArticleStore
	interests InterestStore

	// defaultCity backs city-scoped fetches when the request names none.
	defaultCity string

	// anonUser backs requests that carry no user_id. Empty means such
	// requests are rejected instead.
	anonUser string
}

func New(fetcher ai.Fetcher, cache FeedCache, stores *store.Manager, social SocialStore, publisher Publisher) *Server {
	return &Server{
		fetcher:   fetcher,
		cache:     cache,
		stores:    stores,
		social:    social,
		publisher: publisher,
	}
}

// WithAnonymousUser sets the identity used when a request omits user_id.
func (s *Server) WithAnonymousUser(id string) *Server {
	s.anonUser = id
	return s
}

// WithArticleStore enables archiving of fetched stories.
func (s *Server) WithArticleStore(st ArticleStore) *Server {
	s.articles = st
	return s
}

// WithInterestStore enables the followed-topics routes.
func (s *Server) WithInterestStore(st InterestStore) *Server {
	s.interests = st
	return s
}

// WithDefaultCity sets the city used for city-scoped fetches when the
// request does not name one.
func (s *Server) WithDefaultCity(city string) *Server {
	s.defaultCity = city
	return s
}

// Router builds the gin engine with CORS and all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.GET("/health", s.getHealth)
	r.GET("/news", s.getNews)
	r.GET("/news/city", s.getCity)
	r.GET("/news/archive", s.getArchive)
	r.GET("/news/trending", s.getTrending)
	r.GET("/news/for-you", s.getForYou)

	r.GET("/interests", s.getInterests)
	r.POST("/interests", s.postAddInterest)
	r.DELETE("/interests", s.deleteInterest)

	r.GET("/bookmarks", s.getBookmarks)
	r.POST("/bookmarks/save", s.postToggleSave)
	r.POST("/bookmarks/read-later", s.postToggleReadLater)
	r.POST("/reactions", s.postReaction)

	r.GET("/social/accounts", s.getAccounts)
	r.POST("/social/accounts", s.postConnectAccount)
	r.DELETE("/social/accounts/:id", s.deleteAccount)
	r.GET("/social/posts", s.getPosts)
	r.POST("/social/posts", s.postCreatePost)
	r.DELETE("/social/posts/:id", s.deletePost)
	r.POST("/social/publish", s.postPublish)

	return r
}

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"social": s.social != nil,
		"cache":  s.cache != nil,
	})
}
