package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"syncportal/internal/config"
	"syncportal/internal/middleware"
	"syncportal/internal/models"
	"syncportal/internal/review"
	"syncportal/internal/service"
	"syncportal/internal/session"
	"syncportal/internal/verify"
	"syncportal/internal/views"
)

type Deps struct {
	Log      zerolog.Logger
	Config   *config.AppConfig
	Auth     *service.AuthService
	Sessions *session.Manager
	Views    *views.Builder
	Verifier *verify.Verifier
	Queue    *review.Queue
	// DB and Cache are reported by the health check when set.
	DB    *pgxpool.Pool
	Cache *redis.Client
}

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	authService *service.AuthService
	sessions    *session.Manager
	views       *views.Builder
	verifier    *verify.Verifier
	queue       *review.Queue
	db          *pgxpool.Pool
	cache       *redis.Client
}

func NewHandlerSet(deps Deps) HandlerSet {
	return HandlerSet{
		log:         deps.Log,
		cfg:         deps.Config,
		authService: deps.Auth,
		sessions:    deps.Sessions,
		views:       deps.Views,
		verifier:    deps.Verifier,
		queue:       deps.Queue,
		db:          deps.DB,
		cache:       deps.Cache,
	}
}

func (h HandlerSet) Register(engine *gin.Engine) {
	engine.Use(middleware.Session(h.sessions, h.cfg.Security.SecureCookies, h.log))

	engine.GET("/healthz", h.Health)

	engine.GET("/", h.Root)
	engine.POST("/login/identity", h.CheckIdentity)
	engine.POST("/login", h.Login)
	engine.POST("/logout", h.Logout)

	member := engine.Group("/")
	member.Use(middleware.RequireRoles())
	member.GET("/dashboard", h.Dashboard)
	member.POST("/verify", h.Verify)

	student := engine.Group("/")
	student.Use(middleware.RequireRoles(models.UserRoleStudent))
	student.GET("/profile", h.Profile)
	student.GET("/achievements", h.Achievements)
	student.GET("/skill-gap", h.SkillGap)

	hr := engine.Group("/")
	hr.Use(middleware.RequireRoles(models.UserRoleHR))
	hr.GET("/hr-dashboard", h.HRDashboard)
	hr.GET("/hr-dashboard/candidates/:id/metrics", h.CandidateMetrics)
	hr.GET("/review", h.Review)
	hr.POST("/review/:id/decision", h.Decide)

	engine.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusFound, middleware.LoginPath)
	})
}

// respond writes a view unless the client has gone away, in which case the
// result is dropped.
func (h HandlerSet) respond(c *gin.Context, view any, err error) {
	if err != nil {
		if errors.Is(err, context.Canceled) || c.Request.Context().Err() != nil {
			c.Abort()
			return
		}
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h HandlerSet) internalError(c *gin.Context, err error) {
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Str("request_id", middleware.GetRequestID(c)).Msg("request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}
