package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authdomain "github.com/evalia-hr/evalia/internal/auth/domain"
	"github.com/evalia-hr/evalia/internal/auth/token"
	"github.com/evalia-hr/evalia/internal/config"
	invitationdomain "github.com/evalia-hr/evalia/internal/invitation/domain"
	"github.com/evalia-hr/evalia/internal/ratelimit"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, cfg config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(CORS(cfg.CORSOrigins))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, cfg config.Config) *gin.Engine {
	return NewEngine(log, cfg)
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	authsvc       authdomain.Service
	invitationsvc invitationdomain.Service
	issuer        *token.Issuer
	limiter       ratelimit.Limiter
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	Authsvc       authdomain.Service
	Invitationsvc invitationdomain.Service
	Issuer        *token.Issuer
	Limiter       ratelimit.Limiter
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		authsvc:       p.Authsvc,
		invitationsvc: p.Invitationsvc,
		issuer:        p.Issuer,
		limiter:       p.Limiter,
	}

	svc.registerAuthRoutes()
	svc.registerInvitationRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.RateLimit(), s.Login)
	auth.POST("/register/admin", s.RateLimit(), s.RegisterAdmin)
	auth.POST("/forgot", s.RateLimit(), s.Forgot)
	auth.GET("/check", s.AuthRequired(), s.Check)
}

func (s *Server) registerInvitationRoutes() {
	inv := s.engine.Group("/invitations")

	// Public: token lookup and acceptance happen before a session exists.
	inv.GET("/by-token/:token", s.RateLimit(), s.GetInvitationByToken)
	inv.POST("/company/accept/:token", s.RateLimit(), s.AcceptCompanyInvitation)
	inv.POST("/employee/accept/:token", s.RateLimit(), s.AcceptEmployeeInvitation)

	inv.POST("/company", s.AuthRequired(), s.RequireRole(authdomain.RoleAdmin), s.CreateCompanyInvitation)
	inv.POST("/employee", s.AuthRequired(), s.RequireRole(authdomain.RoleCompany), s.CreateEmployeeInvitation)
	inv.GET("", s.AuthRequired(), s.RequireRole(authdomain.RoleAdmin, authdomain.RoleCompany), s.ListInvitations)
	inv.DELETE("/company/:token", s.AuthRequired(), s.RequireRole(authdomain.RoleAdmin), s.CancelCompanyInvitation)
	inv.DELETE("/employee/:token", s.AuthRequired(), s.RequireRole(authdomain.RoleCompany), s.CancelEmployeeInvitation)
}

func run(lc fx.Lifecycle, log *zap.Logger, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
