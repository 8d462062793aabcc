package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lehuyba/InterviewAce/config"
	"github.com/lehuyba/InterviewAce/database"
	adminctrl "github.com/lehuyba/InterviewAce/internal/controller/admin"
	"github.com/lehuyba/InterviewAce/internal/controller/middleware"
	userctrl "github.com/lehuyba/InterviewAce/internal/controller/user"
	"github.com/lehuyba/InterviewAce/internal/logger"
	"github.com/lehuyba/InterviewAce/internal/model"
	"github.com/lehuyba/InterviewAce/internal/repository"
	"github.com/lehuyba/InterviewAce/internal/service"
	"github.com/lehuyba/InterviewAce/internal/session"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title InterviewAce API
// @version 1.0
// @description Technical interview practice platform: scheduled interviews, recorded answers and AI evaluation with offline fallback.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			database.NewRedisClient,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewUserRepository,
			repository.NewTechStackRepository,
			repository.NewRoleRepository,
			repository.NewQuestionRepository,
			repository.NewInterviewRepository,
			repository.NewAnswerRepository,
		),

		fx.Provide(
			service.NewAuthService,
			service.NewCatalogService,
			service.NewUploadService,
			service.NewTranscriber,
			service.NewEmailService,
			service.NewGeminiEvaluator,
			service.NewHeuristicEvaluator,
			// The assembler and finalize path score through the generic
			// evaluator; Gemini is the configured implementation.
			func(g service.GeminiEvaluator) service.Evaluator { return g },
			service.NewAnswerAssembler,
			service.NewAnswerService,
			service.NewInterviewService,
		),

		fx.Provide(
			NewProgressStore,
			session.NewService,
		),

		fx.Provide(
			userctrl.NewAuthController,
			userctrl.NewInterviewController,
			userctrl.NewAnswerController,
			userctrl.NewMediaController,
			userctrl.NewSessionController,
			adminctrl.NewCatalogController,
			adminctrl.NewInterviewController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// NewProgressStore mirrors session snapshots into Redis and process memory,
// reading back whichever copy is freshest.
func NewProgressStore(client *redis.Client) session.ProgressStore {
	return session.NewRedundantStore(session.NewRedisStore(client), session.NewMemoryStore())
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	auth service.AuthService,
	uploads service.UploadService,
	authCtrl *userctrl.AuthController,
	interviewCtrl *userctrl.InterviewController,
	answerCtrl *userctrl.AnswerController,
	mediaCtrl *userctrl.MediaController,
	sessionCtrl *userctrl.SessionController,
	catalogCtrl *adminctrl.CatalogController,
	adminInterviewCtrl *adminctrl.InterviewController,
) {
	// Recordings are served as plain static files.
	router.Static("/uploads", uploads.Dir())

	api := router.Group("/api/v1")

	api.POST("/auth/register", authCtrl.Register)
	api.POST("/auth/login", authCtrl.Login)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(auth))
	{
		authed.GET("/auth/me", authCtrl.Me)

		authed.GET("/interviews", interviewCtrl.List)
		authed.GET("/interviews/:id", interviewCtrl.Get)
		authed.POST("/interviews/:id/start", interviewCtrl.Start)
		authed.POST("/interviews/:id/finalize", interviewCtrl.Finalize)

		authed.POST("/interviews/:id/session", sessionCtrl.Start)
		authed.GET("/interviews/:id/session", sessionCtrl.State)
		authed.POST("/interviews/:id/session/answering", sessionCtrl.StartAnswering)
		authed.POST("/interviews/:id/session/answer", sessionCtrl.Submit)
		authed.POST("/interviews/:id/session/skip", sessionCtrl.Skip)
		authed.POST("/interviews/:id/session/next", sessionCtrl.Next)

		authed.POST("/answers", answerCtrl.Upsert)
		authed.GET("/answers", answerCtrl.ListByInterview)
		authed.PUT("/answers/:id", answerCtrl.Update)
		authed.POST("/answers/batch", answerCtrl.Batch)
		authed.POST("/answers/:id/audio/reload", answerCtrl.ReloadAudio)

		authed.POST("/uploads", mediaCtrl.Upload)
		authed.POST("/ai/transcribe", mediaCtrl.Transcribe)
		authed.POST("/ai/evaluate", mediaCtrl.Evaluate)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAuth(auth), middleware.RequireAdmin())
	{
		admin.POST("/techstacks", catalogCtrl.CreateTechStack)
		admin.GET("/techstacks", catalogCtrl.ListTechStacks)
		admin.PUT("/techstacks/:id", catalogCtrl.UpdateTechStack)
		admin.DELETE("/techstacks/:id", catalogCtrl.DeleteTechStack)

		admin.POST("/roles", catalogCtrl.CreateRole)
		admin.GET("/roles", catalogCtrl.ListRoles)
		admin.PUT("/roles/:id", catalogCtrl.UpdateRole)
		admin.DELETE("/roles/:id", catalogCtrl.DeleteRole)

		admin.POST("/questions", catalogCtrl.CreateQuestion)
		admin.GET("/questions", catalogCtrl.ListQuestions)
		admin.PUT("/questions/:id", catalogCtrl.UpdateQuestion)
		admin.DELETE("/questions/:id", catalogCtrl.DeleteQuestion)

		admin.POST("/interviews", adminInterviewCtrl.Create)
		admin.PUT("/interviews/:id", adminInterviewCtrl.Update)
		admin.POST("/interviews/:id/cancel", adminInterviewCtrl.Cancel)
		admin.POST("/interviews/:id/invitation", adminInterviewCtrl.SendInvitation)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("InterviewAce API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// AutoMigrateDB keeps the schema in line with the models at startup.
func AutoMigrateDB(db *gorm.DB) {
	err := db.AutoMigrate(
		&model.User{},
		&model.TechStack{},
		&model.Role{},
		&model.Question{},
		&model.Interview{},
		&model.Answer{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Database auto-migration failed")
	}
	log.Info().Msg("Database auto-migration completed")
}
