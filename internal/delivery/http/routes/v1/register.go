package v1

import (
	"log"

	"talent-match/internal/config"
	"talent-match/internal/database"
	"talent-match/internal/delivery/http/handler"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/infrastructure/ai"
	"talent-match/internal/infrastructure/queue"
	"talent-match/internal/infrastructure/storage"
	"talent-match/internal/pkg/jwt"
	"talent-match/internal/repository"
	"talent-match/internal/usecase"
	useruc "talent-match/internal/usecase/user"
	"talent-match/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Deps are the long-lived infrastructure clients the API is built on.
type Deps struct {
	Config    config.Config
	DB        database.DB
	Cache     usecase.Cache
	Store     storage.Store
	Publisher queue.Publisher
	Extractor ai.Extractor
	Hub       *ws.Hub
	Logger    *log.Logger
}

func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	cfg := d.Config
	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	userRepo := repository.NewPostgresUserRepository(d.DB)
	jobRepo := repository.NewPostgresJobRepository(d.DB)
	resumeRepo := repository.NewPostgresResumeRepository(d.DB)
	matchRepo := repository.NewPostgresMatchRepository(d.DB)

	var notifier usecase.Notifier
	if d.Hub != nil {
		notifier = d.Hub
	}

	authUC := usecase.NewAuthUsecase(userRepo, jwtSvc)
	userUC := useruc.NewService(userRepo)
	jobUC := usecase.NewJobUsecase(jobRepo, matchRepo, d.Cache, d.Logger)
	resumeUC := usecase.NewResumeUsecase(resumeRepo, matchRepo, userRepo, d.Store, d.Publisher, cfg.Upload.MaxBytes, d.Logger)
	recoUC := usecase.NewRecommendationUsecase(matchRepo, d.Cache, d.Logger)
	parseUC := usecase.NewParseUsecase(usecase.ParseDeps{
		Resumes:    resumeRepo,
		Jobs:       jobRepo,
		Matches:    matchRepo,
		Shortlists: repository.NewPostgresShortlistRepository(d.DB),
		Audit:      repository.NewPostgresAuditRepository(d.DB),
		Store:      d.Store,
		Extractor:  d.Extractor,
		Cache:      d.Cache,
		Notifier:   notifier,
		Logger:     d.Logger,
	})

	authGroup := r.Group("/auth")
	handler.NewAuthHandler(authUC).RegisterRoutes(authGroup)

	if d.Hub != nil {
		wsGroup := r.Group("/ws", authMw.WithQueryToken().Middleware())
		ws.NewHandler(d.Hub, d.Logger).RegisterRoutes(wsGroup)
	}

	protected := r.Group("", authMw.Middleware())

	handler.NewUserHandler(userUC).RegisterRoutes(protected.Group("/users"))
	handler.NewJobHandler(jobUC).RegisterRoutes(protected.Group("/jobs"))
	handler.NewResumeHandler(resumeUC, parseUC, cfg.Upload.MaxBytes).RegisterRoutes(protected.Group("/resumes"))
	handler.NewCandidateHandler(recoUC).RegisterRoutes(protected.Group("/me"))
}
