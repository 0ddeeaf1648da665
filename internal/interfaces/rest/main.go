package rest

import (
	"expvar"
	"fmt"
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/labstack/echo/v4"
	echo_middleware "github.com/labstack/echo/v4/middleware"
	"github.com/pot-code/learnhub/internal/catalog"
	"github.com/pot-code/learnhub/internal/dashboard"
	infra "github.com/pot-code/learnhub/internal/infrastructure"
	"github.com/pot-code/learnhub/internal/infrastructure/auth"
	"github.com/pot-code/learnhub/internal/infrastructure/driver"
	"github.com/pot-code/learnhub/internal/infrastructure/reporting"
	"github.com/pot-code/learnhub/internal/infrastructure/validate"
	"github.com/pot-code/learnhub/internal/interfaces/rest/handler"
	"github.com/pot-code/learnhub/internal/interfaces/rest/middleware"
	"github.com/pot-code/learnhub/internal/profile"
	"github.com/pot-code/learnhub/internal/rating"
	"github.com/pot-code/learnhub/internal/support"
	videoprogress "github.com/pot-code/learnhub/internal/video_progress"
	"go.elastic.co/apm/module/apmechov4"
	"go.uber.org/zap"
)

// avatar uploads are refused before reading past this body size
const avatarBodyLimit = "6M"

// NewServer create http transport server with every route registered
func NewServer(
	conn driver.ITransactionalDB,
	rdb driver.KeyValueDB,
	option *infra.AppConfig,
	reporter reporting.Reporter,
	CatalogUseCase catalog.CatalogUseCase,
	DashboardUseCase dashboard.DashboardUseCase,
	VideoProgressUseCase videoprogress.VideoProgressUseCase,
	RatingUseCase rating.RatingUseCase,
	SupportUseCase support.SupportUseCase,
	ProfileUseCase profile.ProfileUseCase,
	logger *zap.Logger,
) *echo.Echo {
	var (
		app       = echo.New()
		validator = validate.NewValidator()
		jwtUtil   = auth.NewJWTUtil(option.Security.JWTMethod,
			option.Security.JWTSecret,
			option.Security.TokenName)
		tokenOption   = &middleware.ValidateTokenOption{InBlackList: rdb.Exists}
		jwtMiddleware = middleware.VerifyToken(jwtUtil, tokenOption)
		optionalToken = middleware.OptionalToken(jwtUtil, tokenOption)
	)
	app.HideBanner = true

	registerLivenessProbe(app, conn, rdb)
	if option.Env == infra.EnvDevelopment {
		registerProfileEndpoints(app)

		app.Use(middleware.Logging(logger, &middleware.LoggingConfig{
			Skipper: func(e echo.Context) bool {
				return strings.HasPrefix(e.Request().RequestURI, "/healthz")
			},
		}))
	}
	app.Use(middleware.ErrorHandling(&middleware.ErrorHandlingOption{Reporter: reporter}))
	app.Use(echo_middleware.Secure())
	if option.DevOP.APM {
		app.Use(apmechov4.Middleware())
	}
	app.Use(echo_middleware.CORS())
	app.Use(middleware.AbortRequest(&middleware.AbortRequestOption{
		Timeout: option.RequestTimeout,
		Skipper: func(e echo.Context) bool {
			return strings.Contains(e.Path(), "/ws/")
		},
	}))

	var (
		DashboardHandler     = handler.NewDashboardHandler(DashboardUseCase, jwtUtil, validator)
		CatalogHandler       = handler.NewCatalogHandler(CatalogUseCase, jwtUtil)
		VideoProgressHandler = handler.NewVideoProgressHandler(VideoProgressUseCase, jwtUtil, validator)
		RatingHandler        = handler.NewRatingHandler(RatingUseCase, jwtUtil, validator)
		SupportHandler       = handler.NewSupportHandler(SupportUseCase, jwtUtil, validator)
		UserHandler          = handler.NewUserHandler(jwtUtil, rdb, ProfileUseCase, option.SessionTimeout, option.Storage.MaxSize)
		PlaybackHandler      = handler.NewPlaybackHandler(VideoProgressUseCase, jwtUtil, option.Playback.FlushInterval)
	)

	createEndpoint(app,
		&endpoint{
			apiVersion:  "api/v1",
			middlewares: []echo.MiddlewareFunc{echo_middleware.RequestID(), middleware.SetTraceLogger(logger)},
			groups: []*apiGroup{
				{
					prefix:      "/progress-by-category",
					middlewares: []echo.MiddlewareFunc{jwtMiddleware},
					routes: []*route{
						{"GET", "", DashboardHandler.HandleProgressByCategory, nil},
						{"GET", "/export", DashboardHandler.HandleExportProgress, nil},
					},
				},
				{
					prefix:      "/courses",
					middlewares: []echo.MiddlewareFunc{optionalToken},
					routes: []*route{
						{"GET", "", CatalogHandler.HandleListCourses, nil},
						{"GET", "/:id", CatalogHandler.HandleGetCourse, nil},
					},
				},
				{
					prefix: "/categories",
					routes: []*route{
						{"GET", "", CatalogHandler.HandleListCategories, nil},
					},
				},
				{
					prefix:      "/video-progress",
					middlewares: []echo.MiddlewareFunc{jwtMiddleware},
					routes: []*route{
						{"GET", "", VideoProgressHandler.HandleGetProgress, nil},
						{"POST", "", VideoProgressHandler.HandleSaveProgress, nil},
					},
				},
				{
					prefix:      "/video-rating",
					middlewares: []echo.MiddlewareFunc{jwtMiddleware},
					routes: []*route{
						{"GET", "", RatingHandler.HandleGetRating, nil},
						{"POST", "", RatingHandler.HandleRate, nil},
					},
				},
				{
					prefix:      "/video-support",
					middlewares: []echo.MiddlewareFunc{jwtMiddleware},
					routes: []*route{
						{"GET", "", SupportHandler.HandleListTickets, nil},
						{"POST", "", SupportHandler.HandleCreateTicket, nil},
					},
				},
				{
					prefix:      "/user",
					middlewares: []echo.MiddlewareFunc{jwtMiddleware},
					routes: []*route{
						{"GET", "/me", UserHandler.HandleMe, nil},
						{"POST", "/avatar", UserHandler.HandleUploadAvatar, []echo.MiddlewareFunc{echo_middleware.BodyLimit(avatarBodyLimit)}},
						{"PUT", "/sign-out", UserHandler.HandleSignOut, nil},
					},
				},
				{
					prefix:      "/ws",
					middlewares: []echo.MiddlewareFunc{jwtMiddleware},
					routes: []*route{
						{"GET", "/playback", PlaybackHandler.HandleUpgrade, nil},
					},
				},
			},
		})

	printRoutes(app, logger)
	return app
}

// Serve blocks until the server is closed
func Serve(app *echo.Echo, option *infra.AppConfig) error {
	err := app.Start(fmt.Sprintf("%s:%d", option.Host, option.Port))
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func printRoutes(app *echo.Echo, logger *zap.Logger) {
	for _, route := range app.Routes() {
		if !strings.HasPrefix(route.Name, "github.com/labstack/echo") {
			logger.Info("Registered route", zap.String("method", route.Method), zap.String("path", route.Path))
		}
	}
}

func registerLivenessProbe(app *echo.Echo, db driver.ITransactionalDB, rdb driver.KeyValueDB) {
	app.GET("/healthz", func(c echo.Context) error {
		if db.Ping() == nil && rdb.Ping() == nil {
			c.NoContent(http.StatusOK)
		} else {
			c.NoContent(http.StatusServiceUnavailable)
		}
		return nil
	})
}

func registerProfileEndpoints(app *echo.Echo) {
	expvarHandler := expvar.Handler()
	app.GET("/debug/vars", func(c echo.Context) error {
		expvarHandler.ServeHTTP(c.Response().Writer, c.Request())
		return nil
	})
	app.GET("/debug/pprof/", func(c echo.Context) error {
		pprof.Index(c.Response().Writer, c.Request())
		return nil
	})
	app.GET("/debug/pprof/:name", func(c echo.Context) error {
		switch c.Param("name") {
		case "cmdline":
			pprof.Cmdline(c.Response().Writer, c.Request())
		case "profile":
			pprof.Profile(c.Response().Writer, c.Request())
		case "symbol":
			pprof.Symbol(c.Response().Writer, c.Request())
		case "trace":
			pprof.Trace(c.Response().Writer, c.Request())
		default:
			pprof.Handler(c.Param("name")).ServeHTTP(c.Response().Writer, c.Request())
		}
		return nil
	})
}
