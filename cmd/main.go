package main

import (
	"context"
	"log"
	"net/mail"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pot-code/learnhub/internal/audit"
	"github.com/pot-code/learnhub/internal/catalog"
	"github.com/pot-code/learnhub/internal/dashboard"
	infra "github.com/pot-code/learnhub/internal/infrastructure"
	"github.com/pot-code/learnhub/internal/infrastructure/driver"
	"github.com/pot-code/learnhub/internal/infrastructure/locale"
	"github.com/pot-code/learnhub/internal/infrastructure/logging"
	imail "github.com/pot-code/learnhub/internal/infrastructure/mail"
	"github.com/pot-code/learnhub/internal/infrastructure/reporting"
	"github.com/pot-code/learnhub/internal/infrastructure/storage"
	"github.com/pot-code/learnhub/internal/infrastructure/uuid"
	"github.com/pot-code/learnhub/internal/interfaces/rest"
	"github.com/pot-code/learnhub/internal/profile"
	"github.com/pot-code/learnhub/internal/progress"
	"github.com/pot-code/learnhub/internal/rating"
	"github.com/pot-code/learnhub/internal/support"
	videoprogress "github.com/pot-code/learnhub/internal/video_progress"
	"go.uber.org/zap"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	log.SetFlags(log.Lshortfile | log.Ldate | log.Ltime)
	option, err := infra.InitConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(&logging.Config{
		FilePath: option.Logging.FilePath,
		Level:    option.Logging.Level,
		AppID:    option.AppID,
		Env:      option.Env,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %s\n", err)
	}
	defer logger.Sync()

	reporter := reporting.NewReporter(option.DevOP.RollbarToken, option.Env, version)
	defer reporter.Close()

	dbConn, err := driver.GetDBConnection(&driver.DBConfig{
		User:     option.Database.User,
		Password: option.Database.Password,
		MaxConn:  option.Database.MaxConn,
		Protocol: option.Database.Protocol,
		Driver:   option.Database.Driver,
		Host:     option.Database.Host,
		Port:     option.Database.Port,
		Query:    option.Database.Query,
		Schema:   option.Database.Schema,
	})
	if err != nil {
		logger.Fatal("Failed to create DB connection", zap.Error(err))
	}
	defer dbConn.Close(context.Background())
	logger.Debug("Create DB connection instance", zap.String("db.driver", option.Database.Driver),
		zap.String("db.schema", option.Database.Schema),
		zap.String("db.host", option.Database.Host),
	)

	rdb := driver.NewRedisClient(option.KVStore.Host, option.KVStore.Port, option.KVStore.Password)
	defer rdb.Close()

	objectStorage, err := storage.NewS3Storage(context.Background(), &storage.S3Config{
		Region:          option.Storage.Region,
		Bucket:          option.Storage.Bucket,
		Endpoint:        option.Storage.Endpoint,
		PublicURL:       option.Storage.PublicURL,
		AccessKeyID:     option.Storage.AccessKeyID,
		SecretAccessKey: option.Storage.SecretAccessKey,
		MaxSize:         option.Storage.MaxSize,
	}, uuid.NewNanoIDGenerator(21))
	if err != nil {
		logger.Fatal("Failed to create object storage", zap.Error(err))
	}

	var mailer imail.Mailer = imail.NewConsoleMailer(logger)
	if option.Mail.Provider == "sendgrid" {
		mailer = imail.NewSendgridMailer(option.Mail.SendgridKey, mail.Address{
			Name:    option.Mail.FromName,
			Address: option.Mail.FromEmail,
		})
	}

	var catalogRepo catalog.CatalogRepository = catalog.NewCatalogRepository(dbConn)
	if path := option.Catalog.FixturePath; path != "" {
		fixture, err := catalog.LoadFixture(path)
		if err != nil {
			logger.Fatal("Failed to load catalog fixture", zap.Error(err))
		}
		catalogRepo = catalog.NewMemoryRepository(fixture)
		logger.Info("Serving catalog from fixture", zap.String("path", path))
	}

	var (
		UUIDGenerator = uuid.RandomGenerator{}
		Aggregator    = progress.NewAggregator(logger)

		VideoProgressRepo    = videoprogress.NewVideoProgressRepository(dbConn)
		VideoProgressUseCase = videoprogress.NewVideoProgressUseCase(VideoProgressRepo, UUIDGenerator)
		CatalogUseCase       = catalog.NewCatalogUseCase(catalogRepo, Aggregator)
		DashboardUseCase     = dashboard.NewDashboardUseCase(catalogRepo, Aggregator)
		RatingUseCase        = rating.NewRatingUseCase(rating.NewRatingRepository(dbConn), UUIDGenerator)
		SupportUseCase       = support.NewSupportUseCase(
			support.NewSupportRepository(dbConn),
			UUIDGenerator,
			locale.NewFormatter(option.Locale.Timezone),
			mailer,
			option.Mail.SupportInbox,
			logger,
		)
		ProfileUseCase = profile.NewProfileUseCase(profile.NewProfileRepository(dbConn), objectStorage)
	)

	auditor := audit.NewProgressAuditor(VideoProgressRepo, option.Audit.Interval, logger)
	if err := auditor.Start(); err != nil {
		logger.Fatal("Failed to start progress audit", zap.Error(err))
	}
	defer auditor.Stop()

	app := rest.NewServer(dbConn, rdb, option, reporter,
		CatalogUseCase, DashboardUseCase, VideoProgressUseCase,
		RatingUseCase, SupportUseCase, ProfileUseCase, logger)

	go func() {
		if err := rest.Serve(app, option); err != nil {
			logger.Fatal("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
	}
}
