// File: trimly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trimly/config"
	"trimly/cron"
	"trimly/database"
	agendaRepo "trimly/database/repository/agenda"
	bookingRepo "trimly/database/repository/booking"
	catalogRepo "trimly/database/repository/catalog"
	customerRepo "trimly/database/repository/customer"
	reportRepo "trimly/database/repository/report"
	shopRepo "trimly/database/repository/shop"
	"trimly/handlers"
	"trimly/routes"
	"trimly/services/auth"
	"trimly/services/booking"
	"trimly/services/catalog"
	"trimly/services/customer"
	"trimly/services/metrics"
	"trimly/services/notification"
	"trimly/services/reminder"
	"trimly/services/shop"
	"trimly/services/storage"
	"trimly/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	if config.AppConfig.FirebaseCredentialsFile != "" {
		utils.FirebaseInit()
	} else {
		logger.Sugar().Warn("main: no firebase credentials configured, push delivery disabled")
	}

	// repositories.
	shRepo := shopRepo.NewMongoShopRepo()
	catRepo := catalogRepo.NewMongoCatalogRepo()
	custRepo := customerRepo.NewMongoCustomerRepo()
	agRepo := agendaRepo.NewMongoAgendaRepo()
	bkRepo := bookingRepo.NewMongoBookingRepo()
	rptRepo := reportRepo.NewMongoReportRepo()

	for name, ensure := range map[string]func() error{
		"shops":     shRepo.EnsureIndexes,
		"services":  catRepo.EnsureIndexes,
		"customers": custRepo.EnsureIndexes,
		"agenda":    agRepo.EnsureIndexes,
		"bookings":  bkRepo.EnsureIndexes,
		"reports":   rptRepo.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure %s indexes: %v", name, err)
		}
	}

	// services.
	notificationService, err := notification.NewDefaultNotificationService(custRepo, shRepo)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	summaryCache := booking.NewSummaryCache(
		utils.GetCacheClient(),
		time.Duration(config.AppConfig.AvailabilityCacheTTL)*time.Second,
	)

	bookingService := &booking.DefaultBookingService{
		ShopRepo:     shRepo,
		CatalogRepo:  catRepo,
		CustomerRepo: custRepo,
		BookingRepo:  bkRepo,
		AgendaRepo:   agRepo,
		Notifier:     notificationService,
		Cache:        summaryCache,
	}
	shopService := &shop.DefaultShopService{
		ShopRepo:    shRepo,
		CatalogRepo: catRepo,
		AgendaRepo:  agRepo,
	}
	metricsService := &metrics.DefaultMetricsService{
		ShopRepo:    shRepo,
		BookingRepo: bkRepo,
		CatalogRepo: catRepo,
		ReportRepo:  rptRepo,
	}
	reminderService := &reminder.DefaultReminderService{
		BookingRepo:  bkRepo,
		CustomerRepo: custRepo,
		ShopRepo:     shRepo,
		CatalogRepo:  catRepo,
		Notifier:     notificationService,
	}
	authService := &auth.DefaultAuthService{
		ShopRepo:     shRepo,
		CustomerRepo: custRepo,
	}
	customerService := &customer.DefaultCustomerService{
		CustomerRepo: custRepo,
	}
	catalogService := &catalog.DefaultCatalogService{
		CatalogRepo: catRepo,
	}

	handlerBundle := &handlers.HandlerBundle{
		Auth:      authService,
		Shops:     shopService,
		Catalog:   catalogService,
		Customers: customerService,
		Bookings:  bookingService,
		Metrics:   metricsService,
		Reminders: reminderService,
	}

	// Service image storage is optional; the upload endpoint answers 503
	// when the credentials are missing.
	if storageService, err := storage.NewCloudinaryStorage(); err != nil {
		logger.Sugar().Warnf("main: cloudinary storage disabled: %v", err)
	} else {
		handlerBundle.Storage = storageService
	}

	// Background reminder sweeps and push dispatch.
	cron.InitWorker(reminderService, notificationService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
