package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/WahidMubarrat/EmerCare/config"
	ambulanceHandler "github.com/WahidMubarrat/EmerCare/internal/handler/ambulance"
	donorHandler "github.com/WahidMubarrat/EmerCare/internal/handler/donor"
	healthHandler "github.com/WahidMubarrat/EmerCare/internal/handler/health"
	hospitalHandler "github.com/WahidMubarrat/EmerCare/internal/handler/hospital"
	searchHandler "github.com/WahidMubarrat/EmerCare/internal/handler/search"
	"github.com/WahidMubarrat/EmerCare/internal/middleware"
	"github.com/WahidMubarrat/EmerCare/internal/model"
	"github.com/WahidMubarrat/EmerCare/internal/repository/postgres"
	"github.com/WahidMubarrat/EmerCare/internal/router"
	ambulanceService "github.com/WahidMubarrat/EmerCare/internal/service/ambulance"
	donorService "github.com/WahidMubarrat/EmerCare/internal/service/donor"
	hospitalService "github.com/WahidMubarrat/EmerCare/internal/service/hospital"
	profileService "github.com/WahidMubarrat/EmerCare/internal/service/hospitalservice"
	searchService "github.com/WahidMubarrat/EmerCare/internal/service/search"
	"github.com/WahidMubarrat/EmerCare/pkg/geocode"
	"github.com/WahidMubarrat/EmerCare/pkg/logger"
	"github.com/WahidMubarrat/EmerCare/pkg/security"
	"github.com/WahidMubarrat/EmerCare/pkg/upload"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
	})

	model.RegisterValidators()

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	donorRepo := postgres.NewDonorRepository(db)
	hospitalRepo := postgres.NewHospitalRepository(db)
	ownerRepo := postgres.NewAmbulanceOwnerRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	profileRepo := postgres.NewServiceProfileRepository(db)

	// Shared collaborators
	hasher := security.NewPBKDF2Hasher()
	uploader := upload.NewClient(upload.Config{
		BaseURL: cfg.Upload.BaseURL,
		APIKey:  cfg.Upload.APIKey,
		Timeout: cfg.Upload.Timeout,
	})
	geocoder := geocode.NewClient(geocode.Config{
		BaseURL:  cfg.Geocode.BaseURL,
		Timeout:  cfg.Geocode.Timeout,
		CacheTTL: cfg.Geocode.CacheTTL,
	})

	// Services
	donorSvc := donorService.NewService(donorRepo, hasher, uploader, geocoder)
	hospitalSvc := hospitalService.NewService(hospitalRepo, hasher, uploader, geocoder)
	ambulanceSvc := ambulanceService.NewService(ownerRepo, vehicleRepo, hasher, uploader, geocoder)
	profileSvc := profileService.NewService(profileRepo, hospitalRepo)
	searchSvc := searchService.NewService(donorRepo, hospitalRepo, ownerRepo, vehicleRepo)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Security.AllowedOrigins
	}

	routerConfig := router.Config{
		Mode:          cfg.Server.Mode,
		CORSConfig:    corsConfig,
		MetricsPrefix: "emercare",
	}
	if cfg.RateLimit.Enabled {
		routerConfig.RateLimitRPS = cfg.RateLimit.RequestsPerSecond
		routerConfig.RateBurst = cfg.RateLimit.Burst
	}

	r := router.NewRouter(routerConfig,
		healthHandler.NewHandler(db),
		donorHandler.NewHandler(donorSvc),
		hospitalHandler.NewHandler(hospitalSvc, profileSvc),
		ambulanceHandler.NewHandler(ambulanceSvc),
		searchHandler.NewHandler(searchSvc),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
