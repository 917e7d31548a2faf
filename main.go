package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/nectorhq/patient-card-service/config"
	"github.com/nectorhq/patient-card-service/endpoint"
	"github.com/nectorhq/patient-card-service/middleware"
	"github.com/nectorhq/patient-card-service/model"
	"github.com/nectorhq/patient-card-service/store"
	"github.com/nectorhq/patient-card-service/util"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg := config.LoadConfig()

	st, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("error initializing %s store: %v", cfg.StorageBackend, err)
	}
	log.Infof("patient store ready (backend: %s)", cfg.StorageBackend)

	if _, err := config.ConnectRedis(); err != nil {
		log.Warnf("redis unavailable, rate limiting disabled: %v", err)
	}

	if err := endpoint.InitRenderers(cfg.CardTemplate); err != nil {
		log.Fatalf("error initializing card renderers: %v", err)
	}
	util.InitPatientCache(256)

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.EndpointCallLogger())
	router.Use(middleware.StoreMiddleware(st))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	limiter := middleware.RateLimiter(middleware.RateLimitConfig{})
	router.GET("/patients", endpoint.ListPatients)
	router.POST("/patients", limiter, endpoint.CreatePatient)
	router.PUT("/patients/:patientId", limiter, endpoint.UpdatePatient)
	router.GET("/patients/:patientId/card", endpoint.RenderPatientCard)
	router.GET("/patients/:patientId/qr", endpoint.RenderPatientQR)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("error starting server: %v", err)
		}
	}()
	log.Infof("%s running at %s", cfg.AppName, server.Addr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}
	log.Info("server gracefully stopped")
}

// buildStore selects the persistence backend from configuration. The three
// backends share one contract; handlers never know which one is active.
func buildStore(cfg *config.Config) (store.PatientStore, error) {
	switch cfg.StorageBackend {
	case config.BackendFile:
		return store.NewFileStore(cfg.DataFile)

	case config.BackendMongo:
		db, err := config.ConnectMongo()
		if err != nil {
			return nil, err
		}
		s := store.NewMongoStore(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return s, nil

	case config.BackendMySQL:
		db, err := config.ConnectMySQL()
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(&model.PatientCard{}, &model.AuditLog{}); err != nil {
			return nil, err
		}
		util.SetAuditLoggerDB(db)
		return store.NewSQLStore(db), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
