package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"electro_store/config"
	"electro_store/database"
	"electro_store/database/handler"
	"electro_store/database/jsonstore"
	"electro_store/events"
	"electro_store/middleware"
	"electro_store/server"
	"electro_store/service"
	"electro_store/utils"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := utils.LoadEnv(".env"); err != nil {
		logrus.Fatalf("Failed to load .env with error: %+v", err)
	}

	loader, err := config.NewLoader(os.Args[1:])
	if err != nil {
		logrus.Fatalf("Failed to parse flags with error: %+v", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %+v", err)
	}
	if err := config.ConfigureLogging(cfg.Log); err != nil {
		logrus.Fatalf("Invalid log configuration: %+v", err)
	}
	loader.Watch()

	store, err := openStore(cfg)
	if err != nil {
		logrus.Panicf("Failed to initialize storage with error: %+v", err)
	}
	logrus.Infof("storage %q ready", cfg.Storage.Driver)

	tokens := middleware.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiry)
	auth := service.NewAuthService(store, tokens)
	if err := auth.SeedAdmin(context.Background(), cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		logrus.Fatalf("Failed to seed admin with error: %+v", err)
	}

	hub := events.NewHub(cfg.CORSOrigins)
	publishers := events.Multi{hub}
	var kafka *events.KafkaPublisher
	if len(cfg.Kafka) > 0 {
		kafka = events.NewKafkaPublisher(cfg.Kafka)
		publishers = append(publishers, kafka)
		logrus.Infof("publishing order events to kafka %v", cfg.Kafka)
	}

	h := handler.New(handler.Handler{
		Auth:     auth,
		Users:    service.NewUserService(store),
		Products: service.NewProductService(store),
		Orders:   service.NewOrderService(store, publishers),
		Wishlist: service.NewWishlistService(store),
		Hub:      hub,
		Store:    store,
	})

	srv := server.SetupRoutes(h, server.Options{
		Tokens:      tokens,
		Users:       store,
		CORSOrigins: cfg.CORSOrigins,
		Timeouts:    cfg.Server,
	})
	srv.OnStop(store, hub)
	if kafka != nil {
		srv.OnStop(kafka)
	}

	go func() {
		logrus.Printf("Server started at :%s", cfg.Server.Port)
		if err := srv.Run(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Failed to run server with error %+v", err)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	logrus.Info("shutting down server")
	if err := srv.Stop(cfg.Server.ShutdownTimeout); err != nil {
		logrus.Errorf("Failed to gracefully shutdown server with error %+v", err)
		return
	}
	logrus.Info("server stopped")
}

func openStore(cfg config.Config) (database.Store, error) {
	if cfg.Storage.Driver == config.StoragePostgres {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, err
		}
		logrus.Info("migration successfully!!")
		return database.NewPostgresStore(db), nil
	}
	store, err := jsonstore.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	return store, nil
}
