package main

import (
	"context"
	"fmt"

	"github.com/chatstack/uploads-service/internal/logging"
	"github.com/chatstack/uploads-service/queues"
	"github.com/chatstack/uploads-service/services"
	"github.com/chatstack/uploads-service/store"
)

type Stores struct {
	objects store.ObjectStore

	logger logging.Logger
}

type Services struct {
	Sessions      services.SessionService
	Uploads       services.UploadService
	Finalize      services.FinalizeService
	Sweeper       *services.Sweeper
	UploadsNotify queues.UploadNotify

	Stores *Stores
	logger logging.Logger
}

type Shutdowner interface {
	Shutdown(context.Context) error
}

func BuildServices(app *App) *Services {
	objectStore := store.NewS3ObjectStore(app.S3, app.Config.AWSConfig.Region)

	var upNotify queues.UploadNotify = queues.NoopUploadNotify{}
	if app.Config.ServiceConfig.UploadsNotificationsQueueName != "" {
		upNotify = queues.NewSQSUploadNotify(
			app.Sqs,
			app.Config.ServiceConfig.UploadsNotificationsQueueName,
			app.Config.AWSConfig.AccountID,
			app.Config.AWSConfig.Region,
			app.Logger,
		)
	}

	sessionService := services.NewSessionServiceImpl(objectStore, services.UploadBucket, app.Logger)
	uploadService := services.NewUploadServiceImpl(objectStore, services.UploadBucket, app.Logger)
	finalizeService := services.NewFinalizeServiceImpl(objectStore, services.UploadBucket, upNotify, app.Logger)
	sweeper := services.NewSweeper(
		objectStore,
		services.UploadBucket,
		app.Config.ServiceConfig.SweepInterval,
		app.Config.ServiceConfig.ChunkRetention,
		app.Logger,
	)

	app.Logger.Info("uploads services initialized successfully")

	return &Services{
		Sessions:      sessionService,
		Uploads:       uploadService,
		Finalize:      finalizeService,
		Sweeper:       sweeper,
		UploadsNotify: upNotify,

		Stores: &Stores{
			objects: objectStore,
			logger:  app.Logger,
		},
		logger: app.Logger,
	}
}

func (s *Services) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down services")

	if s.Stores != nil {
		if err := s.Stores.Shutdown(ctx); err != nil {
			s.logger.Error("stores shutdown failed", "err", err.Error())
		}
	}

	s.logger.Info("services shutdown complete")
	return nil
}

func (s *Stores) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down stores")

	shutdownIfPossible := func(name string, v any) {
		if sh, ok := v.(Shutdowner); ok {
			if err := sh.Shutdown(ctx); err != nil {
				s.logger.Error(fmt.Sprintf("%s store shutdown failed", name), "err", err.Error())
			}
		}
	}

	shutdownIfPossible("objects", s.objects)

	s.logger.Info("stores shutdown complete")
	return nil
}
