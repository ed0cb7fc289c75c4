package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/krakosik/runway/internal/client"
	"github.com/krakosik/runway/internal/controller"
	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/logging"
	"github.com/krakosik/runway/internal/repository"
	"github.com/krakosik/runway/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config, err := dto.LoadConfig()
	if err != nil {
		logrus.Panic(err)
	}
	if err := logging.Configure(config.LogLevel, config.LogFormat); err != nil {
		logrus.Panic(err)
	}

	clients := client.NewClients(config)
	defer func() {
		if err := clients.Close(); err != nil {
			logrus.Errorf("Failed to close clients: %v", err)
		}
	}()

	repositories, err := repository.NewFromConfig(config, clients.Firestore())
	if err != nil {
		logrus.Panic(err)
	}
	services := service.NewServices(repositories, config, clients)
	defer services.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.SeedOnStart {
		if err := services.Seed().SeedAll(ctx, config.SeedOwnerID); err != nil {
			logrus.Errorf("Failed to seed store: %v", err)
		}
	}

	e := echo.New()
	e.HideBanner = true
	controllers := controller.NewControllers(services, config)
	defer controllers.Close()
	controllers.Route(e)

	go func() {
		logrus.Infof("Listening on :%s (store: %s)", config.Port, config.StoreDriver)
		if err := e.Start(":" + config.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Failed to shut down cleanly: %v", err)
	}
}
