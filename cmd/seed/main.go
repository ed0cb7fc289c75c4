package main

import (
	"context"
	"flag"

	"github.com/krakosik/runway/internal/client"
	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/logging"
	"github.com/krakosik/runway/internal/repository"
	"github.com/krakosik/runway/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	config, err := dto.LoadConfig()
	if err != nil {
		logrus.Panic(err)
	}
	if err := logging.Configure(config.LogLevel, config.LogFormat); err != nil {
		logrus.Panic(err)
	}

	owner := flag.String("owner", config.SeedOwnerID, "user id recorded as the owner of seeded outfits")
	flag.Parse()

	clients := client.NewClients(config)
	defer clients.Close()

	repositories, err := repository.NewFromConfig(config, clients.Firestore())
	if err != nil {
		logrus.Panic(err)
	}
	services := service.NewServices(repositories, config, clients)
	defer services.Close()

	if err := services.Seed().SeedAll(context.Background(), *owner); err != nil {
		logrus.Panic(err)
	}
	logrus.Info("Seeding finished")
}
