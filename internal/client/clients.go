package client

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/krakosik/runway/internal/dto"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// Clients bundles the external collaborators. PasswordClient, ObjectStore and RabbitMQClient
// return nil when they are not configured.
type Clients interface {
	AuthClient() AuthClient
	PasswordClient() PasswordClient
	ObjectStore() ObjectStore
	RabbitMQClient() RabbitClient
	Firestore() *firestore.Client
	Close() error
}

type clients struct {
	authClient      AuthClient
	passwordClient  PasswordClient
	objectStore     ObjectStore
	rabbitClient    RabbitClient
	firestoreClient *firestore.Client
}

func (c clients) AuthClient() AuthClient {
	return c.authClient
}

func (c clients) PasswordClient() PasswordClient {
	return c.passwordClient
}

func (c clients) ObjectStore() ObjectStore {
	return c.objectStore
}

func (c clients) RabbitMQClient() RabbitClient {
	return c.rabbitClient
}

func (c clients) Firestore() *firestore.Client {
	return c.firestoreClient
}

func (c clients) Close() error {
	var errs []error
	if c.rabbitClient != nil {
		errs = append(errs, c.rabbitClient.Close())
	}
	if c.firestoreClient != nil {
		errs = append(errs, c.firestoreClient.Close())
	}
	return errors.Join(errs...)
}

// NewClients connects the external collaborators. Without FIREBASE_KEY only the memory and postgres
// stores can run: auth and uploads are then disabled instead of failing at start.
func NewClients(cfg dto.Config) Clients {
	ctx := context.Background()

	if cfg.FirebaseKey == "" && cfg.StoreDriver != dto.StoreDriverFirestore {
		logrus.Warn("FIREBASE_KEY is not set, authentication and image uploads are disabled")
		c := &clients{authClient: disabledAuthClient{}}
		c.connectRabbitMQ(cfg)
		return c
	}

	decodedFirebaseKey, err := cfg.DecodeFirebaseKey()
	if err != nil {
		logrus.Panic(err)
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: cfg.StorageBucket}, option.WithCredentialsJSON(decodedFirebaseKey))
	if err != nil {
		logrus.Panic(err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		logrus.Panic(err)
	}

	c := &clients{authClient: authClient}

	if cfg.StoreDriver == dto.StoreDriverFirestore {
		c.firestoreClient, err = app.Firestore(ctx)
		if err != nil {
			logrus.Panic(err)
		}
	}

	if cfg.FirebaseAPIKey != "" {
		c.passwordClient, err = NewPasswordClient(ctx, cfg.FirebaseAPIKey)
		if err != nil {
			logrus.Panic(err)
		}
	} else {
		logrus.Warn("FIREBASE_API_KEY is not set, email sign-in is disabled")
	}

	if cfg.StorageBucket != "" {
		storageClient, err := app.Storage(ctx)
		if err != nil {
			logrus.Panic(err)
		}
		bucket, err := storageClient.Bucket(cfg.StorageBucket)
		if err != nil {
			logrus.Panic(err)
		}
		c.objectStore = newBucketStore(bucket, cfg.StorageBucket)
	} else {
		logrus.Warn("STORAGE_BUCKET is not set, image uploads are disabled")
	}

	c.connectRabbitMQ(cfg)
	return c
}

func (c *clients) connectRabbitMQ(cfg dto.Config) {
	if cfg.RabbitMQURL == "" {
		return
	}
	rabbitClient, err := NewRabbitMQClient(cfg.RabbitMQURL, VoteExchange)
	if err != nil {
		logrus.Errorf("Failed to connect to RabbitMQ, vote updates stay in process: %v", err)
		return
	}
	c.rabbitClient = rabbitClient
}
