package service

import (
	authV4 "firebase.google.com/go/v4/auth"
	"github.com/krakosik/runway/internal/client"
	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/repository"
)

type Services interface {
	Auth() AuthService
	Profile() ProfileService
	Media() MediaService
	Wardrobe() WardrobeService
	Catalog() CatalogService
	Suggestion() SuggestionService
	Vote() VoteService
	Seed() SeedService
	Close() error
}

type services struct {
	authService       AuthService
	profileService    ProfileService
	mediaService      MediaService
	wardrobeService   WardrobeService
	catalogService    CatalogService
	suggestionService SuggestionService
	voteService       VoteService
	seedService       SeedService
	voteBroker        VoteBroker
}

func NewServices(repositories repository.Repositories, config dto.Config, clients client.Clients) Services {
	catalogService := newCatalogService(repositories.Event(), repositories.Outfit())
	profileService := newProfileService(repositories.User(), catalogService)

	authService := newAuthService(
		profileService,
		clients.AuthClient(),
		clients.PasswordClient(),
		isTokenExpired,
		config.SessionTTL,
	)
	authService.OnAuthStateChanged(profileService.HandleAuthStateChange)

	voteBroker := newVoteBroker(clients.RabbitMQClient())

	return &services{
		authService:       authService,
		profileService:    profileService,
		mediaService:      newMediaService(clients.ObjectStore(), profileService),
		wardrobeService:   newWardrobeService(repositories.Wardrobe(), catalogService),
		catalogService:    catalogService,
		suggestionService: newSuggestionService(repositories.User(), catalogService),
		voteService:       newVoteService(repositories.Vote(), voteBroker),
		seedService:       newSeedService(repositories),
		voteBroker:        voteBroker,
	}
}

func isTokenExpired(err error) bool {
	return authV4.IsIDTokenExpired(err) || authV4.IsSessionCookieExpired(err)
}

func (s services) Auth() AuthService {
	return s.authService
}

func (s services) Profile() ProfileService {
	return s.profileService
}

func (s services) Media() MediaService {
	return s.mediaService
}

func (s services) Wardrobe() WardrobeService {
	return s.wardrobeService
}

func (s services) Catalog() CatalogService {
	return s.catalogService
}

func (s services) Suggestion() SuggestionService {
	return s.suggestionService
}

func (s services) Vote() VoteService {
	return s.voteService
}

func (s services) Seed() SeedService {
	return s.seedService
}

func (s services) Close() error {
	return s.voteBroker.Close()
}
