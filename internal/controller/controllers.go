package controller

import (
	"net"

	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const uploadBodyLimit = "10M"

type Controllers interface {
	Info() InfoController
	Auth() AuthController
	Profile() ProfileController
	Wardrobe() WardrobeController
	Catalog() CatalogController
	Vote() VoteController

	Route(e *echo.Echo)
	Close()
}

type controllers struct {
	infoController     InfoController
	authController     AuthController
	profileController  ProfileController
	wardrobeController WardrobeController
	catalogController  CatalogController
	voteController     VoteController
	authService        service.AuthService
	limiter            *RateLimiter
	ipExtractor        echo.IPExtractor
}

func NewControllers(services service.Services, config dto.Config) Controllers {
	trusted, err := config.TrustedProxyRanges()
	if err != nil {
		logrus.Panic(err)
	}
	return &controllers{
		infoController:     newInfoController(config),
		authController:     newAuthController(services.Auth(), config),
		profileController:  newProfileController(services.Profile(), services.Media(), services.Suggestion()),
		wardrobeController: newWardrobeController(services.Wardrobe()),
		catalogController:  newCatalogController(services.Catalog()),
		voteController:     newVoteController(services.Vote()),
		authService:        services.Auth(),
		limiter:            NewRateLimiter(config.AuthRateLimit, config.AuthRateBurst),
		ipExtractor:        newIPExtractor(trusted),
	}
}

// newIPExtractor reads X-Forwarded-For only behind the given proxies. Without any, the connection's
// peer address is used so clients cannot pick their own rate limit bucket.
func newIPExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	options := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, ipRange := range trusted {
		options = append(options, echo.TrustIPRange(ipRange))
	}
	return echo.ExtractIPFromXFFHeader(options...)
}

func (c controllers) Info() InfoController {
	return c.infoController
}

func (c controllers) Auth() AuthController {
	return c.authController
}

func (c controllers) Profile() ProfileController {
	return c.profileController
}

func (c controllers) Wardrobe() WardrobeController {
	return c.wardrobeController
}

func (c controllers) Catalog() CatalogController {
	return c.catalogController
}

func (c controllers) Vote() VoteController {
	return c.voteController
}

// Close stops the background work started by NewControllers.
func (c controllers) Close() {
	c.limiter.Stop()
}

func (c controllers) Route(e *echo.Echo) {
	e.IPExtractor = c.ipExtractor
	e.HTTPErrorHandler = ErrorHandler
	e.Validator = newRequestValidator()
	e.JSONSerializer = jsonSerializer{}
	e.Use(middleware.Recover())
	e.Use(Metrics)

	authenticated := Authenticate(c.authService)
	limited := RateLimit(c.limiter)

	e.GET("/", c.infoController.Info)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	auth := e.Group("/auth")
	auth.POST("/sign-up", c.authController.SignUp, limited)
	auth.POST("/sign-in", c.authController.SignIn, limited)
	auth.POST("/sign-out", c.authController.SignOut, authenticated)

	me := e.Group("/me", authenticated)
	me.GET("", c.profileController.Get)
	me.PATCH("", c.profileController.Update)
	me.GET("/favorites", c.profileController.ListFavorites)
	me.PUT("/favorites/:eventId", c.profileController.AddFavorite)
	me.DELETE("/favorites/:eventId", c.profileController.RemoveFavorite)
	me.GET("/suggestions", c.profileController.Suggestions)
	me.POST("/images/:folder", c.profileController.UploadImage, middleware.BodyLimit(uploadBodyLimit))
	me.DELETE("/images/:folder/:name", c.profileController.DeleteImage)
	me.PUT("/push-token", c.profileController.RegisterPushToken)
	me.GET("/wardrobe", c.wardrobeController.List)
	me.POST("/wardrobe", c.wardrobeController.Add)
	me.DELETE("/wardrobe/:id", c.wardrobeController.Delete)
	me.GET("/style", c.wardrobeController.Style)
	me.GET("/style/events/:eventId", c.wardrobeController.EventStyle)
	me.GET("/style/weather", c.wardrobeController.WeatherStyle)

	e.GET("/events", c.catalogController.ListEvents)
	e.GET("/events/:id", c.catalogController.GetEvent)
	e.GET("/outfits", c.catalogController.ListOutfits)
	e.GET("/outfits/votes/stream", c.voteController.Stream)
	e.GET("/outfits/:id", c.catalogController.GetOutfit)
	e.POST("/outfits/:id/vote", c.voteController.Vote, authenticated)
}
