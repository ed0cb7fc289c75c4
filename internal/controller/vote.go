package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const streamHeartbeat = 15 * time.Second

type VoteController interface {
	Vote(c echo.Context) error
	Stream(c echo.Context) error
}

type voteController struct {
	voteService service.VoteService
}

func newVoteController(voteService service.VoteService) VoteController {
	return &voteController{voteService: voteService}
}

func (v *voteController) Vote(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var request dto.VoteRequest
	if err := bindAndValidate(c, &request); err != nil {
		return err
	}

	tally, err := v.voteService.Vote(c.Request().Context(), user, c.Param("id"), *request.Upvote)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tally)
}

// Stream sends every vote tally to the client as a server-sent event until the client goes away.
func (v *voteController) Stream(c echo.Context) error {
	connectionID := fmt.Sprintf("conn_%s", uuid.NewString())

	subscriber, err := v.voteService.Subscribe(connectionID)
	if err != nil {
		return fmt.Errorf("%w: %v", dto.ErrUnavailable, err)
	}
	defer v.voteService.Unsubscribe(connectionID)

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	logrus.Infof("Vote stream %s opened", connectionID)
	defer logrus.Infof("Vote stream %s closed", connectionID)

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case tally, ok := <-subscriber.Tallies:
			if !ok {
				return nil
			}
			data, err := json.Marshal(tally)
			if err != nil {
				logrus.Errorf("Error marshaling vote tally: %v", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: vote\ndata: %s\n\n", data); err != nil {
				return nil
			}
			w.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
