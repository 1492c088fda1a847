package httpapi

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/oshokin/sos-button/internal/chat"
	"github.com/oshokin/sos-button/internal/directory"
	"github.com/oshokin/sos-button/internal/logger"
	"github.com/oshokin/sos-button/internal/version"
)

// API is the route prefix of the directory endpoints.
const API = "/api/v1"

// handler holds the dependencies of the HTTP routes.
type handler struct {
	completer chat.Completer
}

// safeSpot is a directory entry with its map link.
type safeSpot struct {
	directory.SafeSpot

	MapsURL string `json:"maps_url"`
}

var releaseMode sync.Once

// NewRouter builds the gin engine serving the relay, health and directory routes.
func NewRouter(completer chat.Completer) *gin.Engine {
	releaseMode.Do(func() { gin.SetMode(gin.ReleaseMode) })

	h := &handler{completer: completer}

	engine := gin.New()
	engine.Use(recovery(), requestLogger(), cors())

	engine.GET("/health", h.health)
	engine.POST(chat.Path, h.chat)

	api := engine.Group(API)
	api.GET("/authorities", h.authorities)
	api.GET("/safe-spots", h.safeSpots)

	return engine
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"build":  version.Current(),
	})
}

// chat relays the transcript; every failure is reported as 500 {error}.
func (h *handler) chat(c *gin.Context) {
	ctx := logger.WithName(c.Request.Context(), "chat-ai")

	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnKV(ctx, "Malformed chat request", "error", err)
		c.JSON(http.StatusInternalServerError, chat.Response{Error: "invalid request body"})

		return
	}

	message, err := h.completer.Complete(ctx, req.Messages)
	if err != nil {
		logger.ErrorKV(ctx, "Error in chat relay", "error", err)
		c.JSON(http.StatusInternalServerError, chat.Response{Error: err.Error()})

		return
	}

	c.JSON(http.StatusOK, chat.Response{Message: message})
}

func (h *handler) authorities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"authorities": directory.Authorities()})
}

func (h *handler) safeSpots(c *gin.Context) {
	spots := directory.SafeSpots()

	result := make([]safeSpot, 0, len(spots))
	for _, spot := range spots {
		result = append(result, safeSpot{SafeSpot: spot, MapsURL: directory.MapsURL(spot)})
	}

	c.JSON(http.StatusOK, gin.H{"safe_spots": result})
}
