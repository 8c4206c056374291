package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/upgradist/eduquest-backend/internal/config"
	"github.com/upgradist/eduquest-backend/internal/middleware"
	"github.com/upgradist/eduquest-backend/internal/service"
	ws "github.com/upgradist/eduquest-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live leaderboard updates to connected viewers.
type WSHandler struct {
	rdb                *redis.Client
	leaderboardService *service.LeaderboardService
	log                zerolog.Logger
	upgrader           websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, leaderboardService *service.LeaderboardService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:                rdb,
		leaderboardService: leaderboardService,
		log:                log.With().Str("component", "ws_handler").Logger(),
		upgrader:           buildUpgrader(allowedOrigins),
	}
}

// LeaderboardStream godoc
// WS /ws/v1/tests/:id/leaderboard
// Sends the current board on connect, then pushes every refresh published by
// the background worker until the client disconnects.
func (h *WSHandler) LeaderboardStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	testID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid test ID"})
		return
	}

	if _, err := h.leaderboardService.ForTest(c.Request.Context(), testID); err != nil {
		if errors.Is(err, service.ErrTestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "test not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("user_id", claims.UserID).
		Str("test_id", testID.String()).
		Logger()
	wsLog.Info().Msg("Leaderboard viewer connected")

	ctx := c.Request.Context()

	// Initial snapshot so the viewer is not blank until the next refresh.
	entries, err := h.leaderboardService.ForTest(ctx, testID)
	if err == nil {
		if payload, err := json.Marshal(entries); err == nil {
			_ = ws.WriteTyped(conn, ws.LeaderboardUpdate{
				Event:   ws.EventLeaderboard,
				TestID:  testID.String(),
				Entries: payload,
			})
		}
	}

	sub := h.rdb.Subscribe(ctx, config.CacheKey.LeaderboardChannel(testID.String()))
	defer sub.Close()

	// Reader goroutine: answers pings and unblocks when the client goes away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				_ = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			}
		}
	}()

	ch := sub.Channel()
	for {
		select {
		case <-done:
			wsLog.Debug().Msg("Leaderboard viewer disconnected")
			return
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			err := ws.WriteTyped(conn, ws.LeaderboardUpdate{
				Event:   ws.EventLeaderboard,
				TestID:  testID.String(),
				Entries: json.RawMessage(msg.Payload),
			})
			if err != nil {
				wsLog.Debug().Err(err).Msg("Leaderboard push failed")
				return
			}
		}
	}
}
