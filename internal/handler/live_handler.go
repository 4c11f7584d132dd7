package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetdash/service-fleet/internal/live"
	"github.com/fleetdash/service-fleet/internal/response"
)

// LiveHandler serves the live vehicle feed: a REST snapshot and a websocket
// stream of position updates.
type LiveHandler struct {
	hub    *live.Hub
	store  *live.Store
	logger *zap.Logger
}

// NewLiveHandler creates a new LiveHandler.
func NewLiveHandler(h *live.Hub, s *live.Store, logger *zap.Logger) *LiveHandler {
	return &LiveHandler{hub: h, store: s, logger: logger}
}

// RegisterRoutes registers the live-feed endpoints.
func (h *LiveHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/v1/live", h.Snapshot)
	r.GET("/ws", func(c *gin.Context) {
		h.ServeWS(c.Writer, c.Request)
	})
}

// Snapshot handles GET /api/v1/live, returning every fresh position.
func (h *LiveHandler) Snapshot(c *gin.Context) {
	response.OK(c, h.store.Snapshot())
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type subscribePayload struct {
	BusNumbers []string `json:"busNumbers"`
}

type snapshotMessage struct {
	Type    string          `json:"type"`
	Payload []live.Position `json:"payload"`
}

// ServeWS upgrades the connection and streams position updates. Clients may
// narrow the feed with subscribe/unsubscribe messages; an unfiltered client
// receives everything.
func (h *LiveHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Error("websocket accept failed", zap.Error(err))
		return
	}

	client := live.NewClient(uuid.NewString(), 256)
	h.hub.Register(client)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go h.writeLoop(ctx, conn, client)
	h.readLoop(ctx, conn, client)
}

func (h *LiveHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *live.Client) {
	defer func() {
		h.hub.Unregister(client)
		conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				h.logger.Debug("websocket read error",
					zap.String("client_id", client.ID),
					zap.Error(err),
				)
			}
			return
		}

		if msgType != websocket.MessageText {
			continue
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Debug("invalid message format",
				zap.String("client_id", client.ID),
				zap.Error(err),
			)
			continue
		}

		switch msg.Type {
		case "subscribe":
			var payload subscribePayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				continue
			}
			if len(payload.BusNumbers) > 0 {
				h.hub.Subscribe(client, payload.BusNumbers)
				h.sendSnapshot(client)
			}

		case "unsubscribe":
			var payload subscribePayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				continue
			}
			if len(payload.BusNumbers) > 0 {
				h.hub.Unsubscribe(client, payload.BusNumbers)
			}

		case "ping":
			h.send(client, []byte(`{"type":"pong"}`))
		}
	}
}

func (h *LiveHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *live.Client) {
	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return
			}

		case <-ping.C:
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func (h *LiveHandler) sendSnapshot(client *live.Client) {
	data, err := json.Marshal(snapshotMessage{Type: "snapshot", Payload: h.store.Snapshot()})
	if err != nil {
		return
	}
	h.send(client, data)
}

func (h *LiveHandler) send(client *live.Client, data []byte) {
	select {
	case client.Send <- data:
	default:
	}
}
