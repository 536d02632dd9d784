package handler

import (
	"log/slog"
	"net/http"

	"comanda/internal/events"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// /ws のHTTP。変更通知をwebsocketで配る
type EventsHandler struct {
	hub      *events.Hub
	log      *slog.Logger
	upgrader websocket.Upgrader
}

func NewEventsHandler(hub *events.Hub, log *slog.Logger) *EventsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &EventsHandler{
		hub: hub,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// オリジン検証はCORS設定側の責務
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *EventsHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.serveWS)
}

func (h *EventsHandler) serveWS(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	id, ch := h.hub.Subscribe()
	defer func() {
		h.hub.Unsubscribe(id)
		conn.Close()
	}()

	// 切断検知用に読み捨てる
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			if err := conn.WriteJSON(ev); err != nil {
				h.log.Debug("websocket write failed", "subscriber_id", id, "error", err)
				return nil
			}
		case <-done:
			return nil
		}
	}
}
