package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Beikwaw/RezTek/pkg/logger"
	"github.com/Beikwaw/RezTek/prometheus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ChangeFeed streams change events for the collections named in the
// ?collections= query parameter (comma-free repeats, e.g.
// ?collections=stockItems&collections=maintenanceRequests). Dashboards
// subscribe on mount; closing the socket cancels the subscription.
func ChangeFeed(c echo.Context) error {
	log := logger.FromContext(c)

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error("Failed to upgrade websocket", zap.Error(err))
		return err
	}
	defer ws.Close()

	collections := c.QueryParams()["collections"]
	sub := feed.Subscribe(collections...)
	defer sub.Cancel()

	prometheus.FeedSubscribersGauge.Inc()
	defer prometheus.FeedSubscribersGauge.Dec()

	log.Info("Change feed subscriber connected",
		zap.Strings("collections", collections))

	// Detect client disconnect so the subscription is cancelled promptly
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-sub.C:
			if !ok {
				return nil
			}
			if err := ws.WriteJSON(event); err != nil {
				log.Info("Change feed subscriber disconnected", zap.Error(err))
				return nil
			}
		case <-done:
			log.Info("Change feed subscriber closed connection")
			return nil
		}
	}
}
