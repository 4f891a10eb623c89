// pattern: Imperative Shell

package web

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// handleTail upgrades to a websocket and streams every new entry whose
// channel starts with the "channel" query parameter as a JSON text message.
func (s *Server) handleTail(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("channel")

	// Restrict to localhost origins to prevent cross-origin WebSocket attacks.
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"127.0.0.1:*", "localhost:*"},
	})
	if err != nil {
		s.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer func() { _ = conn.CloseNow() }()

	ch := s.broker.Subscribe()
	defer s.broker.Unsubscribe(ch)

	// Clients only listen; CloseRead cancels ctx once they disconnect.
	ctx := conn.CloseRead(context.Background())
	s.logger.Info("tail connected", "prefix", prefix)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("tail disconnected", "prefix", prefix)
			return
		case entry := <-ch:
			if !entry.MatchesChannel(prefix) {
				continue
			}
			if err := wsjson.Write(ctx, conn, entry); err != nil {
				return
			}
		}
	}
}
