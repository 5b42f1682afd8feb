package server

import (
	"io"
	"runtime/debug"

	"github.com/lguibr/ringrace/log"
	"golang.org/x/net/websocket"
)

// HandleSubscribe registers the viewer with the broadcaster and holds the
// connection open until the viewer goes away.
func (s *Server) HandleSubscribe() func(ws *websocket.Conn) {
	return func(ws *websocket.Conn) {
		addr := ws.Request().RemoteAddr
		defer func() {
			if r := recover(); r != nil {
				log.Error("HandleSubscribe: panic for %s: %v\n%s", addr, r, debug.Stack())
			}
			_ = ws.Close()
		}()

		if s.engine == nil || s.broadcaster == nil {
			log.Warn("HandleSubscribe: no broadcaster, closing %s", addr)
			return
		}
		if !s.engine.Send(s.broadcaster, AddClient{Conn: ws}, nil) {
			return
		}
		defer s.engine.Send(s.broadcaster, RemoveClient{Conn: ws}, nil)

		s.readLoop(ws)
	}
}

// readLoop discards whatever the viewer sends; it only exists to notice the close.
func (s *Server) readLoop(ws *websocket.Conn) {
	var discard []byte
	for {
		if err := websocket.Message.Receive(ws, &discard); err != nil {
			if err != io.EOF && !isClosedErr(err) {
				log.Debug("HandleSubscribe: read from %s ended: %v", ws.Request().RemoteAddr, err)
			}
			return
		}
	}
}
