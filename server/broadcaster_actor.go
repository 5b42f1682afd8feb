package server

import (
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/lguibr/ringrace/bollywood"
	"github.com/lguibr/ringrace/log"
	"github.com/lguibr/ringrace/metrics"
	"github.com/lguibr/ringrace/strip"
	"golang.org/x/net/websocket"
)

const writeTimeout = time.Second

// AddClient registers a websocket viewer. It is sent the last frame right away.
type AddClient struct {
	Conn *websocket.Conn
}

// RemoveClient forgets a viewer, e.g. when its read loop ends.
type RemoveClient struct {
	Conn *websocket.Conn
}

// BroadcastFrame carries one flushed strip frame to every viewer.
type BroadcastFrame struct {
	Frame strip.Frame
}

// BroadcasterActor fans strip frames out to websocket viewers. The client set is
// only touched from Receive.
type BroadcasterActor struct {
	clients map[*websocket.Conn]struct{}
	last    *strip.Frame
	selfPID *bollywood.PID
}

// NewBroadcasterProducer creates a producer for BroadcasterActor.
func NewBroadcasterProducer() bollywood.Producer {
	return func() bollywood.Actor {
		return &BroadcasterActor{
			clients: make(map[*websocket.Conn]struct{}),
		}
	}
}

func (a *BroadcasterActor) Receive(ctx bollywood.Context) {
	switch msg := ctx.Message().(type) {
	case bollywood.Started:
		a.selfPID = ctx.Self()

	case AddClient:
		if msg.Conn == nil {
			return
		}
		a.clients[msg.Conn] = struct{}{}
		metrics.WebsocketClients.Set(float64(len(a.clients)))
		log.Debug("Broadcaster %s: client %s added (%d total)", a.selfPID, msg.Conn.RemoteAddr(), len(a.clients))
		if a.last != nil {
			a.send(msg.Conn, a.last)
		}

	case RemoveClient:
		if _, ok := a.clients[msg.Conn]; ok {
			delete(a.clients, msg.Conn)
			metrics.WebsocketClients.Set(float64(len(a.clients)))
			log.Debug("Broadcaster %s: client %s removed (%d left)", a.selfPID, msg.Conn.RemoteAddr(), len(a.clients))
		}

	case BroadcastFrame:
		frame := msg.Frame
		a.last = &frame
		for conn := range a.clients {
			a.send(conn, &frame)
		}

	case bollywood.Stopping:
		for conn := range a.clients {
			_ = conn.Close()
			delete(a.clients, conn)
		}
		metrics.WebsocketClients.Set(0)

	case bollywood.Stopped:
		log.Debug("Broadcaster %s: stopped", a.selfPID)

	default:
		log.Warn("Broadcaster %s: unsupported message type %T", a.selfPID, msg)
	}
}

// send writes one frame; a viewer that cannot take it is dropped.
func (a *BroadcasterActor) send(conn *websocket.Conn, frame *strip.Frame) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	err := websocket.JSON.Send(conn, frame)
	if err == nil {
		return
	}
	if !isClosedErr(err) {
		log.Warn("Broadcaster %s: write to %s failed: %v", a.selfPID, conn.RemoteAddr(), err)
	}
	_ = conn.Close()
	delete(a.clients, conn)
	metrics.WebsocketClients.Set(float64(len(a.clients)))
}

func isClosedErr(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}

// BroadcastSink forwards flushed frames to a broadcaster actor without blocking the flusher.
type BroadcastSink struct {
	engine *bollywood.Engine
	pid    *bollywood.PID
}

func NewBroadcastSink(engine *bollywood.Engine, pid *bollywood.PID) *BroadcastSink {
	return &BroadcastSink{engine: engine, pid: pid}
}

// Show never fails; a full broadcaster mailbox drops the frame and the engine logs it.
func (s *BroadcastSink) Show(frame strip.Frame) error {
	s.engine.Send(s.pid, BroadcastFrame{Frame: frame}, nil)
	return nil
}
