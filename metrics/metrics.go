// Package metrics holds the Prometheus collectors for the edge pipeline and the race.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	EdgesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ringrace_edges_received_total",
			Help: "Edges drained from the interrupt queue, by pin",
		},
		[]string{"pin"},
	)
	EdgesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ringrace_edges_dropped_total",
			Help: "Edges dropped because the interrupt queue was full",
		},
	)
	EdgesUnknownPin = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ringrace_edges_unknown_pin_total",
			Help: "Edges on pins no button is attached to",
		},
	)
	DebounceSuppressed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ringrace_debounce_suppressed_total",
			Help: "Press/release pairs shorter than the minimum press duration",
		},
		[]string{"subject"},
	)
	ActionsPosted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ringrace_actions_posted_total",
			Help: "User actions posted to the game actor",
		},
		[]string{"kind", "subject"},
	)
	MessagesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ringrace_actor_messages_dropped_total",
			Help: "Messages dropped by the actor engine (full mailbox or dead actor)",
		},
	)
	Ticks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ringrace_ticks_total",
			Help: "Timer ticks processed by the game actor",
		},
		[]string{"timer"},
	)
	StateTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ringrace_state_transitions_total",
			Help: "Game state transitions",
		},
		[]string{"from", "to"},
	)
	Wins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ringrace_wins_total",
			Help: "Races won, by player",
		},
		[]string{"player"},
	)
	FramesFlushed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ringrace_frames_flushed_total",
			Help: "Frames handed to the strip sinks",
		},
	)
	WebsocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ringrace_websocket_clients",
			Help: "Connected virtual strip viewers",
		},
	)
)

func init() {
	prometheus.MustRegister(
		EdgesReceived,
		EdgesDropped,
		EdgesUnknownPin,
		DebounceSuppressed,
		ActionsPosted,
		MessagesDropped,
		Ticks,
		StateTransitions,
		Wins,
		FramesFlushed,
		WebsocketClients,
	)
}
