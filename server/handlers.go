package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/lguibr/ringrace/input"
	"github.com/lguibr/ringrace/log"
	"github.com/lguibr/ringrace/utils"
)

const (
	defaultPressHold = 30 * time.Millisecond
	maxPressHold     = 5 * time.Second
)

// EdgeRequest is the body of POST /edge.
type EdgeRequest struct {
	Pin   *int `json:"pin"`
	Level *int `json:"level"`
}

// PressRequest is the optional body of POST /press/{button}.
type PressRequest struct {
	HoldMs int `json:"holdMs"`
}

var buttonPins = map[string]utils.Pin{
	"game":    utils.PinGame,
	"player1": utils.PinPlayer1,
	"player2": utils.PinPlayer2,
}

func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// HandleGetState returns the latest published snapshot.
func (s *Server) HandleGetState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.snapshots == nil {
			http.Error(w, "state unavailable", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, s.snapshots.Snapshot())
	}
}

// HandlePostEdge injects one raw edge, stamped with the source clock.
func (s *Server) HandlePostEdge() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.edges == nil {
			http.Error(w, "edge input disabled", http.StatusServiceUnavailable)
			return
		}
		var req EdgeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if req.Pin == nil || *req.Pin < 0 || *req.Pin > 255 {
			http.Error(w, "pin must be within [0, 255]", http.StatusBadRequest)
			return
		}
		if req.Level == nil || (*req.Level != int(utils.Low) && *req.Level != int(utils.High)) {
			http.Error(w, "level must be 0 or 1", http.StatusBadRequest)
			return
		}

		ts := s.edges.Now()
		if err := s.edges.OnEdge(utils.Pin(*req.Pin), utils.Level(*req.Level), ts); err != nil {
			writeEdgeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]uint32{"timestampMs": ts})
	}
}

// HandlePostPress presses a named button for holdMs (default 30ms).
func (s *Server) HandlePostPress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.edges == nil {
			http.Error(w, "edge input disabled", http.StatusServiceUnavailable)
			return
		}
		pin, ok := buttonPins[mux.Vars(r)["button"]]
		if !ok {
			http.Error(w, "unknown button", http.StatusNotFound)
			return
		}

		hold := defaultPressHold
		if r.ContentLength != 0 {
			var req PressRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid JSON body", http.StatusBadRequest)
				return
			}
			if req.HoldMs > 0 {
				hold = time.Duration(req.HoldMs) * time.Millisecond
			}
		}
		if hold > maxPressHold {
			http.Error(w, "hold too long", http.StatusBadRequest)
			return
		}

		if err := s.edges.Press(pin, hold); err != nil {
			writeEdgeError(w, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func writeEdgeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, input.ErrQueueFull) {
		status = http.StatusServiceUnavailable
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("Server: writing response failed: %v", err)
	}
}
