package rest

import (
	"encoding/json"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-session/internal/entity"
)

func (that *Server) pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// stateHandler - writes the current session snapshot, shaped like the game-state payload.
func (that *Server) stateHandler(w http.ResponseWriter, _ *http.Request) {
	data, err := json.Marshal(that.state.Snapshot())
	if err != nil {
		that.logger.Error("failed to marshal snapshot", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(data); err != nil {
		that.logger.Debug("failed to write snapshot", "error", err)
	}
}

type stateProvider interface {
	Snapshot() entity.Snapshot
}
