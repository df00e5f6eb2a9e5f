// internal/ws/server.go

// Package ws exposes the websocket endpoint that relays client commands
// into the room registry, plus the small HTTP API around it.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	log "github.com/sirupsen/logrus"

	"github.com/SuriyaDcruze/UnoBlitz/internal/auth"
	"github.com/SuriyaDcruze/UnoBlitz/internal/database"
	"github.com/SuriyaDcruze/UnoBlitz/internal/models"
	"github.com/SuriyaDcruze/UnoBlitz/internal/rooms"
)

// Server wires HTTP routes to the room registry.
type Server struct {
	registry *rooms.Registry
}

// NewServer creates a server around an existing registry.
func NewServer(registry *rooms.Registry) *Server {
	return &Server{registry: registry}
}

// Routes returns the HTTP handler for the whole service.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/auth/guest", s.handleGuestAuth)
	mux.HandleFunc("/api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGuestAuth mints a guest session token for a display name.
func (s *Server) handleGuestAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		PlayerName string `json:"playerName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.PlayerName = strings.TrimSpace(req.PlayerName)
	if req.PlayerName == "" {
		http.Error(w, "playerName is required", http.StatusBadRequest)
		return
	}

	token, playerID, err := auth.IssueGuestToken(req.PlayerName)
	if err != nil {
		log.Errorf("failed issuing guest token: %v", err)
		http.Error(w, "failed to issue token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"token":    token,
		"playerId": playerID.String(),
	})
}

// handleLeaderboard serves aggregate player stats. Unavailable when the
// database is not configured.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if database.DB == nil {
		http.Error(w, "stats unavailable", http.StatusServiceUnavailable)
		return
	}
	stats, err := database.FetchLeaderboard(r.Context(), 20)
	if err != nil {
		log.Errorf("failed fetching leaderboard: %v", err)
		http.Error(w, "failed to fetch leaderboard", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleWS upgrades the connection, authenticates it, and runs the read
// loop until the client goes away. Every exit path detaches the session
// from all rooms.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	playerID, name, err := auth.VerifyToken(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Debugf("websocket accept failed: %v", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "server error")

	sess := newSession(playerID, name, conn)
	log.Infof("player %s (%s) connected", playerID, name)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go sess.writePump(ctx)

	for {
		var cmd models.Command
		if err := wsjson.Read(ctx, conn, &cmd); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				log.Infof("player %s disconnected", playerID)
			} else {
				log.Debugf("player %s: read failed: %v", playerID, err)
			}
			break
		}
		s.registry.Dispatch(sess, cmd)
	}

	sess.close()
	s.registry.Disconnect(playerID)
	conn.Close(websocket.StatusNormalClosure, "")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debugf("failed writing response: %v", err)
	}
}
