package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"ecocharge/backend/services/reservation-service/internal/http/middleware"
	"ecocharge/backend/services/reservation-service/internal/models"
	"ecocharge/backend/services/reservation-service/internal/service"
)

// AdminGate decides who may subscribe and provides the initial dashboard state.
type AdminGate interface {
	Authorize(actorID string) (models.User, error)
	Stats(actorID string) (service.Stats, error)
}

// Server upgrades admin dashboard requests to websockets.
type Server struct {
	hub          *Hub
	tokens       middleware.TokenValidator
	admin        AdminGate
	logger       *zap.Logger
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
	now          func() time.Time
}

// NewServer builds ws server.
func NewServer(hub *Hub, tokens middleware.TokenValidator, admin AdminGate, writeTimeout time.Duration, logger *zap.Logger) *Server {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Server{
		hub:          hub,
		tokens:       tokens,
		admin:        admin,
		logger:       logger,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		now: time.Now,
	}
}

// HandleWS is HTTP handler for /ws/admin. The token comes from the Authorization header or
// the token query parameter.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.TokenFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	user, err := s.admin.Authorize(claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	connection := NewConnection(uuid.NewString(), user.ID, conn, s.writeTimeout, s.logger, s.hub.Remove)
	s.hub.Add(connection)
	s.logger.Info("admin feed connected", zap.String("conn_id", connection.ID()), zap.String("user_id", user.ID))

	if stats, err := s.admin.Stats(user.ID); err == nil {
		if msg, err := json.Marshal(service.Event{Type: service.EventStats, At: s.now().UTC(), Payload: stats}); err == nil {
			connection.Send(msg)
		}
	}

	go connection.Start()
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
