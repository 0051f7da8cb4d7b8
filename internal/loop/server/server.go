// Package server is the hub shared by every connected session.
//
// Each session runs its own game engine; the hub only tracks who is
// connected, collects finished and running scores into a leaderboard, and
// broadcasts shutdown.
package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/buzz/internal/loop/config"
)

// GameServer is the interface clients use to communicate with the hub.
// Decouples the Client from the concrete Server implementation, enabling
// testing and potential network-based server implementations.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	ReportScore(clientID int, score int, playing bool)
	GetLeaderboard() *Leaderboard
}

// Server tracks connected clients and their scores.
type Server struct {
	board        atomic.Pointer[Leaderboard]
	clients      map[int]*ClientHandle
	nextClientID int
	scoreCh      chan ScoreReport
	registerCh   chan *ClientHandle
	unregisterCh chan int
	mu           sync.RWMutex

	best   *bestScores
	logger *log.Logger
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string           // Display name for this client
	EventsCh chan ClientEvent // Events sent to client
	Score    int              // Latest reported score
	Playing  bool             // Whether a game is in progress
}

// ScoreReport is a score update from a specific client.
type ScoreReport struct {
	ClientID int
	Score    int
	Playing  bool
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type  ClientEventType
	Score int // For personal best events
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventPersonalBest ClientEventType = iota
	EventServerShutdown
)

// NewServer creates a new hub. A nil logger disables logging.
func NewServer(logger *log.Logger) *Server {
	s := &Server{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		scoreCh:      make(chan ScoreReport, 256),
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
		best:         newBestScores(),
		logger:       logger,
	}

	// Create initial empty snapshot
	s.board.Store(&Leaderboard{})

	return s
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(config.ServerTickTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		s.Step()
	}
}

// Step processes pending registrations and score reports, then publishes
// a fresh leaderboard. Run calls it every tick.
func (s *Server) Step() {
	s.processRegistrations()
	s.collectScores()
	s.createSnapshot()
}

// Shutdown notifies all connected clients and waits for them to disconnect,
// up to the given timeout. Should be called before cancelling the Run context.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient creates a new client handle and registers it with the server.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	if len(username) > config.MaxUsernameLength {
		username = username[:config.MaxUsernameLength]
	}
	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}

	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// ReportScore sends a client's current score to the server (non-blocking).
func (s *Server) ReportScore(clientID int, score int, playing bool) {
	select {
	case s.scoreCh <- ScoreReport{ClientID: clientID, Score: score, Playing: playing}:
	default:
	}
}

// GetLeaderboard returns the current leaderboard snapshot (lock-free).
func (s *Server) GetLeaderboard() *Leaderboard {
	return s.board.Load()
}

// processRegistrations handles pending client registrations/unregistrations.
func (s *Server) processRegistrations() {
	for {
		select {
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.clients[handle.ID] = handle
			best := s.best.best(handle.Username)
			s.mu.Unlock()
			// Returning users see the best they set earlier.
			if best > 0 {
				handle.EventsCh <- ClientEvent{Type: EventPersonalBest, Score: best}
			}
			s.info("client joined", "id", handle.ID, "user", handle.Username, "best", best)
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
				s.info("client left", "id", clientID, "user", handle.Username, "score", handle.Score)
			}
			s.mu.Unlock()
		default:
			return
		}
	}
}

// collectScores drains score reports and updates best scores.
func (s *Server) collectScores() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		select {
		case r := <-s.scoreCh:
			handle, ok := s.clients[r.ClientID]
			if !ok {
				continue
			}
			handle.Score = r.Score
			handle.Playing = r.Playing
			if r.Score > 0 && s.best.record(handle.Username, handle.ID, r.Score) {
				select {
				case handle.EventsCh <- ClientEvent{Type: EventPersonalBest, Score: r.Score}:
				default:
				}
			}
		default:
			return
		}
	}
}

// createSnapshot publishes the leaderboard for clients to read.
func (s *Server) createSnapshot() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	playing := 0
	for _, handle := range s.clients {
		if handle.Playing {
			playing++
		}
	}

	s.board.Store(&Leaderboard{
		Players:   len(s.clients),
		Playing:   playing,
		TopScores: s.best.top(config.TopScoresCount),
	})
}

func (s *Server) info(msg string, keyvals ...any) {
	if s.logger != nil {
		s.logger.Info(msg, keyvals...)
	}
}
