package presence

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hugolgst/rich-go/client"
	"github.com/nsrpc/nsrpc/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// rpcClient abstracts the Discord IPC client (package-level functions in rich-go)
type rpcClient interface {
	Login(clientID string) error
	Logout()
	SetActivity(activity client.Activity) error
}

// richGoClient forwards to the rich-go package functions
type richGoClient struct{}

func (richGoClient) Login(clientID string) error                { return client.Login(clientID) }
func (richGoClient) Logout()                                    { client.Logout() }
func (richGoClient) SetActivity(activity client.Activity) error { return client.SetActivity(activity) }

// ClientIDs maps a console to the Discord application that owns its artwork
type ClientIDs func(target domain.ConsoleTarget) string

// DiscordSink publishes presence over Discord's local IPC socket.
// Each console has its own Discord application, so switching consoles
// means logging out and back in with a different client ID.
type DiscordSink struct {
	rpc       rpcClient
	clientIDs ClientIDs
	logger    *slog.Logger
	now       func() time.Time
	caser     cases.Caser // not safe for concurrent use, guarded by mu

	mu        sync.Mutex
	target    domain.ConsoleTarget
	connected bool
	lastErr   error

	// start time of the current title, kept while the same title is republished
	playing   string
	startedAt time.Time
}

// NewDiscordSink creates a sink using the rich-go IPC client
func NewDiscordSink(clientIDs ClientIDs, logger *slog.Logger) *DiscordSink {
	return newDiscordSink(richGoClient{}, clientIDs, logger)
}

func newDiscordSink(rpc rpcClient, clientIDs ClientIDs, logger *slog.Logger) *DiscordSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscordSink{
		rpc:       rpc,
		clientIDs: clientIDs,
		logger:    logger,
		now:       time.Now,
		caser:     cases.Title(language.English),
	}
}

// Connect logs in for target and shows the idle presence
func (s *DiscordSink) Connect(ctx context.Context, target domain.ConsoleTarget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		s.rpc.Logout()
		s.connected = false
	}
	s.target = target
	return s.connectLocked(target)
}

// connectLocked logs in with the client ID of target. It does not change
// s.target, callers commit the target themselves.
func (s *DiscordSink) connectLocked(target domain.ConsoleTarget) error {
	s.playing = ""

	clientID := s.clientIDs(target)
	if err := s.rpc.Login(clientID); err != nil {
		s.connected = false
		s.lastErr = err
		s.logger.Warn("presence login failed", "target", target, "error", err)
		return fmt.Errorf("%w: login %s: %v", domain.ErrUnavailable, target, err)
	}
	s.connected = true

	idle := client.Activity{
		Details:    domain.HomeTitle,
		State:      domain.IdleStatusText,
		LargeImage: domain.HomeArtwork,
		LargeText:  target.DisplayName(),
	}
	if err := s.rpc.SetActivity(idle); err != nil {
		s.rpc.Logout()
		s.connected = false
		s.lastErr = err
		s.logger.Warn("presence idle activity failed", "target", target, "error", err)
		return fmt.Errorf("%w: set idle activity: %v", domain.ErrUnavailable, err)
	}

	s.lastErr = nil
	s.logger.Info("presence connected", "target", target)
	return nil
}

// Disconnect logs out of Discord
func (s *DiscordSink) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		s.rpc.Logout()
		s.connected = false
		s.logger.Info("presence disconnected", "target", s.target)
	}
	return nil
}

// HasError reports whether the last login or publish failed
func (s *DiscordSink) HasError(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.connected || s.lastErr != nil
}

// Reconnect retries the connection for the current target
func (s *DiscordSink) Reconnect(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		s.rpc.Logout()
		s.connected = false
	}
	return s.connectLocked(s.target) == nil
}

// SwitchTarget reconnects using the client ID of another console.
// On failure the sink stays bound to the previous console, so Reconnect
// retries that one.
func (s *DiscordSink) SwitchTarget(ctx context.Context, target domain.ConsoleTarget) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		s.rpc.Logout()
		s.connected = false
	}
	if err := s.connectLocked(target); err != nil {
		s.logger.Warn("console switch failed, keeping previous target", "target", target, "previous", s.target)
		return false
	}
	s.target = target
	return true
}

// Publish sets the activity shown on the user's profile
func (s *DiscordSink) Publish(ctx context.Context, p domain.Presence) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		s.logger.Debug("publish skipped, not connected", "title", p.Title)
		return false
	}

	if p.Title != s.playing {
		s.playing = p.Title
		s.startedAt = s.now()
	}
	start := s.startedAt

	activity := client.Activity{
		Details:    p.Title,
		State:      s.caser.String(p.Status),
		LargeImage: p.Artwork,
		LargeText:  s.target.DisplayName(),
		Timestamps: &client.Timestamps{Start: &start},
	}
	if err := s.rpc.SetActivity(activity); err != nil {
		s.lastErr = err
		s.logger.Warn("presence publish failed", "title", p.Title, "error", err)
		return false
	}

	s.lastErr = nil
	s.logger.Debug("presence published", "title", p.Title, "status", activity.State, "artwork", p.Artwork)
	return true
}
