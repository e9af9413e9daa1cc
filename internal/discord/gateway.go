package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/arxiver/arxiver/internal/bot"
	"github.com/gorilla/websocket"
)

const reconnectDelay = 5 * time.Second

// MessageHandler receives each incoming chat message.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg *bot.IncomingMessage)
}

// Gateway maintains the websocket connection to Discord, heartbeats it, and
// dispatches incoming messages to a handler.
type Gateway struct {
	client   *Client
	token    string
	presence string
	handler  MessageHandler
	logger   *slog.Logger

	readyOnce sync.Once
	ready     chan struct{}
	done      chan struct{}
}

// NewGateway creates a gateway connection manager. presence is the activity
// name shown as "Watching <presence>" once the session is up.
func NewGateway(client *Client, token, presence string, handler MessageHandler, logger *slog.Logger) *Gateway {
	return &Gateway{
		client:   client,
		token:    token,
		presence: presence,
		handler:  handler,
		logger:   logger,
		ready:    make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Ready is closed once the first session reaches READY.
func (g *Gateway) Ready() <-chan struct{} {
	return g.ready
}

// Done is closed when the gateway has shut down for good. Background loops
// treat it as the connection-closed signal.
func (g *Gateway) Done() <-chan struct{} {
	return g.done
}

// Run connects to the gateway and processes events until the context is
// cancelled. It reconnects on transient errors.
func (g *Gateway) Run(ctx context.Context) error {
	defer close(g.done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := g.connect(ctx); err != nil {
				g.logger.Error("gateway connection error, reconnecting", "error", err)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(reconnectDelay):
					// backoff before reconnecting
				}
			}
		}
	}
}

func (g *Gateway) connect(ctx context.Context) error {
	gatewayURL, err := g.client.GatewayURL(ctx)
	if err != nil {
		return err
	}

	wsURL := gatewayURL + "/?v=10&encoding=json"
	g.logger.Info("connecting to gateway", "url", wsURL)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial gateway: %w", err)
	}
	defer conn.Close()

	session := &session{conn: conn}

	// The server speaks first: Hello carries the heartbeat cadence.
	hello, err := session.readPayload()
	if err != nil {
		return fmt.Errorf("read hello: %w", err)
	}
	if hello.Op != opHello {
		return fmt.Errorf("expected hello, got op %d", hello.Op)
	}
	var helloBody helloData
	if err := json.Unmarshal(hello.Data, &helloBody); err != nil {
		return fmt.Errorf("unmarshal hello: %w", err)
	}

	sessionCtx, endSession := context.WithCancel(ctx)
	defer endSession()
	go g.heartbeat(sessionCtx, session, time.Duration(helloBody.HeartbeatInterval)*time.Millisecond)

	// Closing the connection is the only way to interrupt a blocked read,
	// so a cancelled context must translate into a close.
	go func() {
		<-sessionCtx.Done()
		conn.Close()
	}()

	if err := g.identify(session); err != nil {
		return fmt.Errorf("identify: %w", err)
	}

	return g.readLoop(ctx, session)
}

func (g *Gateway) identify(s *session) error {
	data := identifyData{
		Token:   g.token,
		Intents: gatewayIntents,
		Properties: identifyProperties{
			OS:      runtime.GOOS,
			Browser: "arxiver",
			Device:  "arxiver",
		},
	}
	if g.presence != "" {
		data.Presence = &presenceUpdate{
			Status:     "online",
			Activities: []activity{{Name: g.presence, Type: activityWatching}},
		}
	}
	return s.writePayload(payload{Op: opIdentify, Data: mustMarshal(data)})
}

func (g *Gateway) readLoop(ctx context.Context, s *session) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		p, err := s.readPayload()
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}
		if p.Sequence != nil {
			s.setSequence(*p.Sequence)
		}

		switch p.Op {
		case opDispatch:
			g.handleDispatch(ctx, p)

		case opHeartbeat:
			// Server requested an immediate heartbeat.
			if err := s.writeHeartbeat(); err != nil {
				return fmt.Errorf("heartbeat: %w", err)
			}

		case opHeartbeatACK:
			// Nothing to do.

		default:
			g.logger.Debug("ignoring gateway op", "op", p.Op)
		}
	}
}

func (g *Gateway) handleDispatch(ctx context.Context, p *payload) {
	switch p.Type {
	case "READY":
		var ready readyData
		if err := json.Unmarshal(p.Data, &ready); err != nil {
			g.logger.Error("failed to parse ready", "error", err)
			return
		}
		g.logger.Info("gateway ready", "user", ready.User.Username, "session", ready.SessionID)
		g.readyOnce.Do(func() { close(g.ready) })

	case "MESSAGE_CREATE":
		var msg Message
		if err := json.Unmarshal(p.Data, &msg); err != nil {
			g.logger.Error("failed to parse message", "error", err)
			return
		}
		g.handler.HandleMessage(ctx, &bot.IncomingMessage{
			ChannelID:   msg.ChannelID,
			GuildID:     msg.GuildID,
			Content:     msg.Content,
			AuthorID:    msg.Author.ID,
			AuthorIsBot: msg.Author.Bot,
		})
	}
}

func (g *Gateway) heartbeat(ctx context.Context, s *session, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.writeHeartbeat(); err != nil {
				g.logger.Error("heartbeat write failed", "error", err)
				return
			}
		}
	}
}

// session wraps one websocket connection. Writes are serialized because the
// heartbeat goroutine and the read loop both send frames.
type session struct {
	conn *websocket.Conn

	mu  sync.Mutex
	seq int64
}

func (s *session) readPayload() (*payload, error) {
	var p payload
	if err := s.conn.ReadJSON(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *session) writePayload(p payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(p)
}

func (s *session) setSequence(seq int64) {
	s.mu.Lock()
	s.seq = seq
	s.mu.Unlock()
}

// writeHeartbeat sends op 1 with the last seen sequence number as its data.
func (s *session) writeHeartbeat() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(payload{Op: opHeartbeat, Data: mustMarshal(s.seq)})
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
