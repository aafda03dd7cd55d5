package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/roach88/petsy/internal/engine"
	"github.com/roach88/petsy/internal/memory"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
	// Outbound messages buffered per client before frames are dropped.
	sendBuffer = 64
	// Client commands allowed to wait on the loop before input is refused.
	maxPendingInput = 32
)

// Client is one websocket connection playing its own game.
//
// The game (engine, session, pending popup) lives on the client's loop.
// ReadPump posts commands into the loop; the loop renders into send, which
// WritePump drains.
type Client struct {
	conn    *websocket.Conn
	loop    *engine.Loop
	session *memory.Session
	send    chan []byte
	logger  *slog.Logger

	// ack is the open popup's acknowledgement. Loop goroutine only.
	ack func()
}

// newClient wires a game for conn. The caller owns the loop lifecycle.
func newClient(conn *websocket.Conn, rules memory.Rules, dealer memory.Dealer, listeners []memory.Listener, logger *slog.Logger) *Client {
	c := &Client{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		logger: logger,
	}
	c.loop = engine.NewLoop(
		engine.WithLogger(logger),
		engine.WithName("ws"),
		engine.WithMaxPending(maxPendingInput),
	)

	opts := []memory.Option{
		memory.WithPresenter(c),
		memory.WithLogger(logger),
	}
	if dealer != nil {
		opts = append(opts, memory.WithDealer(dealer))
	}
	for _, l := range listeners {
		opts = append(opts, memory.WithListener(l))
	}
	eng := memory.NewEngine(rules, c.loop, opts...)
	c.session = memory.NewSession(eng, c)
	return c
}

// Render implements memory.Presenter.
func (c *Client) Render(f memory.Frame) {
	c.push(ServerMessage{Type: MsgFrame, Frame: NewFrameView(f)})
}

// Notify implements memory.PopupNotifier.
func (c *Client) Notify(message string, onAcknowledge func()) {
	c.ack = onAcknowledge
	c.push(ServerMessage{Type: MsgPopup, Message: message})
}

// push is safe from any goroutine until send is closed.
func (c *Client) push(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("failed to encode message", "type", msg.Type, "error", err)
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn("client send buffer full, dropping message", "type", msg.Type)
	}
}

// handle runs a client command on the loop goroutine.
func (c *Client) handle(msg ClientMessage) {
	switch msg.Type {
	case MsgFlip:
		if msg.Index == nil {
			c.push(ServerMessage{Type: MsgError, Message: "flip requires index"})
			return
		}
		c.session.Flip(*msg.Index)
	case MsgAck:
		if c.ack == nil {
			return
		}
		ack := c.ack
		c.ack = nil
		ack()
	case MsgRestart:
		c.ack = nil
		c.session.Restart()
	default:
		c.push(ServerMessage{Type: MsgError, Message: fmt.Sprintf("unknown message type %q", msg.Type)})
	}
}

// serve runs the game until the peer disconnects or ctx is done.
func (c *Client) serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		if err := c.loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Error("game loop stopped with error", "error", err)
		}
	}()

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		c.writePump()
	}()

	c.loop.Post(c.session.Start)

	go func() {
		<-ctx.Done()
		c.conn.Close()
	}()
	c.readPump()

	c.loop.Stop()
	<-loopDone
	// The loop has returned, so this goroutine is the engine's only writer.
	c.session.Engine().Halt()
	// No loop task can push after the loop has returned.
	close(c.send)
	<-writeDone
}

// readPump pumps commands from the websocket connection into the loop.
func (c *Client) readPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Debug("invalid client message", "error", err)
			c.push(ServerMessage{Type: MsgError, Message: "invalid JSON"})
			continue
		}
		if err := c.loop.TryPost(func() { c.handle(msg) }); err != nil {
			if !engine.IsQueueFull(err) {
				return
			}
			c.logger.Warn("dropping client input", "type", msg.Type, "error", err)
			c.push(ServerMessage{Type: MsgError, Message: "busy"})
		}
	}
}

// writePump pumps messages from send to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
