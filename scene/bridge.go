package scene

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"

	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/world"
)

// Op kinds on the wire
const (
	OpSnapshot = "snapshot"
	OpAdd      = "add"
	OpUpdate   = "update"
	OpRemove   = "remove"
	OpCamera   = "camera"
)

// Op is one scene mutation streamed to clients
type Op struct {
	Op      string              `json:"op"`
	Object  *world.SceneObject  `json:"object,omitempty"`
	ID      world.ObjectID      `json:"id,omitempty"`
	Objects []world.SceneObject `json:"objects,omitempty"`
}

// CameraMessage is sent by the browser whenever its camera moves
type CameraMessage struct {
	Op         string     `json:"op"`
	Position   world.Vec3 `json:"position"`
	View       mgl64.Mat4 `json:"view"`
	Projection mgl64.Mat4 `json:"projection"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
}

type client struct {
	conn *websocket.Conn
	send chan Op
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Bridge is a SceneRenderer that applies ops to a Graph and mirrors them to
// every connected websocket client; clients report the camera back
type Bridge struct {
	graph    *Graph
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewBridge wraps graph; a nil graph gets a fresh one
func NewBridge(graph *Graph, logger *log.Logger) *Bridge {
	if graph == nil {
		graph = NewGraph()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Bridge{
		graph: graph,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// Graph returns the backing scene graph
func (b *Bridge) Graph() *Graph {
	return b.graph
}

// Add implements world.SceneRenderer
func (b *Bridge) Add(obj world.SceneObject) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.graph.Add(obj); err != nil {
		return err
	}
	b.broadcast(Op{Op: OpAdd, Object: &obj})
	return nil
}

// Update implements world.SceneRenderer
func (b *Bridge) Update(obj world.SceneObject) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.graph.Update(obj); err != nil {
		return err
	}
	b.broadcast(Op{Op: OpUpdate, Object: &obj})
	return nil
}

// Remove implements world.SceneRenderer
func (b *Bridge) Remove(id world.ObjectID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.graph.Remove(id); err != nil {
		return err
	}
	b.broadcast(Op{Op: OpRemove, ID: id})
	return nil
}

// Camera implements world.SceneRenderer
func (b *Bridge) Camera() (world.Camera, bool) {
	return b.graph.Camera()
}

// SetCamera installs a locally driven camera
func (b *Bridge) SetCamera(cam world.Camera) {
	b.graph.SetCamera(cam)
}

// Clients returns the number of connected clients
func (b *Bridge) Clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// broadcast queues op for every client, dropping those that fall behind
// Caller holds b.mu
func (b *Bridge) broadcast(op Op) {
	for c := range b.clients {
		select {
		case c.send <- op:
		default:
			b.logger.Printf("[scene] client %s too slow, disconnecting", c.conn.RemoteAddr())
			delete(b.clients, c)
			c.close()
		}
	}
}

// ServeHTTP upgrades to a websocket, sends a snapshot and streams ops
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Printf("[scene] upgrade: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan Op, parameter.BridgeSendBuffer)}

	b.mu.Lock()
	c.send <- Op{Op: OpSnapshot, Objects: b.graph.Objects()}
	b.clients[c] = struct{}{}
	b.mu.Unlock()
	b.logger.Printf("[scene] client %s connected", conn.RemoteAddr())

	go b.writeLoop(c)
	b.readLoop(c)

	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		c.close()
	}
	b.mu.Unlock()
	b.logger.Printf("[scene] client %s disconnected", conn.RemoteAddr())
}

func (b *Bridge) writeLoop(c *client) {
	ping := time.NewTicker(parameter.BridgePingInterval)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case op, ok := <-c.send:
			if !ok {
				c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(parameter.BridgeWriteTimeout))
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(parameter.BridgeWriteTimeout))
			if err := c.conn.WriteJSON(op); err != nil {
				b.logger.Printf("[scene] write: %v", err)
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil,
				time.Now().Add(parameter.BridgeWriteTimeout)); err != nil {
				return
			}
		}
	}
}

func (b *Bridge) readLoop(c *client) {
	for {
		var msg CameraMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				b.logger.Printf("[scene] read: %v", err)
			}
			return
		}
		if msg.Op != OpCamera {
			b.logger.Printf("[scene] ignoring client op %q", msg.Op)
			continue
		}
		if !world.Finite(msg.Position) {
			b.logger.Printf("[scene] dropping camera with non-finite position")
			continue
		}
		b.graph.SetCamera(world.Camera{
			Position:   msg.Position,
			View:       msg.View,
			Projection: msg.Projection,
			Width:      msg.Width,
			Height:     msg.Height,
		})
	}
}

// Close disconnects every client
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		delete(b.clients, c)
		c.close()
	}
}

// ListenAndServe serves the bridge at parameter.BridgePath until ctx ends
func (b *Bridge) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(parameter.BridgePath, b)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	b.logger.Printf("[scene] bridge listening on %s%s", addr, parameter.BridgePath)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		b.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), parameter.BridgeWriteTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
