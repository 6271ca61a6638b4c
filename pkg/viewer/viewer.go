// Package viewer streams chunk meshes to external renderers over a
// websocket. A Server is a terrain.MeshSink: every published or evicted
// mesh becomes a zstd-compressed JSON frame sent to each subscriber as a
// binary message. Subscribers that fall behind lose frames instead of
// stalling the tick loop; new subscribers first receive every mesh that is
// currently resident.
package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/zstd"

	"github.com/chazu/loam/pkg/geom"
	"github.com/chazu/loam/pkg/mesh"
	"github.com/chazu/loam/pkg/terrain"
)

// Frame types.
const (
	FrameMesh  = "MESH"
	FrameEvict = "EVICT"
)

// Frame is one message on the wire before compression.
type Frame struct {
	Type  string        `json:"type"`
	Seq   uint64        `json:"seq"`
	Chunk terrain.Coord `json:"chunk"`
	Mesh  *mesh.Mesh    `json:"mesh,omitempty"`
	// Bounds is the mesh's world-space box, absent for evictions and
	// empty meshes.
	Bounds *geom.AABB `json:"bounds,omitempty"`
}

// Options configures a Server.
type Options struct {
	// Buffer is the number of frames queued per subscriber before frames
	// are dropped. Zero means 256.
	Buffer int
	Logger *slog.Logger
}

const writeTimeout = 5 * time.Second

type client struct {
	id  uint64
	out chan []byte
}

// Server fans mesh frames out to websocket subscribers.
type Server struct {
	log      *slog.Logger
	upgrader websocket.Upgrader
	enc      *zstd.Encoder
	buffer   int

	mu       sync.Mutex
	closed   bool
	clients  map[uint64]*client
	resident map[terrain.Coord]*mesh.Mesh

	nextID  atomic.Uint64
	seq     atomic.Uint64
	dropped atomic.Uint64
}

// NewServer creates a Server. Call Close to release the encoder.
func NewServer(opts Options) (*Server, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("viewer: zstd encoder: %w", err)
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 256
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			// Loopback only, so any page on this machine may connect.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		enc:      enc,
		buffer:   opts.Buffer,
		clients:  make(map[uint64]*client),
		resident: make(map[terrain.Coord]*mesh.Mesh),
	}, nil
}

// Close releases the encoder. Later mesh updates only maintain the
// resident set, and new subscribers are refused. Handlers still running
// keep their connections until the peer closes them.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.enc.Close()
}

// Clients returns the number of connected subscribers.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Dropped returns the number of frames dropped for slow subscribers.
func (s *Server) Dropped() uint64 {
	return s.dropped.Load()
}

// MeshReady implements terrain.MeshSink.
func (s *Server) MeshReady(c terrain.Coord, m *mesh.Mesh) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resident[c] = m
	s.broadcastLocked(Frame{Type: FrameMesh, Chunk: c, Mesh: m, Bounds: m.WireBounds()})
}

// MeshEvicted implements terrain.MeshSink.
func (s *Server) MeshEvicted(c terrain.Coord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.resident, c)
	s.broadcastLocked(Frame{Type: FrameEvict, Chunk: c})
}

func (s *Server) encode(f Frame) ([]byte, error) {
	f.Seq = s.seq.Add(1)
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return s.enc.EncodeAll(b, make([]byte, 0, len(b)/4)), nil
}

func (s *Server) broadcastLocked(f Frame) {
	if s.closed || len(s.clients) == 0 {
		return
	}
	b, err := s.encode(f)
	if err != nil {
		s.log.Error("encode frame", "type", f.Type, "chunk", f.Chunk, "err", err)
		return
	}
	for _, c := range s.clients {
		select {
		case c.out <- b:
		default:
			s.dropped.Add(1)
			s.log.Debug("frame dropped", "client", c.id, "type", f.Type, "chunk", f.Chunk)
		}
	}
}

// join registers a subscriber and returns the frames describing the
// current resident set. Registering and snapshotting under one lock keeps
// the snapshot ordered before any later broadcast. It returns nil once the
// server is closed.
func (s *Server) join() (*client, [][]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, nil
	}
	c := &client{id: s.nextID.Add(1), out: make(chan []byte, s.buffer)}
	s.clients[c.id] = c

	snapshot := make([][]byte, 0, len(s.resident))
	for coord, m := range s.resident {
		b, err := s.encode(Frame{Type: FrameMesh, Chunk: coord, Mesh: m, Bounds: m.WireBounds()})
		if err != nil {
			s.log.Error("encode snapshot frame", "chunk", coord, "err", err)
			continue
		}
		snapshot = append(snapshot, b)
	}
	return c, snapshot
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) leave(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, c.id)
}

// Handler returns the HTTP handler serving the websocket at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.WSHandler())
	return mux
}

// WSHandler upgrades loopback requests and streams frames until the
// connection closes.
func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		if s.isClosed() {
			http.Error(rw, "viewer closed", http.StatusServiceUnavailable)
			return
		}
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		c, snapshot := s.join()
		if c == nil {
			return
		}
		defer s.leave(c)
		s.log.Info("viewer connected", "client", c.id, "remote", r.RemoteAddr, "meshes", len(snapshot))

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		writeErr := make(chan error, 1)
		go func() {
			write := func(b []byte) error {
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				return conn.WriteMessage(websocket.BinaryMessage, b)
			}
			for _, b := range snapshot {
				if err := write(b); err != nil {
					writeErr <- err
					return
				}
			}
			for {
				select {
				case <-ctx.Done():
					writeErr <- ctx.Err()
					return
				case b := <-c.out:
					if err := write(b); err != nil {
						writeErr <- err
						return
					}
				}
			}
		}()

		// Subscribers never send anything meaningful; reading only detects
		// the close.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		cancel()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
		s.log.Info("viewer disconnected", "client", c.id)
	}
}

// ListenAndServe serves the viewer on addr until ctx is done. addr must be
// a loopback address.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("viewer: listen address %q: %w", addr, err)
	}
	if ip := net.ParseIP(host); host != "localhost" && (ip == nil || !ip.IsLoopback()) {
		return fmt.Errorf("viewer: listen address %q is not loopback", addr)
	}

	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("viewer listening", "addr", addr)

	select {
	case err := <-errc:
		return fmt.Errorf("viewer: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("viewer: shutdown: %w", err)
		}
		return nil
	}
}

// Decoder turns binary messages back into frames.
type Decoder struct {
	dec *zstd.Decoder
}

// NewDecoder creates a Decoder. Call Close when done.
func NewDecoder() (*Decoder, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("viewer: zstd decoder: %w", err)
	}
	return &Decoder{dec: dec}, nil
}

// Decode decompresses and parses one message.
func (d *Decoder) Decode(b []byte) (*Frame, error) {
	raw, err := d.dec.DecodeAll(b, nil)
	if err != nil {
		return nil, fmt.Errorf("viewer: decompress frame: %w", err)
	}
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("viewer: parse frame: %w", err)
	}
	return &f, nil
}

func (d *Decoder) Close() {
	d.dec.Close()
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
