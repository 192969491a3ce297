package network

import (
	"bufio"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// ErrTooManyConns is returned when the connection limit is reached
var ErrTooManyConns = errors.New("max connections reached")

// ConnID uniquely identifies an accepted connection
type ConnID uint32

// ConnState represents connection lifecycle state
type ConnState uint8

const (
	StateDisconnected ConnState = iota
	StateConnected
	StateDisconnecting
)

// Conn is a request/response endpoint over a framed stream
// Every request carries a fresh Seq; its reply carries Ack = Seq
type Conn struct {
	ID       ConnID
	Addr     string
	State    atomic.Uint32 // ConnState
	LastSeen atomic.Int64  // UnixNano

	// Sequence tracking
	OutSeq atomic.Uint32 // Last outbound sequence
	InSeq  atomic.Uint32 // Last received sequence

	// I/O
	conn   net.Conn
	reader *bufio.Reader
	writer *bufio.Writer
	config *Config

	writeMu sync.Mutex
	callMu  sync.Mutex

	// Lifecycle
	closeCh   chan struct{}
	closeOnce sync.Once
}

// NewConn wraps an established connection
func NewConn(c net.Conn, cfg *Config) *Conn {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	readSize := cfg.ReadBufferSize
	if readSize <= 0 {
		readSize = 64 * 1024
	}
	writeSize := cfg.WriteBufferSize
	if writeSize <= 0 {
		writeSize = 64 * 1024
	}

	conn := &Conn{
		conn:    c,
		reader:  bufio.NewReaderSize(c, readSize),
		writer:  bufio.NewWriterSize(c, writeSize),
		config:  cfg,
		closeCh: make(chan struct{}),
	}
	if addr := c.RemoteAddr(); addr != nil {
		conn.Addr = addr.String()
	}
	conn.State.Store(uint32(StateConnected))
	conn.LastSeen.Store(time.Now().UnixNano())
	return conn
}

// Send assigns the next sequence number and writes the message
func (c *Conn) Send(msg *Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if ConnState(c.State.Load()) != StateConnected {
		return net.ErrClosed
	}

	msg.Seq = c.OutSeq.Add(1)

	if err := c.conn.SetWriteDeadline(deadline(c.config.WriteTimeout)); err != nil {
		return err
	}
	if err := msg.Encode(c.writer, c.config.MaxPayload); err != nil {
		return err
	}
	return c.writer.Flush()
}

// Receive reads the next message; zero timeout waits indefinitely
func (c *Conn) Receive(timeout time.Duration) (*Message, error) {
	if err := c.conn.SetReadDeadline(deadline(timeout)); err != nil {
		return nil, err
	}
	msg, err := Decode(c.reader, c.config.MaxPayload)
	if err != nil {
		return nil, err
	}

	c.LastSeen.Store(time.Now().UnixNano())
	if msg.Seq > c.InSeq.Load() {
		c.InSeq.Store(msg.Seq)
	}
	return msg, nil
}

// ReceiveRequest waits for the next request within the idle timeout
func (c *Conn) ReceiveRequest() (*Message, error) {
	return c.Receive(c.config.IdleTimeout)
}

// Call sends a request and waits for the reply that acknowledges it
// MsgReject is reported as ErrRejected regardless of its Ack
func (c *Conn) Call(t MessageType, payload []byte) (*Message, error) {
	c.callMu.Lock()
	defer c.callMu.Unlock()

	req := NewMessage(t, payload)
	if err := c.Send(req); err != nil {
		return nil, err
	}

	reply, err := c.Receive(c.config.ReadTimeout)
	if err != nil {
		return nil, err
	}
	if reply.Type == MsgReject {
		return nil, ErrRejected
	}
	if reply.Ack != req.Seq {
		return nil, fmt.Errorf("%w: sent %d, got %d", ErrUnexpectedAck, req.Seq, reply.Ack)
	}
	return reply, nil
}

// Reply answers req with the given type and payload
func (c *Conn) Reply(req *Message, t MessageType, payload []byte) error {
	msg := NewMessage(t, payload)
	msg.Ack = req.Seq
	return c.Send(msg)
}

// Close initiates shutdown; safe to call multiple times
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.State.Store(uint32(StateDisconnecting))
		close(c.closeCh)
		err = c.conn.Close()
		c.State.Store(uint32(StateDisconnected))
	})
	return err
}

// Done is closed once Close has been called
func (c *Conn) Done() <-chan struct{} {
	return c.closeCh
}

func deadline(d time.Duration) time.Time {
	if d <= 0 {
		return time.Time{}
	}
	return time.Now().Add(d)
}

// ConnManager tracks accepted connections against a limit
type ConnManager struct {
	mu       sync.RWMutex
	conns    map[ConnID]*Conn
	nextID   atomic.Uint32
	maxConns int
	config   *Config
}

// NewConnManager creates a connection manager
func NewConnManager(cfg *Config) *ConnManager {
	return &ConnManager{
		conns:    make(map[ConnID]*Conn),
		maxConns: cfg.MaxConns,
		config:   cfg,
	}
}

// Add registers a raw connection; the caller owns conn on error
func (cm *ConnManager) Add(conn net.Conn) (*Conn, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.maxConns > 0 && len(cm.conns) >= cm.maxConns {
		return nil, ErrTooManyConns
	}

	c := NewConn(conn, cm.config)
	c.ID = ConnID(cm.nextID.Add(1))
	cm.conns[c.ID] = c
	return c, nil
}

// Remove forgets a connection
func (cm *ConnManager) Remove(id ConnID) {
	cm.mu.Lock()
	delete(cm.conns, id)
	cm.mu.Unlock()
}

// Count returns current connection count
func (cm *ConnManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.conns)
}

// Close disconnects all connections
func (cm *ConnManager) Close() {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	for _, c := range cm.conns {
		c.Close()
	}
	cm.conns = make(map[ConnID]*Conn)
}

// Dial connects to cfg.Address with optional TLS
func Dial(cfg *Config) (*Conn, error) {
	conn, err := dial(cfg)
	if err != nil {
		return nil, err
	}
	return NewConn(conn, cfg), nil
}

// dial establishes a connection with optional TLS
func dial(cfg *Config) (net.Conn, error) {
	dialer := &net.Dialer{
		Timeout: cfg.ConnectTimeout,
	}

	if cfg.TLS != nil {
		return tls.DialWithDialer(dialer, networkOf(cfg), cfg.Address, cfg.TLS)
	}
	return dialer.Dial(networkOf(cfg), cfg.Address)
}

// listen binds cfg.Address with optional TLS
func listen(cfg *Config) (net.Listener, error) {
	if cfg.TLS != nil {
		return tls.Listen(networkOf(cfg), cfg.Address, cfg.TLS)
	}
	return net.Listen(networkOf(cfg), cfg.Address)
}

func networkOf(cfg *Config) string {
	if cfg.Network == "" {
		return "tcp"
	}
	return cfg.Network
}
