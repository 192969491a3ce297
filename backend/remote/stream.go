package remote

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lixenwraith/termsink/network"
)

// ErrRemote wraps a failure reported by the host
var ErrRemote = errors.New("remote")

var opMessages = map[Op]network.MessageType{
	OpDraw:       network.MsgDraw,
	OpHideCursor: network.MsgHideCursor,
	OpShowCursor: network.MsgShowCursor,
	OpSetCursor:  network.MsgSetCursor,
	OpClear:      network.MsgClear,
	OpSize:       network.MsgSize,
	OpFlush:      network.MsgFlush,
}

var messageOps = func() map[network.MessageType]Op {
	m := make(map[network.MessageType]Op, len(opMessages))
	for op, t := range opMessages {
		m[t] = op
	}
	return m
}()

// StreamTransport forwards calls over a framed connection
type StreamTransport struct {
	conn    *network.Conn
	session uuid.UUID
}

// Dial connects to a host and opens a session
func Dial(cfg *network.Config) (*StreamTransport, error) {
	conn, err := network.Dial(cfg)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.Address, err)
	}
	t, err := Connect(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return t, nil
}

// Connect performs the session handshake on an established connection
func Connect(conn *network.Conn) (*StreamTransport, error) {
	t := &StreamTransport{conn: conn, session: uuid.New()}

	hello := network.ConnectPayload{Session: t.session, Version: network.ProtocolVersion}
	reply, err := conn.Call(network.MsgConnect, hello.Marshal())
	if err != nil {
		return nil, fmt.Errorf("handshake: %w", err)
	}
	if _, err := answer(reply); err != nil {
		return nil, fmt.Errorf("handshake: %w", err)
	}
	return t, nil
}

// Session returns the id sent in the handshake
func (t *StreamTransport) Session() uuid.UUID {
	return t.session
}

// Call implements Transport
func (t *StreamTransport) Call(op Op, payload []byte) ([]byte, error) {
	msgType, ok := opMessages[op]
	if !ok {
		return nil, fmt.Errorf("unknown op %d", op)
	}
	reply, err := t.conn.Call(msgType, payload)
	if err != nil {
		return nil, err
	}
	return answer(reply)
}

// Close ends the session and closes the connection
func (t *StreamTransport) Close() error {
	// Best effort; the host may already be gone
	t.conn.Call(network.MsgDisconnect, nil)
	return t.conn.Close()
}

func answer(reply *network.Message) ([]byte, error) {
	switch reply.Type {
	case network.MsgAck:
		return reply.Payload, nil
	case network.MsgNack:
		return nil, fmt.Errorf("%w: %s", ErrRemote, reply.Payload)
	default:
		return nil, fmt.Errorf("unexpected reply %v", reply.Type)
	}
}
