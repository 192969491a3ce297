package network

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

var (
	ErrPayloadTooLarge = errors.New("payload exceeds maximum size")
	ErrUnexpectedAck   = errors.New("reply does not acknowledge request")
	ErrRejected        = errors.New("host rejected connection")
	ErrBadConnect      = errors.New("malformed connect payload")
)

// MessageType identifies the semantic meaning of a message
type MessageType uint8

const (
	// Control messages
	MsgConnect    MessageType = 0x02 // Session handshake
	MsgDisconnect MessageType = 0x03
	MsgAck        MessageType = 0x04 // Success, optional payload
	MsgNack       MessageType = 0x05 // Failure, UTF-8 reason
	MsgReject     MessageType = 0x06 // Host busy

	// Backend contract operations, one per call
	MsgDraw       MessageType = 0x10
	MsgHideCursor MessageType = 0x11
	MsgShowCursor MessageType = 0x12
	MsgSetCursor  MessageType = 0x13
	MsgClear      MessageType = 0x14
	MsgSize       MessageType = 0x15
	MsgFlush      MessageType = 0x16
)

var messageNames = map[MessageType]string{
	MsgConnect:    "connect",
	MsgDisconnect: "disconnect",
	MsgAck:        "ack",
	MsgNack:       "nack",
	MsgReject:     "reject",
	MsgDraw:       "draw",
	MsgHideCursor: "hide_cursor",
	MsgShowCursor: "show_cursor",
	MsgSetCursor:  "set_cursor",
	MsgClear:      "clear",
	MsgSize:       "size",
	MsgFlush:      "flush",
}

func (t MessageType) String() string {
	if name, ok := messageNames[t]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", uint8(t))
}

// Header precedes every message on the wire
// Fixed 14 bytes: [Type:1][Flags:1][Seq:4][Ack:4][Len:4]
const HeaderSize = 14

// DefaultMaxPayload bounds a single payload when no limit is configured
const DefaultMaxPayload = 4 << 20

// Header flags
const (
	FlagNone uint8 = 0x00
)

// ProtocolVersion is sent in the connect payload
const ProtocolVersion uint8 = 1

// Message represents a framed network message
type Message struct {
	Type    MessageType
	Flags   uint8
	Seq     uint32 // Sender's sequence number
	Ack     uint32 // Sequence of the request this message answers
	Payload []byte
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultMaxPayload
	}
	return limit
}

// Encode writes the header and payload; payloads above limit are refused
func (m *Message) Encode(w io.Writer, limit int) error {
	payloadLen := len(m.Payload)
	if payloadLen > limitOrDefault(limit) {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, payloadLen)
	}

	var header [HeaderSize]byte
	header[0] = byte(m.Type)
	header[1] = m.Flags
	binary.BigEndian.PutUint32(header[2:6], m.Seq)
	binary.BigEndian.PutUint32(header[6:10], m.Ack)
	binary.BigEndian.PutUint32(header[10:14], uint32(payloadLen))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if payloadLen > 0 {
		if _, err := w.Write(m.Payload); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads a message; a declared length above limit is refused before allocation
func Decode(r io.Reader, limit int) (*Message, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	payloadLen := binary.BigEndian.Uint32(header[10:14])
	if uint64(payloadLen) > uint64(limitOrDefault(limit)) {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, payloadLen)
	}

	m := &Message{
		Type:  MessageType(header[0]),
		Flags: header[1],
		Seq:   binary.BigEndian.Uint32(header[2:6]),
		Ack:   binary.BigEndian.Uint32(header[6:10]),
	}

	if payloadLen > 0 {
		m.Payload = make([]byte, payloadLen)
		if _, err := io.ReadFull(r, m.Payload); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewMessage creates a message with the given type and payload
func NewMessage(t MessageType, payload []byte) *Message {
	return &Message{
		Type:    t,
		Flags:   FlagNone,
		Payload: payload,
	}
}

// ConnectPayload opens a session
type ConnectPayload struct {
	Session uuid.UUID
	Version uint8
}

// Marshal encodes the payload as 16 session bytes followed by the version
func (p ConnectPayload) Marshal() []byte {
	buf := make([]byte, 17)
	copy(buf, p.Session[:])
	buf[16] = p.Version
	return buf
}

// UnmarshalConnect decodes a connect payload
func UnmarshalConnect(b []byte) (ConnectPayload, error) {
	if len(b) != 17 {
		return ConnectPayload{}, fmt.Errorf("%w: %d bytes", ErrBadConnect, len(b))
	}
	var p ConnectPayload
	copy(p.Session[:], b[:16])
	p.Version = b[16]
	return p, nil
}
