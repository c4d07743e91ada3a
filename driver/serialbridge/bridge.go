// Package serialbridge drives an ESP-NOW co-processor attached over a UART.
//
// Every message on the wire is framed as
//
//	Start (0xA5) | Kind (1) | Length (1) | Payload (Length)
package serialbridge

import (
	"context"
	"io"
	"log"
	"runtime"
	"sync"
	"time"

	proto "roverc/protocol"
	"roverc/transport"
)

const (
	FrameStart = 0xA5

	KindReceived  = 0x01
	KindBroadcast = 0x02
	KindSend      = 0x03

	// MaxPayloadSize is the ESP-NOW datagram limit.
	MaxPayloadSize = 250
)

// Port is what the bridge needs from a serial device.
type Port interface {
	io.Reader
	io.Writer
}

// Bridge implements transport.Driver on top of a Port.
type Bridge struct {
	port Port
	wmu  sync.Mutex
	rx   chan []byte
}

var _ transport.Driver = (*Bridge)(nil)

func New(port Port) *Bridge {
	return &Bridge{
		port: port,
		rx:   make(chan []byte, 1),
	}
}

func (b *Bridge) Broadcast(data []byte) error { return b.write(KindBroadcast, data) }

func (b *Bridge) Send(data []byte) error { return b.write(KindSend, data) }

func (b *Bridge) write(kind byte, data []byte) error {
	if len(data) > MaxPayloadSize {
		return proto.ErrInvalidLength
	}
	buf := make([]byte, 0, 3+len(data))
	buf = append(buf, FrameStart, kind, byte(len(data)))
	buf = append(buf, data...)

	b.wmu.Lock()
	defer b.wmu.Unlock()
	_, err := b.port.Write(buf)
	return err
}

// Rx returns the most recent datagram, waiting up to timeout for one.
func (b *Bridge) Rx(timeout time.Duration) ([]byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case data := <-b.rx:
		return data, nil
	case <-timer.C:
		return nil, proto.ErrTimeout
	}
}

// Run reads the port until ctx is done or the port fails.
func (b *Bridge) Run(ctx context.Context) error {
	var p parser
	buf := make([]byte, 64)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		n, err := b.port.Read(buf)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if n == 0 {
			runtime.Gosched()
			continue
		}
		for _, c := range buf[:n] {
			kind, payload, ok := p.feed(c)
			if !ok {
				continue
			}
			if kind != KindReceived {
				log.Printf("[bridge] unexpected frame kind %#x", kind)
				continue
			}
			b.deliver(payload)
		}
	}
}

// deliver keeps only the newest datagram when the consumer falls behind.
func (b *Bridge) deliver(data []byte) {
	for {
		select {
		case b.rx <- data:
			return
		default:
		}
		select {
		case <-b.rx:
		default:
		}
	}
}

type parserState int

const (
	waitStart parserState = iota
	readKind
	readLength
	readPayload
)

type parser struct {
	state   parserState
	kind    byte
	length  int
	payload []byte
}

func (p *parser) feed(c byte) (byte, []byte, bool) {
	switch p.state {
	case waitStart:
		if c == FrameStart {
			p.state = readKind
		}
	case readKind:
		p.kind = c
		p.state = readLength
	case readLength:
		if int(c) > MaxPayloadSize {
			p.state = waitStart
			return 0, nil, false
		}
		p.length = int(c)
		p.payload = make([]byte, 0, p.length)
		p.state = readPayload
		if p.length == 0 {
			p.state = waitStart
			return p.kind, p.payload, true
		}
	case readPayload:
		p.payload = append(p.payload, c)
		if len(p.payload) == p.length {
			p.state = waitStart
			return p.kind, p.payload, true
		}
	}
	return 0, nil, false
}
