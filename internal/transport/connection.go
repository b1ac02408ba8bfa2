// Package transport frames universe protocol packets over TCP connections.
package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/Faultbox/universed/internal/logger"
	"github.com/Faultbox/universed/internal/protocol"
	"go.uber.org/zap"
)

// readBufferSize is the size of the read buffer.
const readBufferSize = 65536

// maxOutboundQueue bounds how many packets can back up waiting to be
// flushed before the connection is considered unresponsive and killed.
const maxOutboundQueue = 256

// Conn wraps one accepted TCP connection and handles framing in both
// directions. It never blocks the caller: Send enqueues, RecvFrame extracts
// whatever is already buffered, and Flush/Fill perform the actual I/O under
// a short deadline so a single slow peer cannot stall the main loop.
type Conn struct {
	conn net.Conn
	mu   sync.Mutex

	remoteAddr string
	dead       bool

	readBuf    []byte
	readOffset int

	outbound [][]byte
}

// New wraps conn for framed packet I/O.
func New(conn net.Conn) *Conn {
	return &Conn{
		conn:       conn,
		remoteAddr: conn.RemoteAddr().String(),
		readBuf:    make([]byte, readBufferSize),
	}
}

// RemoteAddr returns the string form of the peer address.
func (c *Conn) RemoteAddr() string {
	return c.remoteAddr
}

// IsDead reports whether this connection has been marked unusable, either
// by a framing error, a closed socket, or a saturated outbound queue.
func (c *Conn) IsDead() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dead
}

// Kill marks the connection dead and closes the underlying socket. Safe to
// call more than once.
func (c *Conn) Kill() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markDeadLocked()
}

func (c *Conn) markDeadLocked() {
	if c.dead {
		return
	}
	c.dead = true
	c.conn.Close()
}

// Send enqueues a packet for delivery on the next Flush. It never blocks;
// if the outbound queue is already saturated the connection is marked dead
// so a stuck peer gets dropped instead of growing memory without bound.
func (c *Conn) Send(p *protocol.Packet) error {
	encoded, err := p.Serialize()
	if err != nil {
		return fmt.Errorf("transport: send to %s: %w", c.remoteAddr, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dead {
		return nil
	}
	if len(c.outbound) >= maxOutboundQueue {
		logger.Named("transport").Warn("outbound queue saturated, dropping connection",
			zap.String("remote", c.remoteAddr))
		c.markDeadLocked()
		return nil
	}
	c.outbound = append(c.outbound, encoded)
	return nil
}

// SendGroup enqueues an already-packed group buffer verbatim.
func (c *Conn) SendGroup(g *protocol.PacketGroup) error {
	if g.Len() == 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dead {
		return nil
	}
	buf := make([]byte, g.Len())
	copy(buf, g.Bytes())
	c.outbound = append(c.outbound, buf)
	return nil
}

// Flush writes every queued outbound buffer to the socket. It is called
// once per tick from the main loop, never from within a handler.
func (c *Conn) Flush() error {
	c.mu.Lock()
	if c.dead || len(c.outbound) == 0 {
		c.mu.Unlock()
		return nil
	}
	pending := c.outbound
	c.outbound = nil
	conn := c.conn
	c.mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	for _, buf := range pending {
		if _, err := conn.Write(buf); err != nil {
			c.Kill()
			return fmt.Errorf("transport: flush to %s: %w", c.remoteAddr, err)
		}
	}
	return nil
}

// Fill performs one non-blocking read into the internal buffer. Callers
// should follow it with RecvFrame calls until no more complete packets are
// available.
func (c *Conn) Fill() error {
	c.mu.Lock()
	if c.dead {
		c.mu.Unlock()
		return nil
	}
	conn := c.conn
	c.mu.Unlock()

	conn.SetReadDeadline(time.Now().Add(10 * time.Millisecond))
	n, err := conn.Read(c.readBuf[c.readOffset:])
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil
		}
		if err == io.EOF {
			c.Kill()
			return nil
		}
		c.Kill()
		return fmt.Errorf("transport: read from %s: %w", c.remoteAddr, err)
	}
	c.readOffset += n
	return nil
}

// RecvFrame extracts one fully-buffered packet, if any. ok is false when
// the buffer doesn't yet hold a complete frame. A decode error marks the
// connection dead, since framing has been unrecoverably lost for the rest
// of the stream.
func (c *Conn) RecvFrame() (p *protocol.Packet, ok bool) {
	if c.readOffset < 2 {
		return nil, false
	}

	pkt, n, err := protocol.Deserialize(c.readBuf[:c.readOffset])
	if err != nil {
		if errors.Is(err, protocol.ErrShortRead) {
			if c.readOffset >= readBufferSize {
				logger.Named("transport").Warn("oversized unframed data, dropping connection",
					zap.String("remote", c.remoteAddr))
				c.Kill()
			}
			return nil, false
		}
		logger.Named("transport").Warn("framing error, dropping connection",
			zap.String("remote", c.remoteAddr), zap.Error(err))
		c.Kill()
		return nil, false
	}

	copy(c.readBuf, c.readBuf[n:c.readOffset])
	c.readOffset -= n
	return pkt, true
}
