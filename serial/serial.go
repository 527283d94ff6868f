// Package serial answers status protocol requests arriving on the USB CDC
// port. It never blocks: Poll consumes whatever bytes are buffered and returns.
package serial

import (
	"bytes"
	"encoding/binary"
	"errors"
	"log/slog"

	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/protocol"
)

// bufferSize holds the largest possible frame with room to spare.
const bufferSize = 512

// Port is the subset of machine.Serialer the console needs.
type Port interface {
	ReadByte() (byte, error)
	Buffered() int
	Write(data []byte) (int, error)
}

// Console reassembles request frames from a byte stream and writes back
// responses.
type Console struct {
	port    Port
	handler *protocol.Handler
	logger  *slog.Logger

	inIndex  int
	inBuffer [bufferSize]byte
}

// NewConsole creates a console on port. A nil logger discards output.
func NewConsole(port Port, handler *protocol.Handler, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Console{
		port:    port,
		handler: handler,
		logger:  logger.With("component", "serial"),
	}
}

// Poll drains the port and answers every complete frame found. It returns the
// first write error, if any.
func (c *Console) Poll() error {
	for c.port.Buffered() > 0 {
		b, err := c.port.ReadByte()
		if err != nil {
			return nil
		}
		if err := c.feed(b); err != nil {
			return err
		}
	}
	return nil
}

// feed appends one byte and answers any frame it completes.
func (c *Console) feed(b byte) error {
	// Hunt for the start of a frame
	if c.inIndex == 0 && b != protocol.SyncByte {
		return nil
	}

	if c.inIndex == bufferSize {
		c.logger.Warn("input overflow, resyncing")
		c.discard(1)
		if c.inIndex == 0 && b != protocol.SyncByte {
			return nil
		}
	}

	c.inBuffer[c.inIndex] = b
	c.inIndex++

	return c.drain()
}

// drain answers every complete frame at the head of the buffer. A rejected
// frame gives up only its sync byte, so a sync byte inside it can start the
// next frame.
func (c *Console) drain() error {
	for c.inIndex >= protocol.HeaderSize {
		length := int(binary.LittleEndian.Uint16(c.inBuffer[2:4]))
		if length > protocol.MaxPayload {
			c.logger.Warn("oversized frame", "len", length)
			c.discard(1)
			continue
		}

		total := protocol.HeaderSize + length + protocol.CRCSize
		if c.inIndex < total {
			return nil
		}

		frame, err := protocol.ReadFrame(bytes.NewReader(c.inBuffer[:total]))

		var resp *protocol.Response
		switch {
		case errors.Is(err, protocol.ErrCRCMismatch):
			resp = &protocol.Response{Status: protocol.StatusCRCError}
		case err != nil:
			resp = &protocol.Response{Status: protocol.StatusInvalidData}
		default:
			resp = c.handler.Handle(frame)
			c.logger.Debug("request",
				"cmd", protocol.CommandName(frame.Cmd),
				"status", protocol.StatusName(resp.Status),
				"len", len(resp.Payload))
		}

		if err != nil {
			c.logger.Warn("bad frame", "err", err, "status", protocol.StatusName(resp.Status))
			c.discard(1)
		} else {
			c.discard(total)
		}

		if err := protocol.WriteResponse(c.port, resp); err != nil {
			return err
		}
	}
	return nil
}

// discard drops n bytes from the head of the buffer, then anything before the
// next sync byte.
func (c *Console) discard(n int) {
	n = min(n, c.inIndex)
	for n < c.inIndex && c.inBuffer[n] != protocol.SyncByte {
		n++
	}
	c.inIndex = copy(c.inBuffer[:], c.inBuffer[n:c.inIndex])
}
