// Package protocol implements the binary status protocol spoken over USB CDC.
// All commands are read-only: a host can inspect the firmware's state but
// cannot change anything.
//
// Frame format:
//
//	[SYNC:1][CMD:1][LEN:2][PAYLOAD:LEN][CRC:2]
//	- SYNC: 0xAA (frame start marker)
//	- CMD: Command byte
//	- LEN: Payload length (uint16, little-endian)
//	- PAYLOAD: Variable length data
//	- CRC: CRC16-CCITT of [CMD][LEN][PAYLOAD]
//
// Response format is identical, with a status byte in place of CMD.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/config"
	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/joystick"
)

const (
	SyncByte = 0xAA

	// HeaderSize is SYNC + CMD + LEN, CRCSize the trailing checksum.
	HeaderSize = 4
	CRCSize    = 2

	// MaxPayload bounds request payloads so a frame fits the console buffer.
	MaxPayload = 256

	// Command codes (PC → Device)
	CmdGetStatus      = 0x01
	CmdGetCalibration = 0x02
	CmdGetSettings    = 0x03
	CmdPing           = 0x08
	CmdGetVersion     = 0x10
	CmdDiscover       = 0x11

	// Response status codes (Device → PC)
	StatusOK          = 0x00
	StatusError       = 0x01
	StatusInvalidCmd  = 0x02
	StatusInvalidData = 0x03
	StatusCRCError    = 0x07
)

// Firmware version reported by CmdGetVersion.
const (
	FirmwareMajor = 0
	FirmwareMinor = 1
)

// DeviceName is the CmdDiscover answer used by host tools to find the board.
const DeviceName = "tuffjoy"

var (
	ErrInvalidFrame = errors.New("invalid frame")
	ErrCRCMismatch  = errors.New("CRC mismatch")
)

// Source exposes the firmware state the protocol reports on.
type Source interface {
	Status() Status
	Calibration() joystick.Center
	Settings() config.Settings
}

// Handler processes protocol commands.
type Handler struct {
	source Source
}

// NewHandler creates a new protocol handler.
func NewHandler(src Source) *Handler {
	return &Handler{
		source: src,
	}
}

// Frame represents a protocol frame.
type Frame struct {
	Cmd     uint8
	Payload []byte
}

// Response represents a protocol response.
type Response struct {
	Status  uint8
	Payload []byte
}

// ReadFrame reads and validates a frame from the reader.
func ReadFrame(r io.Reader) (*Frame, error) {
	// Read sync byte
	sync := make([]byte, 1)
	if _, err := io.ReadFull(r, sync); err != nil {
		return nil, err
	}
	if sync[0] != SyncByte {
		return nil, ErrInvalidFrame
	}

	// Read header (cmd + len)
	header := make([]byte, 3)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	cmd := header[0]
	length := binary.LittleEndian.Uint16(header[1:])

	// Sanity check on length
	if length > MaxPayload {
		return nil, ErrInvalidFrame
	}

	// Read payload
	var payload []byte
	if length > 0 {
		payload = make([]byte, length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
	}

	// Read CRC
	crcBytes := make([]byte, 2)
	if _, err := io.ReadFull(r, crcBytes); err != nil {
		return nil, err
	}
	receivedCRC := binary.LittleEndian.Uint16(crcBytes)

	// Verify CRC
	calculatedCRC := calcCRC(append(header, payload...))
	if receivedCRC != calculatedCRC {
		return nil, ErrCRCMismatch
	}

	return &Frame{
		Cmd:     cmd,
		Payload: payload,
	}, nil
}

// WriteResponse writes a response frame to the writer.
func WriteResponse(w io.Writer, resp *Response) error {
	return writeFrame(w, resp.Status, resp.Payload)
}

// WriteFrame writes a request frame (for testing/PC side).
func WriteFrame(w io.Writer, frame *Frame) error {
	return writeFrame(w, frame.Cmd, frame.Payload)
}

// writeFrame encodes [SYNC][code][LEN][PAYLOAD][CRC] in one write.
func writeFrame(w io.Writer, code uint8, payload []byte) error {
	payloadLen := uint16(len(payload))
	buf := make([]byte, 0, HeaderSize+int(payloadLen)+CRCSize)

	buf = append(buf, SyncByte, code)
	buf = binary.LittleEndian.AppendUint16(buf, payloadLen)
	buf = append(buf, payload...)

	// CRC of code + len + payload
	buf = binary.LittleEndian.AppendUint16(buf, calcCRC(buf[1:]))

	_, err := w.Write(buf)
	return err
}

// Handle processes a command frame and returns a response.
func (h *Handler) Handle(frame *Frame) *Response {
	switch frame.Cmd {
	case CmdPing:
		return h.handlePing(frame.Payload)
	case CmdGetStatus:
		return h.handleGetStatus(frame.Payload)
	case CmdGetCalibration:
		return h.handleGetCalibration(frame.Payload)
	case CmdGetSettings:
		return h.handleGetSettings(frame.Payload)
	case CmdGetVersion:
		return h.handleGetVersion(frame.Payload)
	case CmdDiscover:
		return &Response{Status: StatusOK, Payload: []byte(DeviceName)}
	default:
		return &Response{Status: StatusInvalidCmd}
	}
}

// handlePing responds with the same payload (echo).
func (h *Handler) handlePing(payload []byte) *Response {
	return &Response{
		Status:  StatusOK,
		Payload: payload,
	}
}

// handleGetStatus returns the last loop iteration's status.
// Response: [Status:24 bytes]
func (h *Handler) handleGetStatus(payload []byte) *Response {
	if len(payload) != 0 {
		return &Response{Status: StatusInvalidData}
	}

	st := h.source.Status()
	data, err := st.MarshalBinary()
	if err != nil {
		return &Response{Status: StatusError}
	}

	return &Response{
		Status:  StatusOK,
		Payload: data,
	}
}

// handleGetCalibration returns the calibrated stick center.
// Response: [CenterX:2][CenterY:2]
func (h *Handler) handleGetCalibration(payload []byte) *Response {
	if len(payload) != 0 {
		return &Response{Status: StatusInvalidData}
	}

	c := h.source.Calibration()
	data := make([]byte, 4)
	binary.LittleEndian.PutUint16(data[0:], c.X)
	binary.LittleEndian.PutUint16(data[2:], c.Y)

	return &Response{
		Status:  StatusOK,
		Payload: data,
	}
}

// handleGetSettings returns the compile-time settings.
// Response: [Settings:16 bytes]
func (h *Handler) handleGetSettings(payload []byte) *Response {
	if len(payload) != 0 {
		return &Response{Status: StatusInvalidData}
	}

	s := h.source.Settings()
	data, err := s.MarshalBinary()
	if err != nil {
		return &Response{Status: StatusError}
	}

	return &Response{
		Status:  StatusOK,
		Payload: data,
	}
}

// handleGetVersion returns firmware and settings version info.
// Response: [FirmwareVersionMajor:1][FirmwareVersionMinor:1][SettingsVersion:2]
func (h *Handler) handleGetVersion(payload []byte) *Response {
	if len(payload) != 0 {
		return &Response{Status: StatusInvalidData}
	}

	data := make([]byte, 4)
	data[0] = FirmwareMajor
	data[1] = FirmwareMinor
	binary.LittleEndian.PutUint16(data[2:], config.CurrentVersion)

	return &Response{
		Status:  StatusOK,
		Payload: data,
	}
}

// CommandName returns a short name for a command code.
func CommandName(cmd uint8) string {
	switch cmd {
	case CmdGetStatus:
		return "GetStatus"
	case CmdGetCalibration:
		return "GetCal"
	case CmdGetSettings:
		return "GetSettings"
	case CmdPing:
		return "Ping"
	case CmdGetVersion:
		return "GetVer"
	case CmdDiscover:
		return "Discvr"
	default:
		return fmt.Sprintf("Cmd%02X", cmd)
	}
}

// StatusName returns a short name for a status code.
func StatusName(status uint8) string {
	switch status {
	case StatusOK:
		return "OK"
	case StatusError:
		return "Err"
	case StatusInvalidCmd:
		return "InvCmd"
	case StatusInvalidData:
		return "InvData"
	case StatusCRCError:
		return "CRC"
	default:
		return fmt.Sprintf("Sts%02X", status)
	}
}

// calcCRC calculates CRC16-CCITT.
// Polynomial: 0x1021, Initial: 0xFFFF
func calcCRC(data []byte) uint16 {
	var crc uint16 = 0xFFFF

	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}

	return crc
}
