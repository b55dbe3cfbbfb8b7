package sender

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
)

const (
	// HeaderLen is the size of the fixed header: magic, version and an
	// 8 byte little-endian payload length.
	HeaderLen = 13
	// ProtocolVersion is the only version byte written and, by Unpack, accepted.
	ProtocolVersion = 0x01

	// RequestSenderData names a batch-of-measurements request.
	RequestSenderData = "sender data"
	// ResponseSuccess is the response value of an accepted request.
	ResponseSuccess = "success"
)

// Magic opens every frame.
var Magic = [4]byte{'Z', 'B', 'X', 'D'}

// Header is the fixed frame header that precedes every JSON payload.
type Header struct {
	Magic   [4]byte
	Version uint8
	Length  uint64
}

// Request is the "sender data" message carrying a batch of measurements.
type Request struct {
	Request string        `json:"request"`
	Data    []Measurement `json:"data"`
}

// Response is the server's reply to a Request.
type Response struct {
	Response string `json:"response"`
	Info     string `json:"info"`
}

func (r Response) Success() bool {
	return r.Response == ResponseSuccess
}

// EncodeHeader returns the HeaderLen byte wire form of h.
func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderLen)
	copy(buf[0:4], h.Magic[:])
	buf[4] = h.Version
	binary.LittleEndian.PutUint64(buf[5:13], h.Length)
	return buf
}

// DecodeHeader parses the first HeaderLen bytes of b without validating
// magic or version. It returns a *FormatError when b is too short.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderLen {
		return Header{}, &FormatError{Reason: fmt.Sprintf("short header: %d of %d bytes", len(b), HeaderLen)}
	}
	var h Header
	copy(h.Magic[:], b[0:4])
	h.Version = b[4]
	h.Length = binary.LittleEndian.Uint64(b[5:13])
	return h, nil
}

// Pack serializes req as compact JSON and prefixes it with a frame header.
func Pack(req Request) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &FormatError{Reason: "unencodable request", Err: err}
	}
	frame := EncodeHeader(Header{
		Magic:   Magic,
		Version: ProtocolVersion,
		Length:  uint64(len(payload)),
	})
	return append(frame, payload...), nil
}

// Unpack decodes a response frame, rejecting an unexpected magic or version.
func Unpack(b []byte) (Response, error) {
	return unpack(b, true)
}

// UnpackRelaxed decodes a response frame without checking magic or version.
func UnpackRelaxed(b []byte) (Response, error) {
	return unpack(b, false)
}

func unpack(b []byte, strict bool) (Response, error) {
	var resp Response
	if err := decodeFrame(b, strict, &resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}

// UnpackRequest decodes a request frame as produced by Pack.
func UnpackRequest(b []byte) (Request, error) {
	var req Request
	if err := decodeFrame(b, true, &req); err != nil {
		return Request{}, err
	}
	return req, nil
}

func decodeFrame(b []byte, strict bool, out interface{}) error {
	h, err := DecodeHeader(b)
	if err != nil {
		return err
	}
	if strict {
		if h.Magic != Magic {
			return &FormatError{Reason: fmt.Sprintf("unexpected magic %q", h.Magic[:])}
		}
		if h.Version != ProtocolVersion {
			return &FormatError{Reason: fmt.Sprintf("unsupported version 0x%02x", h.Version)}
		}
	}

	available := uint64(len(b) - HeaderLen)
	if h.Length > available {
		return &FormatError{Reason: fmt.Sprintf("short payload: %d of %d bytes", available, h.Length)}
	}
	payload := b[HeaderLen : HeaderLen+int(h.Length)]

	if err := json.Unmarshal(payload, out); err != nil {
		return &FormatError{Reason: "invalid json payload", Err: err}
	}
	return nil
}
