package host

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrNoRequest is returned by ReadRequest when the stream ends cleanly.
var ErrNoRequest = errors.New("no request")

// ReadRequest decodes one msgpack-encoded request. Several requests may be
// written back to back on the same stream.
func ReadRequest(r io.Reader) (*Request, error) {
	dec := msgpack.NewDecoder(r)
	return readRequest(dec)
}

func readRequest(dec *msgpack.Decoder) (*Request, error) {
	var req Request
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoRequest
		}
		return nil, fmt.Errorf("decode request: %w", err)
	}
	if req.Version != ProtocolVersion {
		return nil, fmt.Errorf("unsupported protocol version %d (want %d)", req.Version, ProtocolVersion)
	}
	return &req, nil
}

// WriteResponse encodes one response.
func WriteResponse(w io.Writer, resp *Response) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}

// Stream reads requests from r until EOF and writes one response per request.
type Stream struct {
	dec *msgpack.Decoder
	w   io.Writer
}

func NewStream(r io.Reader, w io.Writer) *Stream {
	return &Stream{dec: msgpack.NewDecoder(r), w: w}
}

// Next returns the next request or ErrNoRequest at end of stream.
func (s *Stream) Next() (*Request, error) {
	return readRequest(s.dec)
}

// Reply writes a response for the last request.
func (s *Stream) Reply(resp *Response) error {
	return WriteResponse(s.w, resp)
}
