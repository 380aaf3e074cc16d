package host

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

func writeRequest(w io.Writer, req *Request) error {
	return msgpack.NewEncoder(w).Encode(req)
}

func decodeResponse(r io.Reader, resp *Response) error {
	return msgpack.NewDecoder(r).Decode(resp)
}
