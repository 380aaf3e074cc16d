package model

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"

	"github.com/vmihailenco/msgpack/v5"
)

// Digest - фиксированный 256 битный хеш. Используется только как индекс кеша;
// попадание всегда подтверждается через Equal.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Fingerprint hashes the msgpack encoding of v. Map keys are sorted so the
// digest does not depend on map iteration order.
func Fingerprint(v any) (Digest, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return Digest{}, err
	}
	return sha256.Sum256(buf.Bytes()), nil
}

// Combine строит составной хеш: H( first || rest[0] || rest[1] ... ).
// Порядок должен быть детерминированным.
func Combine(first Digest, rest ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(first[:])
	for _, d := range rest {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
