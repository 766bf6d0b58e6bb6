package localstore

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// Values are msgpack encoded using their json field names, so the stored
// shape matches what the API returns.
const structTag = "json"

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag(structTag)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag(structTag)
	return dec.Decode(v)
}
