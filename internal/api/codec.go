package api

import (
	"encoding/json"
)

// JSONCodec is a connect.Codec for plain Go structs. It replaces Connect's
// default protojson codec, which only accepts generated protobuf messages.
type JSONCodec struct{}

// Name implements connect.Codec. Using "json" makes Connect negotiate the
// application/json content type.
func (JSONCodec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (JSONCodec) Marshal(msg any) ([]byte, error) { return json.Marshal(msg) }

// Unmarshal implements connect.Codec.
func (JSONCodec) Unmarshal(data []byte, msg any) error { return json.Unmarshal(data, msg) }
