package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ecopia-map/terrain_tiler/internal/lod"
	"github.com/ecopia-map/terrain_tiler/internal/tile"
)

const (
	textFormatName = "terrain_tiler"
	textVersion    = 1
)

type textEnvelope struct {
	Format  string          `json:"format"`
	Version int             `json:"version"`
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

var textDecoders = map[Kind]func([]byte) (any, error){
	KindTransform: decodeTextAs[tile.TransformNode],
	KindTile:      decodeTextAs[tile.Record],
	KindPagedLOD:  decodeTextAs[lod.Node],
	KindDatabase:  decodeTextAs[lod.Database],
}

func decodeTextAs[T any](payload []byte) (any, error) {
	value := new(T)
	if err := json.Unmarshal(payload, value); err != nil {
		return nil, err
	}
	return value, nil
}

func encodeText(kind Kind, obj any) ([]byte, error) {
	payload, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}

	content, err := json.MarshalIndent(textEnvelope{
		Format:  textFormatName,
		Version: textVersion,
		Kind:    kind,
		Payload: payload,
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(content, '\n'), nil
}

func decodeText(content []byte) (any, error) {
	var envelope textEnvelope
	decoder := json.NewDecoder(bytes.NewReader(content))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&envelope); err != nil {
		return nil, err
	}

	if envelope.Format != textFormatName {
		return nil, fmt.Errorf("unexpected format %q", envelope.Format)
	}
	if envelope.Version != textVersion {
		return nil, fmt.Errorf("unsupported text version %d", envelope.Version)
	}

	decode, ok := textDecoders[envelope.Kind]
	if !ok {
		return nil, fmt.Errorf("no text decoder for %s", envelope.Kind)
	}
	return decode(envelope.Payload)
}
