package serializer

import (
	"fmt"

	"github.com/ecopia-map/terrain_tiler/internal/lod"
	"github.com/ecopia-map/terrain_tiler/internal/tile"
)

type Format uint8

const (
	FormatBinary Format = iota
	FormatText
)

const (
	TextExtension   = ".tdbt"
	BinaryExtension = ".tdbb"
)

func FormatFor(text bool) Format {
	if text {
		return FormatText
	}
	return FormatBinary
}

func (f Format) Extension() string {
	if f == FormatText {
		return TextExtension
	}
	return BinaryExtension
}

func (f Format) String() string {
	if f == FormatText {
		return "text"
	}
	return "binary"
}

// Kind tags the record stored in an artifact. The set is closed: decoding dispatches on it.
type Kind uint8

const (
	KindTransform Kind = iota + 1
	KindTile
	KindPagedLOD
	KindDatabase
)

var kindNames = map[Kind]string{
	KindTransform: "Transform",
	KindTile:      "Tile",
	KindPagedLOD:  "PagedLOD",
	KindDatabase:  "Database",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown record kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown record kind %q", string(text))
}

// KindOf returns the kind tag of a serializable record
func KindOf(obj any) (Kind, error) {
	switch obj.(type) {
	case *tile.TransformNode:
		return KindTransform, nil
	case *tile.Record:
		return KindTile, nil
	case *lod.Node:
		return KindPagedLOD, nil
	case *lod.Database:
		return KindDatabase, nil
	}
	return 0, fmt.Errorf("type %T is not a serializable record", obj)
}
