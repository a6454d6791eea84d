package serializer

import (
	"os"
	"path/filepath"

	"github.com/ecopia-map/terrain_tiler/internal/tiler"
)

// Serializer writes and reads back tile artifacts and root databases
type Serializer interface {
	Write(obj any, path string) error
	Read(path string) (any, error)
	Extension() string
}

// Encode serializes a record in the given format. Output only depends on the record content.
func Encode(obj any, format Format) ([]byte, error) {
	kind, err := KindOf(obj)
	if err != nil {
		return nil, err
	}
	if format == FormatText {
		return encodeText(kind, obj)
	}
	return encodeBinary(kind, obj)
}

// Decode detects the format from the content and returns the decoded record
func Decode(content []byte) (any, error) {
	if isBinary(content) {
		return decodeBinary(content)
	}
	return decodeText(content)
}

type FileSerializer struct {
	format Format
}

func NewFileSerializer(format Format) *FileSerializer {
	return &FileSerializer{format: format}
}

func (s *FileSerializer) Extension() string {
	return s.format.Extension()
}

// Write encodes obj and replaces path atomically: a failed write never leaves a partial file
func (s *FileSerializer) Write(obj any, path string) error {
	content, err := Encode(obj, s.format)
	if err != nil {
		return &tiler.SerializationError{Path: path, Err: err}
	}
	if err := writeFileAtomic(path, content); err != nil {
		return &tiler.SerializationError{Path: path, Err: err}
	}
	return nil
}

func (s *FileSerializer) Read(path string) (any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &tiler.SerializationError{Path: path, Err: err}
	}
	obj, err := Decode(content)
	if err != nil {
		return nil, &tiler.SerializationError{Path: path, Err: err}
	}
	return obj, nil
}

func writeFileAtomic(path string, content []byte) error {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
