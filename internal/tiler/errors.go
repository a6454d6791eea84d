package tiler

import "fmt"

// RasterMetadataError is raised when a raster carries no geotransform. Fatal for the run.
type RasterMetadataError struct {
	Path string
}

func (e *RasterMetadataError) Error() string {
	return fmt.Sprintf("raster %s has no GeoTransform", e.Path)
}

// RasterReadError is raised when a raster cannot be opened or decoded. Fatal for the run.
type RasterReadError struct {
	Path string
	Err  error
}

func (e *RasterReadError) Error() string {
	return fmt.Sprintf("cannot read raster %s: %v", e.Path, e.Err)
}

func (e *RasterReadError) Unwrap() error {
	return e.Err
}

// FilenameConventionError marks a tile name without the _<row>_<col> suffix.
// Discovery skips such files instead of failing.
type FilenameConventionError struct {
	Name string
}

func (e *FilenameConventionError) Error() string {
	return fmt.Sprintf("file name %s does not match the _<row>_<col>.<ext> convention", e.Name)
}

// SerializationError is raised when a tile artifact or the database cannot be written or read back.
type SerializationError struct {
	Path string
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialization of %s failed: %v", e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
