package catalog

import (
	"fmt"
	"os"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const IndexFileName = "index.geojson"

// BuildIndex turns the entries into a feature collection of tile footprints ordered by row and col
func BuildIndex(entries []Entry) *geojson.FeatureCollection {
	sorted := append([]Entry(nil), entries...)
	SortEntries(sorted)

	featureCollection := geojson.NewFeatureCollection()
	for _, entry := range sorted {
		polygon := orb.Polygon{entry.Footprint}
		feature := geojson.NewFeature(polygon)
		feature.BBox = geojson.NewBBox(polygon.Bound())
		feature.Properties["name"] = entry.Name
		feature.Properties["row"] = entry.Row
		feature.Properties["col"] = entry.Col
		feature.Properties["file"] = entry.File
		feature.Properties["radius"] = entry.Bound.Radius
		featureCollection.Append(feature)
	}
	return featureCollection
}

func WriteIndex(path string, entries []Entry) error {
	content, err := BuildIndex(entries).MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}

func ReadIndex(path string) (*geojson.FeatureCollection, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	featureCollection, err := geojson.UnmarshalFeatureCollection(content)
	if err != nil {
		return nil, fmt.Errorf("invalid index %s: %w", path, err)
	}
	return featureCollection, nil
}

func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Row != entries[j].Row {
			return entries[i].Row < entries[j].Row
		}
		return entries[i].Col < entries[j].Col
	})
}
