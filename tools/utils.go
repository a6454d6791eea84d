package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

func FmtJSONString(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "marshal data fail"
	}
	return string(data)
}

// ParseFloatList parses n comma separated floats, as used by the color flags
func ParseFloatList(value string, n int) ([]float32, error) {
	parts := strings.Split(value, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma separated values, got %q", n, value)
	}

	values := make([]float32, n)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", part, err)
		}
		values[i] = float32(v)
	}
	return values, nil
}
