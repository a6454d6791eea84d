package offset_elevation_corrector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrectElevation(t *testing.T) {
	corrector := NewOffsetElevationCorrector(12.5)
	assert.Equal(t, 12.5, corrector.CorrectElevation(10, 45, 0))
	assert.Equal(t, -7.5, corrector.CorrectElevation(10, 45, -20))

	zero := NewOffsetElevationCorrector(0)
	assert.Equal(t, 100.0, zero.CorrectElevation(0, 0, 100))
}
