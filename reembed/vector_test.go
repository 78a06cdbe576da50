package reembed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVector(t *testing.T) {
	tests := []struct {
		name  string
		input []float32
		want  []float32
	}{
		{
			name:  "already unit length",
			input: []float32{1, 0, 0},
			want:  []float32{1, 0, 0},
		},
		{
			name:  "scales down",
			input: []float32{3, 4},
			want:  []float32{0.6, 0.8},
		},
		{
			name:  "zero vector stays zero",
			input: []float32{0, 0, 0},
			want:  []float32{0, 0, 0},
		},
		{
			name:  "empty",
			input: []float32{},
			want:  []float32{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeVector(tt.input)
			assert.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-6)
			}
		})
	}
}

func TestNormalizeVector_UnitMagnitude(t *testing.T) {
	got := NormalizeVector([]float32{0.3, -1.7, 2.2, 0.05})

	var magnitude float64
	for _, v := range got {
		magnitude += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(magnitude), 1e-6)
}

func TestNormalizeVector_DoesNotMutateInput(t *testing.T) {
	input := []float32{3, 4}
	NormalizeVector(input)
	assert.Equal(t, []float32{3, 4}, input)
}
