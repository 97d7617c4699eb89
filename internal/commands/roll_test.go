package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// maxRoll always rolls the highest face.
func maxRoll(sides int) int { return sides }

func TestDiceParseAndRoll(t *testing.T) {
	tests := []struct {
		formula string
		total   int
		details string
	}{
		{"d6", 6, "1d6[6]"},
		{"2d20+1d6-2", 44, "2d20[20,20] + 1d6[6] - 2"},
		{"3d4*2", 24, "3d4[4,4,4]*2"},
		{"10 - 2d3 * 2", -2, "10 - 2d3[3,3]*2"},
		{"9/2", 4, "9/2"},
	}
	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			var d Dice
			require.NoError(t, d.UnmarshalText([]byte(tt.formula)))
			total, details := d.Roll(maxRoll)
			assert.Equal(t, tt.total, total)
			assert.Equal(t, tt.details, details)
		})
	}
}

func TestDiceRejects(t *testing.T) {
	for _, formula := range []string{"", "x", "2d1", "101d6", "1d1001", "+2", "2+", "4/0", "0d6", "2d6?"} {
		var d Dice
		assert.Error(t, d.UnmarshalText([]byte(formula)), formula)
	}
}
