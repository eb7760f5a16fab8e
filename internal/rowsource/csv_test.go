package rowsource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeLineSimple(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{
			name:     "Plain fields",
			line:     "a,b,c",
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "Empty line yields one empty field",
			line:     "",
			expected: []string{""},
		},
		{
			name:     "Trailing comma yields trailing empty field",
			line:     "a,b,",
			expected: []string{"a", "b", ""},
		},
		{
			name:     "Leading comma yields leading empty field",
			line:     ",a",
			expected: []string{"", "a"},
		},
		{
			name:     "Fields are trimmed",
			line:     "  a , b  ,c",
			expected: []string{"a", "b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecodeLine(tt.line))
		})
	}
}

func TestDecodeLineQuoting(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{
			name:     "Comma inside quotes survives",
			line:     `"Boca, Juniors",River`,
			expected: []string{"Boca, Juniors", "River"},
		},
		{
			name:     "Quoted field among plain fields",
			line:     `futbol,"Liga, Pro",Barcelona`,
			expected: []string{"futbol", "Liga, Pro", "Barcelona"},
		},
		{
			name:     "Unterminated quote consumes rest of line",
			line:     `"a,b`,
			expected: []string{"a,b"},
		},
		{
			name:     "Fully quoted fields stripped",
			line:     `"a","b","c"`,
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "Empty quoted field",
			line:     `a,"",c`,
			expected: []string{"a", "", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecodeLine(tt.line))
		})
	}
}

func TestMapSheetRowShortRow(t *testing.T) {
	// Trailing columns past the decoded length come back empty, not panic.
	cells := []string{"0", "futbol", "LaLiga", "Real Madrid", "Getafe", "2026-08-27"}
	row := mapSheetRow(cells)

	assert.Equal(t, "futbol", row.Sport)
	assert.Equal(t, "Real Madrid", row.HomeTeam)
	assert.Equal(t, "2026-08-27", row.Date)
	assert.Empty(t, row.Time)
	assert.Empty(t, row.Odds)
	assert.Empty(t, row.Status)
}
