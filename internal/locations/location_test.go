package locations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected Location
		wantErr  bool
	}{
		{
			name:     "Basic Case",
			value:    "A-01-1층",
			expected: Location{ZoneName: "A", SubZoneName: "01", Floor: "1층"},
		},
		{
			name:     "Sub-zone containing dashes",
			value:    "B-12-3-2층",
			expected: Location{ZoneName: "B", SubZoneName: "12-3", Floor: "2층"},
		},
		{
			name:     "Surrounding whitespace",
			value:    "  A-01-1층  ",
			expected: Location{ZoneName: "A", SubZoneName: "01", Floor: "1층"},
		},
		{
			name:    "Empty string",
			value:   "",
			wantErr: true,
		},
		{
			name:    "Single token",
			value:   "A",
			wantErr: true,
		},
		{
			name:    "Only one dash",
			value:   "A-01",
			wantErr: true,
		},
		{
			name:    "Empty zone",
			value:   "-01-1층",
			wantErr: true,
		},
		{
			name:    "Empty floor",
			value:   "A-01-",
			wantErr: true,
		},
		{
			name:    "Empty sub-zone",
			value:   "A--1층",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := Parse(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, loc)
		})
	}
}

func TestComposeRoundTrip(t *testing.T) {
	tests := []struct {
		zone    string
		subZone string
		floor   string
	}{
		{"A", "01", "1층"},
		{"B", "12-3", "2층"},
		{"OUT", "dock-west-upper", "G"},
	}

	for _, tt := range tests {
		value, err := Compose(tt.zone, tt.subZone, tt.floor)
		assert.NoError(t, err)

		loc, err := Parse(value)
		assert.NoError(t, err)
		assert.Equal(t, tt.zone, loc.ZoneName)
		assert.Equal(t, tt.subZone, loc.SubZoneName)
		assert.Equal(t, tt.floor, loc.Floor)
		assert.Equal(t, value, loc.String())
	}
}

func TestComposeRejectsAmbiguousTokens(t *testing.T) {
	_, err := Compose("A-1", "01", "1층")
	assert.Error(t, err)

	_, err = Compose("A", "01", "1-층")
	assert.Error(t, err)

	_, err = Compose("A", "", "1층")
	assert.Error(t, err)
}
