package locations

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
)

type MockZoneSource struct {
	mock.Mock
}

func (m *MockZoneSource) GetZone(zoneName, subZoneName string) (*models.WarehouseZone, error) {
	args := m.Called(zoneName, subZoneName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WarehouseZone), args.Error(1)
}

func TestResolve(t *testing.T) {
	layout := new(MockZoneSource)
	resolver := NewResolver(layout)

	layout.On("GetZone", "A", "01").Return(&models.WarehouseZone{
		ZoneName: "A", SubZoneName: "01", Floors: []string{"1층", "2층"},
	}, nil)

	loc, err := resolver.Resolve("A-01-1층")
	assert.NoError(t, err)
	assert.Equal(t, Location{ZoneName: "A", SubZoneName: "01", Floor: "1층"}, loc)

	// Declared zone but undeclared floor.
	_, err = resolver.Resolve("A-01-3층")
	var invalid *custom_error.InvalidLocationError
	assert.True(t, errors.As(err, &invalid))
}

func TestResolveUndeclaredZone(t *testing.T) {
	layout := new(MockZoneSource)
	resolver := NewResolver(layout)

	layout.On("GetZone", "Z", "99").Return(nil, custom_error.NewNotFoundError("warehouse zone", "Z-99"))

	_, err := resolver.Resolve("Z-99-1층")
	var invalid *custom_error.InvalidLocationError
	assert.True(t, errors.As(err, &invalid))
}

func TestResolveMalformedSkipsLayoutLookup(t *testing.T) {
	layout := new(MockZoneSource)
	resolver := NewResolver(layout)

	_, err := resolver.Resolve("garbage")
	assert.Error(t, err)
	layout.AssertNotCalled(t, "GetZone", mock.Anything, mock.Anything)
}
