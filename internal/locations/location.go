package locations

import (
	"strings"

	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
)

// Location is a parsed Zone-SubZone-Floor triple.
//
// Grammar: zone and floor tokens must not contain dashes; the sub-zone may.
// Parse therefore splits on the first and the last dash, which makes the
// format unambiguous and lets Compose round-trip every valid triple.
type Location struct {
	ZoneName    string
	SubZoneName string
	Floor       string
}

func Parse(value string) (Location, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Location{}, custom_error.NewInvalidLocationError(value, "empty location string")
	}

	first := strings.Index(trimmed, "-")
	last := strings.LastIndex(trimmed, "-")
	if first == -1 || first == last {
		return Location{}, custom_error.NewInvalidLocationError(value, "expected Zone-SubZone-Floor format")
	}

	loc := Location{
		ZoneName:    trimmed[:first],
		SubZoneName: trimmed[first+1 : last],
		Floor:       trimmed[last+1:],
	}

	if loc.ZoneName == "" || loc.SubZoneName == "" || loc.Floor == "" {
		return Location{}, custom_error.NewInvalidLocationError(value, "zone, sub-zone and floor must all be non-empty")
	}
	if strings.Contains(loc.Floor, "-") {
		return Location{}, custom_error.NewInvalidLocationError(value, "floor token must not contain a dash")
	}

	return loc, nil
}

// Compose is the inverse of Parse. It rejects triples Parse could not
// reproduce, so Parse(Compose(z, s, f)) == (z, s, f) holds for every
// accepted input.
func Compose(zoneName, subZoneName, floor string) (string, error) {
	if zoneName == "" || subZoneName == "" || floor == "" {
		return "", custom_error.NewInvalidLocationError("", "zone, sub-zone and floor must all be non-empty")
	}
	if strings.Contains(zoneName, "-") {
		return "", custom_error.NewInvalidLocationError(zoneName, "zone token must not contain a dash")
	}
	if strings.Contains(floor, "-") {
		return "", custom_error.NewInvalidLocationError(floor, "floor token must not contain a dash")
	}

	return zoneName + "-" + subZoneName + "-" + floor, nil
}

func (l Location) String() string {
	return l.ZoneName + "-" + l.SubZoneName + "-" + l.Floor
}
