package echo

import "fmt"

// Moment identifies a dual-polarization radar moment (or the static clutter
// map) used as a fuzzy evidence channel. The set is closed: anything outside
// it is a configuration error, never silently ignored.
type Moment uint8

const (
	// MomentRho is the copolar correlation coefficient. Low values indicate
	// non-meteorological scatter.
	MomentRho Moment = iota
	// MomentRho2 is the local texture of the correlation coefficient, an
	// independently weighted second evidence channel derived from the same
	// moment. High texture indicates clutter.
	MomentRho2
	// MomentPhi is the texture of differential phase. High texture indicates
	// clutter.
	MomentPhi
	// MomentZdr is the texture of differential reflectivity. High texture
	// indicates clutter.
	MomentZdr
	// MomentDop is Doppler velocity in m/s. Near-zero velocity indicates a
	// static target.
	MomentDop
	// MomentMap is the static clutter map, already expressed as confidence
	// in [0,1] and used directly as membership.
	MomentMap

	momentCount
)

// AllMoments lists the recognized moments in declaration order.
var AllMoments = []Moment{MomentRho, MomentRho2, MomentPhi, MomentZdr, MomentDop, MomentMap}

var momentNames = [momentCount]string{
	MomentRho:  "rho",
	MomentRho2: "rho2",
	MomentPhi:  "phi",
	MomentZdr:  "zdr",
	MomentDop:  "dop",
	MomentMap:  "map",
}

func (m Moment) String() string {
	if m < momentCount {
		return momentNames[m]
	}
	return fmt.Sprintf("moment(%d)", uint8(m))
}

// ParseMoment maps a config-file moment name to its Moment. Unrecognized
// names are a configuration error.
func ParseMoment(name string) (Moment, error) {
	for m, n := range momentNames {
		if n == name {
			return Moment(m), nil
		}
	}
	return 0, configErrorf("unrecognized moment name %q (valid: rho, rho2, phi, zdr, dop, map)", name)
}
