package constants

// Airline identifies a supported carrier. IDs are stable and stored
// in the routes table, so they must never be renumbered.
type Airline int

const (
	TigerairTaiwan Airline = 1
	VanillaAir     Airline = 2
	Scoot          Airline = 3
	PeachAviation  Airline = 4
	Jetstar        Airline = 5
)

// AllAirlines lists every supported carrier in enumeration order.
// Aggregation and sync output follow this order, not caller order.
var AllAirlines = []Airline{
	TigerairTaiwan,
	VanillaAir,
	Scoot,
	PeachAviation,
	Jetstar,
}

var airlineLabels = map[Airline]string{
	TigerairTaiwan: "Tigerair Taiwan",
	VanillaAir:     "Vanilla Air",
	Scoot:          "Scoot",
	PeachAviation:  "Peach Aviation",
	Jetstar:        "Jetstar",
}

// Label returns the human-readable carrier name used to tag fare points.
func (a Airline) Label() string {
	if label, ok := airlineLabels[a]; ok {
		return label
	}
	return "Unknown"
}

// IsValid reports whether the ID belongs to the known carrier set.
func (a Airline) IsValid() bool {
	_, ok := airlineLabels[a]
	return ok
}
