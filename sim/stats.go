package sim

// Stats is the read-only snapshot the driver exposes between steps, the
// FFI read_stats payload's in-process counterpart.
type Stats struct {
	Tick             uint64
	SimTime          float64
	BurningElements  int
	TotalElements    int
	AirborneEmbers   int
	ActiveDroplets   int
	CoverageCount    int
	TotalBurnedMassKg float64
	FFDI             float64
	FireDangerRating string
	HainesIndex      int
	PyroCbPotential  float64
	FireWhirlActive  bool
}
