package suppression

import "github.com/mineubob/wildfiresim/units"

// Set is the driver-owned suppression state: airborne droplets plus
// per-element coverage, matching the ownership model the driver's element
// store and ember set follow (owned exclusively by the simulation driver, never
// shared out).
type Set struct {
	droplets []Droplet
	coverage map[uint32]*Coverage
}

// NewSet returns an empty suppression set.
func NewSet() *Set {
	return &Set{coverage: make(map[uint32]*Coverage)}
}

// AddDroplets appends newly released droplets, e.g. from an apply_suppression
// action.
func (s *Set) AddDroplets(d ...Droplet) {
	s.droplets = append(s.droplets, d...)
}

// DropletCount reports how many droplets are currently airborne.
func (s *Set) DropletCount() int { return len(s.droplets) }

// StepDroplets advances every airborne droplet by dt under wind, removing
// landed or fully-evaporated droplets from the active set and returning
// those that landed this step so the caller can deposit their coverage.
func (s *Set) StepDroplets(wind units.Vec3, dt float64) []Droplet {
	var landed []Droplet
	kept := s.droplets[:0]
	for i := range s.droplets {
		d := &s.droplets[i]
		d.UpdatePhysics(wind, dt)
		switch {
		case d.HasLanded():
			landed = append(landed, *d)
		case d.IsSpent():
			// fully evaporated mid-air, contributes nothing
		default:
			kept = append(kept, *d)
		}
	}
	s.droplets = kept
	return landed
}

// Deposit applies a landed droplet's coverage contribution onto the target
// element, creating a Coverage entry on first contact.
func (s *Set) Deposit(elementID uint32, d Droplet, saturationMass units.Mass) {
	contribution := d.CoverageContribution(saturationMass)
	if contribution <= 0 {
		return
	}
	c, ok := s.coverage[elementID]
	if !ok {
		c = &Coverage{}
		s.coverage[elementID] = c
	}
	c.Apply(d.Kind, contribution)
}

// DecayAll ages every element's coverage by dt and the supplied per-element
// heat exposure (indexed by the same element id), pruning fully-depleted
// entries.
func (s *Set) DecayAll(dt float64, heatExposure map[uint32]float64) {
	for id, c := range s.coverage {
		c.Decay(dt, heatExposure[id])
		if c.IsDepleted() {
			delete(s.coverage, id)
		}
	}
}

// CoverageFor returns the coverage for an element, and whether one exists.
func (s *Set) CoverageFor(elementID uint32) (Coverage, bool) {
	c, ok := s.coverage[elementID]
	if !ok {
		return Coverage{}, false
	}
	return *c, true
}

// CoverageCount reports how many elements currently carry suppression
// coverage.
func (s *Set) CoverageCount() int { return len(s.coverage) }
