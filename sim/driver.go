// Package sim is the simulation driver: it owns the grid, element store,
// spatial index, field solver, ember set, suppression set, weather, action
// queue, terrain, and the monotonic time cursor, and advances all of them
// through the fixed-order per-step pipeline. Grounded on Gekko3D-gekko's
// App/Commands orchestration (schedule.go's stage ordering, mod_time.go's
// monotonic frame counter) generalized from a generic ECS scheduler into a
// single hand-ordered physics pipeline, since the pipeline's stage order is
// a correctness requirement rather than a configurable schedule.
package sim

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/mineubob/wildfiresim/action"
	"github.com/mineubob/wildfiresim/atmosphere"
	"github.com/mineubob/wildfiresim/element"
	"github.com/mineubob/wildfiresim/ember"
	"github.com/mineubob/wildfiresim/fieldsolver"
	"github.com/mineubob/wildfiresim/internal/applog"
	"github.com/mineubob/wildfiresim/internal/rng"
	"github.com/mineubob/wildfiresim/kernels"
	"github.com/mineubob/wildfiresim/spatial"
	"github.com/mineubob/wildfiresim/suppression"
	"github.com/mineubob/wildfiresim/terrain"
	"github.com/mineubob/wildfiresim/units"
	"github.com/mineubob/wildfiresim/weather"
)

const neighborRadius units.Length = 15
const emberSpawnIntensityThresholdKW = 500.0
const emberLandingQueryRadius units.Length = 2
const suppressionDepositRadius units.Length = 2
const pyroCbTriggerThreshold = 0.5
const spatialRebuildTickInterval = 50
const spatialRebuildDisplacedThreshold = 200

// Simulation is the driver. The zero value is not usable; construct with
// New.
type Simulation struct {
	terrain *terrain.Terrain
	grid    *atmosphere.Grid
	solver  fieldsolver.Backend

	elements *elementStore
	spatial  *spatial.Index

	embers      []*ember.Ember
	nextEmberID ember.ID

	suppression *suppression.Set

	forcing    weather.Forcing
	stability  weather.Stability
	whirl      weather.FireWhirlDetector
	fireWhirl  bool
	downdraft  *weather.Downdraft

	actions *action.Queue
	draws   *rng.Stream
	logger  applog.Logger

	ambient units.Kelvin

	simTime           float64
	tick              uint64
	ticksSinceRebuild int
	displacedCount    int

	totalBurnedMassKg float64
}

// Config bundles New's construction parameters.
type Config struct {
	Terrain     *terrain.Terrain
	Quality     fieldsolver.Quality
	Forcing     weather.Forcing
	Seed        int64
	PreferGPU   bool
	Logger      applog.Logger
}

// New constructs a Simulation over terr, selecting a field-solver backend
// per quality and seeding the centralized RNG stream, matching the FFI
// create() operation's parameter set (terrain_descriptor, quality,
// weather).
func New(cfg Config) *Simulation {
	logger := cfg.Logger
	if logger == nil {
		logger = applog.NewNopLogger()
	}

	ambient := cfg.Forcing.Temperature.ToKelvin()

	solver := fieldsolver.Select(cfg.Terrain.Width, cfg.Terrain.Height, cfg.Quality, ambient, cfg.PreferGPU, logger)
	w, h, cellSize := solver.Dimensions()

	nz := 16
	grid := atmosphere.NewGrid(w, h, nz, cellSize, cfg.Terrain, ambient)

	return &Simulation{
		terrain:     cfg.Terrain,
		grid:        grid,
		solver:      solver,
		elements:    newElementStore(),
		spatial:     spatial.New(cellSize, units.Vec3{}),
		suppression: suppression.NewSet(),
		forcing:     cfg.Forcing,
		whirl:       weather.DefaultFireWhirlDetector(),
		actions:     action.New(),
		draws:       rng.New(cfg.Seed),
		logger:      logger,
		ambient:     ambient,
	}
}

// PopulateGround scatters ground-layer elements across the terrain's
// fuel-code grid, one element per fuel-code raster cell, matching the
// archetype the terrain's FuelCodeTable resolves for that cell. Cells with
// no resolvable archetype are skipped.
func (s *Simulation) PopulateGround(massPerElement units.Mass) {
	nx, ny := s.terrain.Dimensions()
	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			archetype, ok := s.terrain.FuelAt(ix, iy)
			if !ok {
				continue
			}
			x := float64(ix) * float64(s.terrain.Resolution)
			y := float64(iy) * float64(s.terrain.Resolution)
			z := s.terrain.ElevationAt(x, y)
			pos := units.NewVec3(x, y, z)

			part := element.Part{Kind: element.PartGroundLitter}
			if archetype.Bark.LadderFactor > 0.5 {
				part.Kind = element.PartGroundVegetation
			}

			id := s.elements.allocID()
			e := element.New(id, pos, archetype, massPerElement, part, nil)
			e.Elevation = units.Length(z)
			e.Slope = s.terrain.SlopeAt(ix, iy)
			s.elements.add(e)
			s.spatial.Insert(spatial.ElementID(id), pos)
		}
	}
}

// Ignite forces ignition of every element within radius of (x,y,z) for
// which CanIgnite holds (already-burning, burnt-out and too-wet elements
// are left as they are), and ignites the field solver's disc there,
// matching the FFI ignite() operation and the action queue's ignite_spot
// effect.
func (s *Simulation) Ignite(x, y, z, radius float64) {
	center := units.NewVec3(x, y, z)
	candidates := s.spatial.QueryRadius(center, units.Length(radius))
	for _, id := range candidates {
		e, ok := s.elements.get(element.ID(id))
		if !ok {
			continue
		}
		if e.Position.Distance(center) > radius {
			continue
		}
		if e.CanIgnite() {
			e.Ignite(e.Fuel.IgnitionTemp + 50)
		}
	}
	s.solver.IgniteAt(x, y, radius, units.Celsius(300).ToKelvin(), 50)
}

// AddSuppression releases count droplets of the given agent kind at
// position, matching the FFI add_suppression() operation.
func (s *Simulation) AddSuppression(position units.Vec3, kind suppression.AgentKind, totalMassKg float64, count int) {
	if count <= 0 {
		return
	}
	perDroplet := units.Mass(totalMassKg / float64(count))
	droplets := make([]suppression.Droplet, 0, count)
	for i := 0; i < count; i++ {
		velocity := units.NewVec3(s.draws.Range(-1, 1), s.draws.Range(-1, 1), -s.draws.Range(2, 6))
		droplets = append(droplets, suppression.Droplet{Position: position, Velocity: velocity, Mass: perDroplet, Kind: kind})
	}
	s.suppression.AddDroplets(droplets...)
}

// SubmitAction enqueues a player action for the next step's drain, matching
// the FFI submit_action() operation.
func (s *Simulation) SubmitAction(a action.Action) {
	s.actions.Submit(a)
}

// Step advances the simulation by dt seconds through the fixed 13-stage
// pipeline. dt must be > 0.
func (s *Simulation) Step(dt float64) {
	s.actions.BeginFrame()

	// 1. Drain action queue.
	for _, a := range s.actions.TakePending() {
		s.applyAction(a)
		s.actions.MarkExecuted(a)
	}

	// 2. Advance weather derived indices.
	s.refreshWeatherIndices()

	// 3. Refresh terrain-modulated wind field.
	wind := s.forcing.WindVectorMS()
	s.grid.RefreshWindField(wind, s.terrain)

	// 4. Advance field solver: heat -> combustion -> moisture -> level-set -> ignition sync.
	windX, windY := wind.XY()
	humidity := units.Fraction(s.forcing.HumidityPct / 100.0)
	s.solver.StepHeatTransfer(dt, windX, windY, s.ambient)
	s.solver.StepCombustion(dt)
	s.solver.StepMoisture(dt, humidity)
	s.solver.StepLevelSet(dt)
	s.solver.StepIgnitionSync(s.ambient + 300)

	// 5. Per-ignited-element O2-limited combustion against its grid cell.
	s.stepElementCombustion(dt)

	// 6-7. Element-element radiative/convective heat accumulation and the
	// ordered apply_heat protocol.
	s.stepElementHeatExchange(dt)

	// 8. Ember spawn, transport, landing ignition.
	s.stepEmbers(dt)

	// 9. Crown-fire transition and oil explosions.
	s.stepCrownAndExplosions()

	// 10. Suppression decay and effect.
	s.stepSuppression(dt)

	// 11. Fire-whirl / downdraft phenomena.
	s.stepWeatherPhenomena(dt)

	// 12. Rebuild spatial index if thresholds exceeded.
	s.maybeRebuildSpatialIndex()

	// 13. Advance time cursor.
	s.simTime += dt
	s.tick++
}

func (s *Simulation) applyAction(a action.Action) {
	switch a.Type {
	case action.IgniteSpot:
		s.Ignite(float64(a.Position.X), float64(a.Position.Y), float64(a.Position.Z), a.Param1)
	case action.ApplySuppression:
		s.AddSuppression(a.Position, suppression.AgentKind(a.Param2), a.Param1, 20)
	case action.ModifyWeather:
		s.forcing.DroughtFactor = a.Param1
		s.forcing.WindDirection = units.Degrees(a.Param2)
	}
}

func (s *Simulation) refreshWeatherIndices() {
	t950 := s.forcing.Temperature
	t850 := s.forcing.Temperature - 5
	td850 := t850 - units.Celsius((100.0-s.forcing.HumidityPct)/5.0)
	s.stability = weather.NewStability(t950, t850, td850, units.Length(1500))
}

// stepElementCombustion implements pipeline stage 5: for each ignited
// element, debit its grid cell's oxygen, consume fuel at the O2-limited
// rate, and add combustion products back to the cell.
func (s *Simulation) stepElementCombustion(dt float64) {
	cellVolume := math.Pow(float64(s.grid.CellSize), 3)
	for _, id := range s.elements.ids() {
		e, _ := s.elements.get(id)
		if !e.Ignited || e.RemainingMass <= 0 {
			continue
		}
		cell := s.grid.CellAt(e.Position)
		if cell == nil {
			e.BurnFuel(dt)
			continue
		}

		baseRate := float64(e.BurnRate())
		completeness := kernels.CombustionCompleteness(float64(cell.Oxygen))
		multiplier := cell.OxygenLimitedMultiplier(baseRate, kernels.O2PerKgFuel, cellVolume)

		massLoss := baseRate * multiplier * dt
		if massLoss > float64(e.RemainingMass) {
			massLoss = float64(e.RemainingMass)
		}
		e.RemainingMass -= units.Mass(massLoss)
		if e.RemainingMass < 0.010 {
			e.Extinguish(s.ambient.ToCelsius())
		}
		s.totalBurnedMassKg += massLoss

		products := kernels.CombustionChemistry(massLoss, completeness)
		airMass := cellVolume * 1.225
		if airMass > 0 {
			cell.Oxygen -= units.Fraction(products.O2ConsumedKg / airMass)
			cell.CarbonDioxide += units.Fraction(products.CO2Kg / airMass)
			cell.CarbonMonoxide += units.Fraction(products.COKg / airMass)
			cell.WaterVapor += units.Fraction(products.H2OKg / airMass)
			cell.Smoke += units.Fraction(products.SmokeKg / airMass)
			if cell.Oxygen < 0 {
				cell.Oxygen = 0
			}
		}
		heatEfficiency := 0.6 + 0.4*completeness
		cell.Temperature += units.Kelvin(massLoss * e.Fuel.HeatContent * heatEfficiency / (cellVolume * 1.2))
	}
}

// stepElementHeatExchange implements pipeline stages 6-7: accumulate
// radiative and convective heat from every ignited element onto its
// neighbors within neighborRadius, partitioned across workers by element
// index the way atmosphere.Grid.RefreshWindField partitions by z-slice,
// then apply the ordered apply_heat protocol once per target element.
func (s *Simulation) stepElementHeatExchange(dt float64) {
	ids := s.elements.ids()
	ignited := make([]element.ID, 0, len(ids))
	for _, id := range ids {
		if e, ok := s.elements.get(id); ok && e.Ignited {
			ignited = append(ignited, id)
		}
	}
	if len(ignited) == 0 {
		return
	}

	const workers = 8
	shardAccum := make([]map[element.ID]float64, workers)
	for i := range shardAccum {
		shardAccum[i] = make(map[element.ID]float64)
	}

	wind := s.forcing.WindVectorMS()
	var eg errgroup.Group
	chunk := (len(ignited) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= len(ignited) {
			break
		}
		if end > len(ignited) {
			end = len(ignited)
		}
		eg.Go(func() error {
			accum := shardAccum[w]
			for _, sourceID := range ignited[start:end] {
				source, _ := s.elements.get(sourceID)
				neighbors := s.spatial.QueryRadius(source.Position, neighborRadius)
				for _, nid := range neighbors {
					targetID := element.ID(nid)
					if targetID == sourceID {
						continue
					}
					target, ok := s.elements.get(targetID)
					if !ok {
						continue
					}
					distance := source.Position.Distance(target.Position)
					if distance > float64(neighborRadius) || distance <= 0 {
						continue
					}

					windMult := kernels.WindRadiationMultiplier(source.Position, target.Position, wind)
					vertMult := kernels.VerticalFactor(target.Position.Z - source.Position.Z)
					slopeMult := kernels.SlopeFactor(units.Length(math.Hypot(float64(target.Position.X-source.Position.X), float64(target.Position.Y-source.Position.Y))), target.Position.Z-source.Position.Z)

					radiation := kernels.RadiationFlux(source.Ignited, source.Temperature.ToKelvin(), target.Temperature.ToKelvin(), units.Length(distance), source.RadiationSurfaceArea(), target.RadiationSurfaceArea(), 1.0)
					convection := kernels.ConvectionFlux(source.Ignited, source.Position.Z, target.Position.Z, source.ByramIntensity(), units.Length(distance))

					heatKW := (radiation + convection) * windMult * vertMult * slopeMult
					if coverage, ok := s.suppression.CoverageFor(uint32(targetID)); ok {
						heatKW *= coverage.HeatAbsorptionMultiplier()
					}
					accum[targetID] += heatKW * dt
				}
			}
			return nil
		})
	}
	_ = eg.Wait()

	merged := make(map[element.ID]float64)
	for _, shard := range shardAccum {
		for id, heat := range shard {
			merged[id] += heat
		}
	}

	ambientC := s.ambient.ToCelsius()
	for _, id := range ids {
		heatKJ, hit := merged[id]
		if !hit {
			continue
		}
		e, ok := s.elements.get(id)
		if !ok {
			continue
		}
		e.ApplyHeat(heatKJ, dt, ambientC, s.draws.Next())
	}
}

// stepEmbers implements pipeline stage 8.
func (s *Simulation) stepEmbers(dt float64) {
	ambientC := s.ambient.ToCelsius()
	wind := s.forcing.WindVectorMS()

	for _, id := range s.elements.ids() {
		e, _ := s.elements.get(id)
		if !e.Ignited || e.ByramIntensity() < emberSpawnIntensityThresholdKW {
			continue
		}
		spawned := ember.Spawn(e.Position, e.Temperature, e.RemainingMass, float64(e.Fuel.EmberProduction), e.Fuel.ID, s.draws, func() ember.ID {
			id := s.nextEmberID
			s.nextEmberID++
			return id
		})
		s.embers = append(s.embers, spawned...)
	}

	kept := s.embers[:0]
	for _, em := range s.embers {
		em.UpdatePhysics(wind, ambientC, dt)

		if !em.HasLanded() {
			if em.IsActive() {
				kept = append(kept, em)
			}
			continue
		}
		if em.CanIgnite() {
			s.tryIgniteAtLanding(em)
		}
	}
	s.embers = kept
}

func (s *Simulation) tryIgniteAtLanding(em *ember.Ember) {
	candidates := s.spatial.QueryRadius(em.Position, emberLandingQueryRadius)
	for _, id := range candidates {
		target, ok := s.elements.get(element.ID(id))
		if !ok || !target.CanIgnite() {
			continue
		}
		if target.Position.Distance(em.Position) > float64(emberLandingQueryRadius) {
			continue
		}
		prob := ember.IgnitionProbability(em, target.Fuel.EmberReceptivity)
		if s.draws.Next() < prob {
			target.Ignite(em.Temperature)
		}
		return
	}
}

// stepCrownAndExplosions implements pipeline stage 9.
func (s *Simulation) stepCrownAndExplosions() {
	for _, id := range s.elements.ids() {
		e, _ := s.elements.get(id)
		if !e.Ignited {
			continue
		}

		if e.Part.Kind == element.PartCrown {
			verticals := s.countIgnitedBelow(e)
			in := kernels.CrownTransitionInput{
				SurfaceIntensityKW:   e.ByramIntensity(),
				LadderFactor:         float64(e.Fuel.Bark.LadderFactor),
				LadderIntensityKW:    e.Fuel.LadderIntensity,
				CrownFireThresholdKW: e.Fuel.CrownFireThreshold,
				VerticalNeighbors:    verticals,
				WindSpeed:            s.forcing.WindVectorMS().Norm(),
				Extreme:              e.Fuel.Bark.LadderFactor > 0.7,
			}
			if kernels.EvaluateCrownTransition(in) && e.CanIgnite() {
				e.Ignite(e.Fuel.CrownFireThreshold * 2)
			}
		}

		if event, ok := kernels.EvaluateOilExplosion(float64(e.Temperature), float64(e.Fuel.OilAutoignitionTemp), e.Fuel.VolatileOilContent, float64(e.RemainingMass)); ok {
			s.applyExplosion(e, event)
		}
	}
}

func (s *Simulation) countIgnitedBelow(crown *element.Element) int {
	candidates := s.spatial.QueryRadius(crown.Position, neighborRadius)
	count := 0
	for _, id := range candidates {
		other, ok := s.elements.get(element.ID(id))
		if !ok || !other.Ignited {
			continue
		}
		if other.Position.Z < crown.Position.Z {
			count++
		}
	}
	return count
}

func (s *Simulation) applyExplosion(source *element.Element, event kernels.ExplosionEvent) {
	s.solver.IgniteAt(float64(source.Position.X), float64(source.Position.Y), event.BlastRadius, s.ambient+units.Kelvin(event.TempBumpC), 0)

	candidates := s.spatial.QueryRadius(source.Position, units.Length(event.BlastRadius))
	for _, id := range candidates {
		other, ok := s.elements.get(element.ID(id))
		if !ok || other.ID == source.ID {
			continue
		}
		if other.Position.Distance(source.Position) > event.BlastRadius {
			continue
		}
		if other.CanIgnite() {
			other.Ignite(other.Fuel.IgnitionTemp + units.Celsius(event.TempBumpC))
		}
	}
}

// stepSuppression implements pipeline stage 10.
func (s *Simulation) stepSuppression(dt float64) {
	wind := s.forcing.WindVectorMS()
	landed := s.suppression.StepDroplets(wind, dt)
	for _, d := range landed {
		candidates := s.spatial.QueryRadius(d.Position, suppressionDepositRadius)
		for _, id := range candidates {
			target, ok := s.elements.get(element.ID(id))
			if !ok {
				continue
			}
			if target.Position.Distance(d.Position) > float64(suppressionDepositRadius) {
				continue
			}
			s.suppression.Deposit(uint32(id), d, target.RemainingMass)
		}
	}

	heatExposure := make(map[uint32]float64)
	for _, id := range s.elements.ids() {
		e, _ := s.elements.get(id)
		if e.Ignited {
			heatExposure[uint32(id)] = e.ByramIntensity()
		}
	}
	s.suppression.DecayAll(dt, heatExposure)
}

// stepWeatherPhenomena implements pipeline stage 11.
func (s *Simulation) stepWeatherPhenomena(dt float64) {
	var maxIntensity float64
	var hottest *element.Element
	for _, id := range s.elements.ids() {
		e, _ := s.elements.get(id)
		if !e.Ignited {
			continue
		}
		if intensity := e.ByramIntensity(); intensity > maxIntensity {
			maxIntensity = intensity
			hottest = e
		}
	}

	s.fireWhirl = false
	if hottest != nil {
		s.fireWhirl = s.whirl.CheckConditions(s.localVorticity(hottest.Position), maxIntensity)
	}

	if s.downdraft != nil {
		s.downdraft.Update(dt)
		s.applyDowndraftOutflow()
		if s.downdraft.IsDissipated() {
			s.downdraft = nil
		}
	}

	if hottest == nil {
		return
	}

	pyroCb := s.stability.PyroCbPotential(maxIntensity)
	if s.downdraft == nil && pyroCb > pyroCbTriggerThreshold {
		columnHeight := units.Length(hottest.Position.Z + units.Length(50*maxIntensity/1000.0))
		downdraft := weather.DowndraftFromPyroCb(hottest.Position, columnHeight, s.ambient, 0.5)
		s.downdraft = &downdraft
	}
}

// localVorticity samples the wind field at the four cells surrounding pos
// and computes vertical vorticity via central differences, for fire-whirl
// detection.
func (s *Simulation) localVorticity(pos units.Vec3) float64 {
	cx := int(float64(pos.X) / float64(s.grid.CellSize))
	cy := int(float64(pos.Y) / float64(s.grid.CellSize))
	cz := int(float64(pos.Z) / float64(s.grid.CellSize))

	up := s.grid.CellAtIndices(cx, cy+1, cz)
	down := s.grid.CellAtIndices(cx, cy-1, cz)
	left := s.grid.CellAtIndices(cx-1, cy, cz)
	right := s.grid.CellAtIndices(cx+1, cy, cz)
	if up == nil || down == nil || left == nil || right == nil {
		return 0
	}

	upU, _ := up.Wind.XY()
	downU, _ := down.Wind.XY()
	_, leftV := left.Wind.XY()
	_, rightV := right.Wind.XY()

	return weather.Vorticity(upU, downU, leftV, rightV, float64(s.grid.CellSize))
}

func (s *Simulation) applyDowndraftOutflow() {
	for iz := 0; iz < s.grid.NZ; iz++ {
		for iy := 0; iy < s.grid.NY; iy++ {
			for ix := 0; ix < s.grid.NX; ix++ {
				cell := s.grid.CellAtIndices(ix, iy, iz)
				if cell == nil {
					continue
				}
				worldX := float64(ix) * float64(s.grid.CellSize)
				worldY := float64(iy) * float64(s.grid.CellSize)
				u, v := s.downdraft.WindEffectAt(units.NewVec3(worldX, worldY, 0))
				if u == 0 && v == 0 {
					continue
				}
				cell.Wind = cell.Wind.Add(units.NewVec3(u, v, 0))
			}
		}
	}
}

// maybeRebuildSpatialIndex implements pipeline stage 12.
func (s *Simulation) maybeRebuildSpatialIndex() {
	s.ticksSinceRebuild++
	if s.ticksSinceRebuild < spatialRebuildTickInterval && s.displacedCount < spatialRebuildDisplacedThreshold {
		return
	}
	ids := s.elements.ids()
	spatialIDs := make([]spatial.ElementID, len(ids))
	for i, id := range ids {
		spatialIDs[i] = spatial.ElementID(id)
	}
	s.spatial.Rebuild(spatialIDs, func(sid spatial.ElementID) units.Vec3 {
		e, _ := s.elements.get(element.ID(sid))
		return e.Position
	})
	s.ticksSinceRebuild = 0
	s.displacedCount = 0
}

// Stats returns a read-only snapshot of the current state.
func (s *Simulation) Stats() Stats {
	burning := 0
	for _, id := range s.elements.ids() {
		if e, ok := s.elements.get(id); ok && e.Ignited {
			burning++
		}
	}
	return Stats{
		Tick:              s.tick,
		SimTime:           s.simTime,
		BurningElements:   burning,
		TotalElements:     s.elements.len(),
		AirborneEmbers:    len(s.embers),
		ActiveDroplets:    s.suppression.DropletCount(),
		CoverageCount:     s.suppression.CoverageCount(),
		TotalBurnedMassKg: s.totalBurnedMassKg,
		FFDI:              s.forcing.FFDI(),
		FireDangerRating:  s.forcing.FireDangerRating(),
		HainesIndex:       s.stability.HainesIndex,
		PyroCbPotential:   s.stability.PyroCbPotential(0),
		FireWhirlActive:   s.fireWhirl,
	}
}

// FireFront returns the world-space positions of every currently ignited
// element, an approximation of the true level-set zero-contour suitable
// for a coarse visualization polyline.
func (s *Simulation) FireFront() []units.Vec3 {
	var front []units.Vec3
	for _, id := range s.elements.ids() {
		if e, ok := s.elements.get(id); ok && e.Ignited {
			front = append(front, e.Position)
		}
	}
	return front
}
