// Package simulation wires the scheduling core, the active entity set, data
// recording, and monitoring into one runnable simulation.
package simulation

import (
	"github.com/entsimlab/entsim/datarecording"
	"github.com/entsimlab/entsim/monitoring"
	"github.com/entsimlab/entsim/sim"
)

const executedEventTableName = "executed_events"

type executedEvent struct {
	Tick    int64
	Name    string
	EventID string
	Targets int
}

// A Simulation provides the service requires to define a simulation.
type Simulation struct {
	id string

	engine     sim.Engine
	supervisor *sim.Supervisor
	logger     *sim.TopicLogger

	dataRecorder datarecording.DataRecorder
	runRecorder  *datarecording.RunRecorder
	monitor      *monitoring.Monitor

	entities    []*sim.Entity
	entityIndex map[string]int
}

// ID returns the unique identifier of the simulation run.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetDataRecorder returns the data recorder used in the simulation.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil when
// monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// Schedule registers an event with the engine, at the event's own time if
// set, otherwise one tick after the current time.
func (s *Simulation) Schedule(evt *sim.Event) error {
	return s.engine.Schedule(evt)
}

// ScheduleAt registers an event with the engine at the given tick.
func (s *Simulation) ScheduleAt(evt *sim.Event, t sim.VTimeInTick) error {
	return s.engine.ScheduleAt(evt, t)
}

// CreateEntity instantiates the description and registers the new entity as
// active.
func (s *Simulation) CreateEntity(
	desc *sim.EntityDescription,
	overrides sim.Properties,
) *sim.Entity {
	ent := desc.Instantiate(overrides)
	s.RegisterEntity(ent)
	return ent
}

// RegisterEntity adds the entity to the active set and notifies every other
// active entity of its creation, in registration order.
func (s *Simulation) RegisterEntity(ent *sim.Entity) {
	others := s.ActiveEntities()

	s.entities = append(s.entities, ent)
	s.entityIndex[ent.ID()] = len(s.entities) - 1

	for _, other := range others {
		s.supervisor.DispatchCreated(other, ent)
	}
}

// DestroyEntity removes the entity from the active set and notifies the
// remaining active entities. Destroying an entity that is not active is a
// no-op. The entity object itself stays usable; only its membership
// changes.
func (s *Simulation) DestroyEntity(ent *sim.Entity) bool {
	idx, found := s.entityIndex[ent.ID()]
	if !found {
		return false
	}

	s.entities = append(s.entities[:idx], s.entities[idx+1:]...)
	delete(s.entityIndex, ent.ID())
	for i := idx; i < len(s.entities); i++ {
		s.entityIndex[s.entities[i].ID()] = i
	}

	for _, other := range s.ActiveEntities() {
		s.supervisor.DispatchDestroyed(other, ent)
	}

	return true
}

// UpdateEntity notifies every other active entity that the given entity's
// fields changed.
func (s *Simulation) UpdateEntity(ent *sim.Entity, changed []string) {
	for _, other := range s.ActiveEntities() {
		if other.ID() == ent.ID() {
			continue
		}

		s.supervisor.DispatchUpdated(other, ent, changed)
	}
}

// IsActive tells if the entity is currently in the active set.
func (s *Simulation) IsActive(ent *sim.Entity) bool {
	_, found := s.entityIndex[ent.ID()]
	return found
}

// ActiveEntities returns a snapshot of the active entity set in
// registration order.
func (s *Simulation) ActiveEntities() []*sim.Entity {
	return append([]*sim.Entity(nil), s.entities...)
}

// RouteEvent delivers a dequeued event to every active entity holding
// handlers for the event's name. Handler failures are isolated by the
// supervisor. The engine calls this for each event it pops.
func (s *Simulation) RouteEvent(evt *sim.Event) {
	targets := 0

	// Handlers may register or destroy entities while the event is being
	// delivered, so iterate over a snapshot.
	for _, ent := range s.ActiveEntities() {
		if !ent.HasEventHandler(evt.Name()) {
			continue
		}

		targets++
		s.supervisor.DispatchEvent(ent, evt)
	}

	if s.dataRecorder != nil {
		s.dataRecorder.InsertData(executedEventTableName, executedEvent{
			Tick:    int64(evt.Time()),
			Name:    evt.Name(),
			EventID: evt.ID(),
			Targets: targets,
		})
	}
}

// Run processes all scheduled events until the queue drains.
func (s *Simulation) Run() error {
	return s.engine.Run()
}

// Terminate terminates the simulation.
func (s *Simulation) Terminate() {
	s.engine.Finished()

	if s.runRecorder != nil {
		s.runRecorder.End()
	}

	if s.dataRecorder != nil {
		s.dataRecorder.Close()
	}
}
