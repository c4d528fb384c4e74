package sim

// Entity is embedded by simulation objects that schedule events against
// themselves and listen for events. It carries no domain logic.
type Entity struct {
	sim *Simulator
	id  EntityID
}

// NewEntity allocates a fresh entity identity on sim.
func NewEntity(sim *Simulator) Entity {
	return Entity{sim: sim, id: sim.NewEntityID()}
}

// EntityID returns the engine-level identifier events are targeted at.
func (e *Entity) EntityID() EntityID {
	return e.id
}

// Now returns the simulation time of the owning simulator.
func (e *Entity) Now() float64 {
	return e.sim.Now()
}

// ScheduleAfter schedules an event of type t targeted at this entity.
func (e *Entity) ScheduleAfter(delay float64, t EventType) (EventHandle, error) {
	return e.sim.Schedule(delay, t, e.id)
}

// Cancel cancels an event previously scheduled through any entity.
func (e *Entity) Cancel(h EventHandle) {
	e.sim.Cancel(h)
}

// Wait subscribes h to events of type t targeted at this entity only.
func (e *Entity) Wait(t EventType, h Handler) {
	e.sim.Subscribe(t, h, e.id)
}

// WaitAny subscribes h to events of type t regardless of target.
func (e *Entity) WaitAny(t EventType, h Handler) {
	e.sim.Subscribe(t, h, 0)
}

// Dismiss drops this entity's scoped subscriptions for the given types.
func (e *Entity) Dismiss(types ...EventType) {
	for _, t := range types {
		e.sim.Unsubscribe(t, e.id)
	}
}
