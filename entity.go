package stockroom

// entityManager issues UIDs from [0, maxEntities) and tracks each UID's
// archetype. Retired UIDs go on a free list and are reused before the range
// is exhausted by fresh ones.
type entityManager struct {
	maxEntities int
	nextFresh   UID
	free        []UID
	active      []bool
	archetypes  []Archetype
	// dense list of active UIDs with positions for O(1) removal
	entities []UID
	position []int
}

func newEntityManager(maxEntities int) *entityManager {
	if maxEntities < 0 {
		maxEntities = 0
	}
	return &entityManager{
		maxEntities: maxEntities,
		active:      make([]bool, maxEntities),
		archetypes:  make([]Archetype, maxEntities),
		entities:    make([]UID, 0, maxEntities),
		position:    make([]int, maxEntities),
	}
}

func (em *entityManager) addEntity() (UID, error) {
	var uid UID
	switch {
	case len(em.free) > 0:
		uid = em.free[len(em.free)-1]
		em.free = em.free[:len(em.free)-1]
	case int(em.nextFresh) < em.maxEntities:
		uid = em.nextFresh
		em.nextFresh++
	default:
		return InvalidUID, EntityCapacityError{Max: em.maxEntities}
	}
	em.active[uid] = true
	em.archetypes[uid] = Archetype{}
	em.position[uid] = len(em.entities)
	em.entities = append(em.entities, uid)
	return uid, nil
}

// removeEntity deactivates uid and returns the archetype it held. Component
// storage is left to the caller.
func (em *entityManager) removeEntity(uid UID) (Archetype, bool) {
	if !em.isActive(uid) {
		return Archetype{}, false
	}
	arch := em.archetypes[uid]
	em.active[uid] = false
	em.archetypes[uid] = Archetype{}

	pos := em.position[uid]
	last := len(em.entities) - 1
	if pos != last {
		moved := em.entities[last]
		em.entities[pos] = moved
		em.position[moved] = pos
	}
	em.entities = em.entities[:last]
	em.free = append(em.free, uid)
	return arch, true
}

func (em *entityManager) isActive(uid UID) bool {
	return int(uid) < em.maxEntities && em.active[uid]
}

func (em *entityManager) archetype(uid UID) Archetype {
	if !em.isActive(uid) {
		return ErrorSignature
	}
	return em.archetypes[uid]
}

func (em *entityManager) setArchetype(uid UID, arch Archetype) {
	if em.isActive(uid) {
		em.archetypes[uid] = arch
	}
}

func (em *entityManager) count() int {
	return len(em.entities)
}

// activeEntities returns the live dense list; callers must not modify it.
func (em *entityManager) activeEntities() []UID {
	return em.entities
}

func (em *entityManager) clone() *entityManager {
	c := &entityManager{
		maxEntities: em.maxEntities,
		nextFresh:   em.nextFresh,
		free:        append([]UID(nil), em.free...),
		active:      append([]bool(nil), em.active...),
		archetypes:  append([]Archetype(nil), em.archetypes...),
		entities:    make([]UID, len(em.entities), em.maxEntities),
		position:    append([]int(nil), em.position...),
	}
	copy(c.entities, em.entities)
	return c
}
