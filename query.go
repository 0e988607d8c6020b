package stockroom

import (
	"maps"
	"reflect"
	"slices"

	iter_util "github.com/TheBitDrifter/util/iter"
)

// QueryID names a registered archetype query.
type QueryID int

// ErrorQuery is returned when a query cannot be registered.
const ErrorQuery QueryID = -1

// EntitySet is the live, unordered membership of a query. It is owned by the
// query manager; callers must not modify it.
type EntitySet map[UID]struct{}

func (s EntitySet) Has(uid UID) bool {
	_, ok := s[uid]
	return ok
}

func (s EntitySet) Len() int {
	return len(s)
}

// Slice returns the members in ascending order.
func (s EntitySet) Slice() []UID {
	out := iter_util.Collect(maps.Keys(s))
	slices.Sort(out)
	return out
}

// querySignature matches archetypes holding every required type and none of
// the excluded ones.
type querySignature struct {
	required Signature
	excluded Signature
}

func (q querySignature) matches(arch Archetype) bool {
	return arch.Supports(q.required) && arch.Excludes(q.excluded)
}

type queryRecord struct {
	signature querySignature
	entities  EntitySet
}

// queryManager keeps each query's membership current as archetypes change.
type queryManager struct {
	queries []queryRecord
	ids     map[querySignature]QueryID
	empty   EntitySet
}

func newQueryManager() *queryManager {
	return &queryManager{
		ids:   make(map[querySignature]QueryID),
		empty: EntitySet{},
	}
}

// addArchetypeQuery registers sig, seeding its membership from the entities
// that already exist. Registering an identical signature returns the same id.
func (qm *queryManager) addArchetypeQuery(sig querySignature, em *entityManager) (QueryID, error) {
	if sig.required.Empty() {
		return ErrorQuery, EmptyQueryError{}
	}
	if id, ok := qm.ids[sig]; ok {
		return id, nil
	}
	record := queryRecord{signature: sig, entities: EntitySet{}}
	for _, uid := range em.activeEntities() {
		if sig.matches(em.archetype(uid)) {
			record.entities[uid] = struct{}{}
		}
	}
	id := QueryID(len(qm.queries))
	qm.queries = append(qm.queries, record)
	qm.ids[sig] = id
	return id, nil
}

// moveEntity updates every query whose match state differs between from and
// to. Cost is linear in the number of queries, not entities.
func (qm *queryManager) moveEntity(uid UID, from, to Archetype) {
	for i := range qm.queries {
		q := &qm.queries[i]
		was, is := q.signature.matches(from), q.signature.matches(to)
		switch {
		case !was && is:
			q.entities[uid] = struct{}{}
		case was && !is:
			delete(q.entities, uid)
		}
	}
}

func (qm *queryManager) archetypeEntities(id QueryID) EntitySet {
	if id < 0 || int(id) >= len(qm.queries) {
		return qm.empty
	}
	return qm.queries[id].entities
}

func (qm *queryManager) clone() *queryManager {
	c := &queryManager{
		queries: make([]queryRecord, len(qm.queries)),
		ids:     maps.Clone(qm.ids),
		empty:   EntitySet{},
	}
	for i, q := range qm.queries {
		c.queries[i] = queryRecord{signature: q.signature, entities: maps.Clone(q.entities)}
	}
	return c
}

type query struct {
	required []reflect.Type
	excluded []reflect.Type
}

func newQuery() Query {
	return &query{}
}

func (q *query) And(items ...ComponentType) Query {
	for _, item := range items {
		q.required = append(q.required, item.Type())
	}
	return q
}

func (q *query) Not(items ...ComponentType) Query {
	for _, item := range items {
		q.excluded = append(q.excluded, item.Type())
	}
	return q
}

func (q *query) Required() []reflect.Type {
	return q.required
}

func (q *query) Excluded() []reflect.Type {
	return q.excluded
}
