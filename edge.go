package stockroom

// Edge relates an edge entity to one or two node entities. A node field is
// InvalidUID when unset or when its node has been removed.
type Edge struct {
	NodeA UID
	NodeB UID
}

// AddEdge creates an edge entity between two active node entities.
func (a *Allocator) AddEdge(nodeA, nodeB UID) (UID, error) {
	for _, node := range []UID{nodeA, nodeB} {
		if !a.Active(node) {
			return InvalidUID, InactiveEntityError{UID: node}
		}
	}
	return a.addEdge(Edge{NodeA: nodeA, NodeB: nodeB})
}

// AddEdgeTo creates an edge entity attached to a single node.
func (a *Allocator) AddEdgeTo(node UID) (UID, error) {
	if !a.Active(node) {
		return InvalidUID, InactiveEntityError{UID: node}
	}
	return a.addEdge(Edge{NodeA: node, NodeB: InvalidUID})
}

func (a *Allocator) addEdge(e Edge) (UID, error) {
	uid, err := a.AddEntity()
	if err != nil {
		return InvalidUID, err
	}
	if err := Add(a, uid, e); err != nil {
		_ = a.RemoveEntity(uid)
		return InvalidUID, err
	}
	return uid, nil
}

// GetEdge reports false when uid is not an edge entity.
func (a *Allocator) GetEdge(uid UID) (Edge, bool) {
	e := Get[Edge](a, uid)
	if e == nil {
		return Edge{NodeA: InvalidUID, NodeB: InvalidUID}, false
	}
	return *e, true
}

// UpdateEdge points an existing edge entity at new nodes. Inactive nodes are
// stored as InvalidUID.
func (a *Allocator) UpdateEdge(uid, nodeA, nodeB UID) (Edge, error) {
	if !Has[Edge](a, uid) {
		return Edge{NodeA: InvalidUID, NodeB: InvalidUID}, ComponentNotFoundError{Type: AccessibleComponent[Edge]{}.Type(), UID: uid}
	}
	e := Edge{NodeA: a.nodeOrInvalid(nodeA), NodeB: a.nodeOrInvalid(nodeB)}
	if err := Update(a, uid, e); err != nil {
		return Edge{NodeA: InvalidUID, NodeB: InvalidUID}, err
	}
	return e, nil
}

func (a *Allocator) nodeOrInvalid(uid UID) UID {
	if a.Active(uid) {
		return uid
	}
	return InvalidUID
}

// removeNodeEntityFromEdges severs every edge that referenced a removed node.
func (a *Allocator) removeNodeEntityFromEdges(node UID) {
	for uid := range a.QueryEntities(a.edgeQuery) {
		e := Get[Edge](a, uid)
		if e == nil {
			continue
		}
		if e.NodeA == node {
			e.NodeA = InvalidUID
		}
		if e.NodeB == node {
			e.NodeB = InvalidUID
		}
	}
}
