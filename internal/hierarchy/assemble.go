package hierarchy

// Assemble links every registered entity into its parent's Children and
// returns the roots. It runs in a single pass over the registry in
// registration order, so children keep the order in which they were
// registered; nothing is sorted.
//
// The first entity whose parent is not registered stops assembly with a
// DanglingReferenceError. Entities that cannot be reached from any root
// (a parent chain that loops back on itself) yield a CycleError. In both
// cases no roots are returned.
func Assemble(reg *Registry) ([]*Entity, error) {
	roots := []*Entity{}
	for _, e := range reg.Entities() {
		if e.ParentID == nil {
			roots = append(roots, e)
			continue
		}
		parent, ok := reg.Lookup(*e.ParentID)
		if !ok {
			return nil, &DanglingReferenceError{ID: e.ID, ParentID: *e.ParentID}
		}
		parent.Children = append(parent.Children, e)
	}

	if reached := countReachable(roots); reached != reg.Len() {
		return nil, &CycleError{ID: findCycle(reg, roots)}
	}
	return roots, nil
}

func countReachable(roots []*Entity) int {
	n := 0
	walk(roots, func(*Entity) { n++ })
	return n
}

// walk visits every entity reachable from roots.
func walk(roots []*Entity, fn func(*Entity)) {
	stack := append([]*Entity(nil), roots...)
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(e)
		stack = append(stack, e.Children...)
	}
}

// findCycle returns the id of an entity on a parent cycle. It starts from the
// first unreachable entity in registration order and follows parent links
// until one repeats.
func findCycle(reg *Registry, roots []*Entity) int64 {
	reached := make(map[int64]bool, reg.Len())
	walk(roots, func(e *Entity) { reached[e.ID] = true })

	for _, e := range reg.Entities() {
		if reached[e.ID] {
			continue
		}
		onPath := make(map[int64]bool)
		cur := e
		for !onPath[cur.ID] {
			onPath[cur.ID] = true
			// Unreachable entities always have a registered parent here.
			cur, _ = reg.Lookup(*cur.ParentID)
		}
		return cur.ID
	}
	return 0
}
