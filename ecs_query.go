package gallery

// Queries iterate entities in ascending id order so frame results are reproducible.
type Query1[A any] struct{ ecs *Ecs }
type Query2[A, B any] struct{ ecs *Ecs }
type Query3[A, B, C any] struct{ ecs *Ecs }

func MakeQuery1[A any](cmd *Commands) Query1[A]       { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B] { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] {
	return Query3[A, B, C]{ecs: cmd.app.ecs}
}

func (q Query1[A]) Map(m func(EntityId, *A) bool) {
	typeA := typeOf[A]()
	for _, eid := range q.ecs.sortedEntities(typeA) {
		a, ok := q.ecs.component(eid, typeA)
		if !ok {
			continue
		}
		if !m(eid, a.(*A)) {
			return
		}
	}
}

func (q Query1[A]) Count() int {
	return len(q.ecs.storage[typeOf[A]()])
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool) {
	typeA, typeB := typeOf[A](), typeOf[B]()
	for _, eid := range q.ecs.sortedEntities(typeA) {
		a, okA := q.ecs.component(eid, typeA)
		b, okB := q.ecs.component(eid, typeB)
		if !okA || !okB {
			continue
		}
		if !m(eid, a.(*A), b.(*B)) {
			return
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool) {
	typeA, typeB, typeC := typeOf[A](), typeOf[B](), typeOf[C]()
	for _, eid := range q.ecs.sortedEntities(typeA) {
		a, okA := q.ecs.component(eid, typeA)
		b, okB := q.ecs.component(eid, typeB)
		c, okC := q.ecs.component(eid, typeC)
		if !okA || !okB || !okC {
			continue
		}
		if !m(eid, a.(*A), b.(*B), c.(*C)) {
			return
		}
	}
}

// GetComponent returns the entity's component of type T, or nil.
func GetComponent[T any](cmd *Commands, eid EntityId) *T {
	c, ok := cmd.app.ecs.component(eid, typeOf[T]())
	if !ok {
		return nil
	}
	return c.(*T)
}
