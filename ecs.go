package gallery

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

type EntityId uint64

// Ecs stores components per type, keyed by entity. Every stored value is a pointer to
// its component struct so queries can hand out stable references.
type Ecs struct {
	idGeneratorLock sync.Mutex
	entityIdCounter EntityId

	entities map[EntityId]struct{}
	storage  map[reflect.Type]map[EntityId]any
}

func MakeEcs() Ecs {
	return Ecs{
		entityIdCounter: EntityId(1),
		entities:        make(map[EntityId]struct{}),
		storage:         make(map[reflect.Type]map[EntityId]any),
	}
}

func (ecs *Ecs) addEntity(components ...any) EntityId {
	entityId := ecs.nextEntityId()
	ecs.insertEntity(entityId, components...)
	return entityId
}

func (ecs *Ecs) insertEntity(entityId EntityId, components ...any) {
	ecs.entities[entityId] = struct{}{}
	for _, component := range components {
		ecs.writeComponent(entityId, component)
	}
}

func (ecs *Ecs) addComponents(entityId EntityId, components ...any) {
	if _, ok := ecs.entities[entityId]; !ok {
		return
	}
	for _, component := range components {
		ecs.writeComponent(entityId, component)
	}
}

func (ecs *Ecs) removeComponents(entityId EntityId, components ...any) {
	for _, component := range components {
		componentType := reflect.TypeOf(component)
		if componentType.Kind() == reflect.Pointer {
			componentType = componentType.Elem()
		}
		if byEntity, ok := ecs.storage[componentType]; ok {
			delete(byEntity, entityId)
		}
	}
}

func (ecs *Ecs) removeEntity(entityId EntityId) {
	delete(ecs.entities, entityId)
	for _, byEntity := range ecs.storage {
		delete(byEntity, entityId)
	}
}

func (ecs *Ecs) hasEntity(entityId EntityId) bool {
	_, ok := ecs.entities[entityId]
	return ok
}

func (ecs *Ecs) entityCount() int {
	return len(ecs.entities)
}

func (ecs *Ecs) writeComponent(entityId EntityId, component any) {
	componentType, ptr := componentPointer(component)

	byEntity, ok := ecs.storage[componentType]
	if !ok {
		byEntity = make(map[EntityId]any)
		ecs.storage[componentType] = byEntity
	}
	byEntity[entityId] = ptr
}

func (ecs *Ecs) component(entityId EntityId, componentType reflect.Type) (any, bool) {
	byEntity, ok := ecs.storage[componentType]
	if !ok {
		return nil, false
	}
	ptr, ok := byEntity[entityId]
	return ptr, ok
}

// allComponents returns component values (not pointers), ordered by type name.
func (ecs *Ecs) allComponents(entityId EntityId) []any {
	types := make([]reflect.Type, 0, len(ecs.storage))
	for t, byEntity := range ecs.storage {
		if _, ok := byEntity[entityId]; ok {
			types = append(types, t)
		}
	}
	slices.SortFunc(types, func(a, b reflect.Type) int {
		switch {
		case a.String() < b.String():
			return -1
		case a.String() > b.String():
			return 1
		}
		return 0
	})

	res := make([]any, 0, len(types))
	for _, t := range types {
		res = append(res, reflect.ValueOf(ecs.storage[t][entityId]).Elem().Interface())
	}
	return res
}

func (ecs *Ecs) sortedEntities(componentType reflect.Type) []EntityId {
	byEntity := ecs.storage[componentType]
	ids := make([]EntityId, 0, len(byEntity))
	for id := range byEntity {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (ecs *Ecs) nextEntityId() EntityId {
	ecs.idGeneratorLock.Lock()
	defer ecs.idGeneratorLock.Unlock()

	id := ecs.entityIdCounter
	ecs.entityIdCounter += 1

	return id
}

// componentPointer normalizes a component to (struct type, pointer to struct). Struct
// values are copied into fresh storage.
func componentPointer(component any) (reflect.Type, any) {
	value := reflect.ValueOf(component)
	switch {
	case value.Kind() == reflect.Pointer && value.Elem().Kind() == reflect.Struct:
		return value.Type().Elem(), component
	case value.Kind() == reflect.Struct:
		ptr := reflect.New(value.Type())
		ptr.Elem().Set(value)
		return value.Type(), ptr.Interface()
	}
	panic(fmt.Errorf("expected Component to be a struct or a pointer to a struct, got %s", value.Kind()))
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
