package aggregates

import (
	"time"

	"canvas-backend/domain/events"
)

// Z-order is the slice position: later objects draw on top. These operations
// reorder the sequence without touching any object fields other than
// UpdatedAt on the moved object.

// BringToFront moves an object to the end of the sequence
func (s *Scene) BringToFront(id string) bool {
	return s.moveTo(id, len(s.objects)-1)
}

// SendToBack moves an object to the start of the sequence
func (s *Scene) SendToBack(id string) bool {
	return s.moveTo(id, 0)
}

// MoveForward swaps an object with its upper neighbor
func (s *Scene) MoveForward(id string) bool {
	i := s.IndexOf(id)
	if i < 0 || i == len(s.objects)-1 {
		return false
	}
	return s.moveTo(id, i+1)
}

// MoveBackward swaps an object with its lower neighbor
func (s *Scene) MoveBackward(id string) bool {
	i := s.IndexOf(id)
	if i <= 0 {
		return false
	}
	return s.moveTo(id, i-1)
}

func (s *Scene) moveTo(id string, target int) bool {
	i := s.IndexOf(id)
	if i < 0 || target < 0 || target >= len(s.objects) || i == target {
		return false
	}
	obj := s.objects[i]
	s.objects = append(s.objects[:i], s.objects[i+1:]...)
	s.objects = append(s.objects, nil)
	copy(s.objects[target+1:], s.objects[target:])
	s.objects[target] = obj
	obj.UpdatedAt = time.Now()
	s.addEvent(events.NewObjectUpdated(id, obj.UpdatedAt))
	return true
}

// OrderedIDs returns the object ids in z-order
func (s *Scene) OrderedIDs() []string {
	ids := make([]string, len(s.objects))
	for i, o := range s.objects {
		ids[i] = o.ID
	}
	return ids
}
