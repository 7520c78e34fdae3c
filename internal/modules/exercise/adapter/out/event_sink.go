package out

import (
	"sync"

	"exlog/internal/modules/exercise/domain"
	exercisedto "exlog/internal/modules/exercise/dto"
)

// EventSink buffers presentation effects for an interactive front end that
// drains them after each call.
type EventSink struct {
	mu     sync.Mutex
	events []exercisedto.Event
}

func NewEventSink() *EventSink {
	return &EventSink{}
}

func (s *EventSink) push(e exercisedto.Event) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

func (s *EventSink) RenderRecord(record *domain.Record) {
	s.push(exercisedto.Event{Kind: exercisedto.EventListEntry, Record: exercisedto.FromRecord(record)})
}

func (s *EventSink) PlaceMarker(record *domain.Record) {
	c := record.Coordinates()
	s.push(exercisedto.Event{Kind: exercisedto.EventMarker, Record: exercisedto.FromRecord(record), Lat: c.Lat, Lng: c.Lng})
}

func (s *EventSink) ClearForm() {
	s.push(exercisedto.Event{Kind: exercisedto.EventClearForm})
}

func (s *EventSink) FocusOn(coords domain.Coordinates, zoom int) {
	s.push(exercisedto.Event{Kind: exercisedto.EventFocus, Lat: coords.Lat, Lng: coords.Lng, Zoom: zoom})
}

func (s *EventSink) Reload() {
	s.push(exercisedto.Event{Kind: exercisedto.EventReload})
}

func (s *EventSink) Alert(message string) {
	s.push(exercisedto.Event{Kind: exercisedto.EventAlert, Message: message})
}

// Drain returns buffered events in emission order and empties the buffer.
func (s *EventSink) Drain() []exercisedto.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.events
	s.events = nil
	return out
}
