package model

type EventType string

const (
	EventConcert    EventType = "concierto"
	EventRehearsal  EventType = "ensayo"
	EventProcession EventType = "procesion"
	EventParade     EventType = "pasacalles"
)

type EventStatus string

const (
	EventPlanned    EventStatus = "planificado"
	EventInProgress EventStatus = "en_curso"
	EventFinished   EventStatus = "finalizado"
)

type Event struct {
	ID       ID          `json:"id"`
	Name     string      `json:"nombre" validate:"required"`
	Type     EventType   `json:"tipo" validate:"required,oneof=concierto ensayo procesion pasacalles"`
	Date     string      `json:"fecha" validate:"required"`
	Time     string      `json:"hora"`
	Place    string      `json:"lugar"`
	Status   EventStatus `json:"estado" validate:"omitempty,oneof=planificado en_curso finalizado"`
	EntityID *ID         `json:"entidad_id,omitempty"`
	// SweepFailed marks events finalized locally after the backend update failed.
	SweepFailed bool `json:"-"`
}
