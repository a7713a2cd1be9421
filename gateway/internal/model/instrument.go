package model

type InstrumentStatus string

const (
	InstrumentAvailable      InstrumentStatus = "disponible"
	InstrumentLoaned         InstrumentStatus = "prestado"
	InstrumentRepair         InstrumentStatus = "reparacion"
	InstrumentDecommissioned InstrumentStatus = "baja"
)

func (s InstrumentStatus) Valid() bool {
	switch s {
	case InstrumentAvailable, InstrumentLoaned, InstrumentRepair, InstrumentDecommissioned:
		return true
	}
	return false
}

type Instrument struct {
	Serial Serial           `json:"num_serie"`
	TypeID string           `json:"instrumento_tipo_id"`
	Status InstrumentStatus `json:"estado"`
}

// InstrumentType keeps a manually maintained counter of its instruments.
type InstrumentType struct {
	ID       string `json:"instrumento"`
	Quantity int    `json:"cantidad"`
}

// Loan is keyed by (serial, user). An empty return date marks it active.
type Loan struct {
	Serial     Serial `json:"num_serie"`
	UserID     ID     `json:"usuario_id"`
	LoanDate   string `json:"fecha_prestamo"`
	ReturnDate string `json:"fecha_devolucion"`
}

func (l Loan) Active() bool {
	return l.ReturnDate == ""
}

// InstrumentInput is what the instrument form submits.
type InstrumentInput struct {
	Serial Serial           `json:"num_serie" validate:"required"`
	TypeID string           `json:"instrumento_tipo_id" validate:"required"`
	Status InstrumentStatus `json:"estado" validate:"required,oneof=disponible prestado reparacion baja"`
	UserID ID               `json:"usuario_id"`
}
