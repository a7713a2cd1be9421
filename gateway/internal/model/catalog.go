package model

type Composition struct {
	ID       ID     `json:"id"`
	Title    string `json:"titulo" validate:"required"`
	Composer string `json:"compositor"`
	Type     string `json:"tipo"`
	Year     *int   `json:"anio,omitempty"`
	ScoreURL string `json:"url_partitura,omitempty" validate:"omitempty,url"`
	Notes    string `json:"notas,omitempty"`
}

// Entity is an external organization the band works with.
type Entity struct {
	ID      ID     `json:"id"`
	Name    string `json:"nombre" validate:"required"`
	Type    string `json:"tipo"`
	Contact string `json:"persona_contacto"`
	Phone   string `json:"telefono"`
	Email   string `json:"email" validate:"omitempty,email"`
}
