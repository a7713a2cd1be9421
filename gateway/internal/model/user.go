package model

type UserStatus string

const (
	UserPending   UserStatus = "pendiente"
	UserActive    UserStatus = "activo"
	UserBlocked   UserStatus = "bloqueado"
	UserSuspended UserStatus = "suspendido"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "miembro"
)

type User struct {
	ID        ID         `json:"id"`
	Name      string     `json:"nombre"`
	Surname1  string     `json:"apellido1"`
	Surname2  string     `json:"apellido2,omitempty"`
	Email     string     `json:"email"`
	Phone     string     `json:"telefono"`
	Status    UserStatus `json:"estado"`
	Role      Role       `json:"rol"`
	CreatedAt string     `json:"created_at,omitempty"`
}

func (u User) FullName() string {
	name := u.Name
	if u.Surname1 != "" {
		name += " " + u.Surname1
	}
	if u.Surname2 != "" {
		name += " " + u.Surname2
	}
	return name
}

type UserUpdate struct {
	Name     string     `json:"nombre" validate:"required"`
	Surname1 string     `json:"apellido1" validate:"required"`
	Surname2 string     `json:"apellido2,omitempty"`
	Email    string     `json:"email" validate:"required,email"`
	Phone    string     `json:"telefono"`
	Status   UserStatus `json:"estado,omitempty" validate:"omitempty,oneof=pendiente activo bloqueado suspendido"`
	Role     Role       `json:"rol,omitempty" validate:"omitempty,oneof=admin miembro"`
}

// Registration is the body of POST /usuarios from the public sign-up form.
type Registration struct {
	Name     string     `json:"nombre" validate:"required"`
	Surname1 string     `json:"apellido1" validate:"required"`
	Surname2 string     `json:"apellido2,omitempty"`
	Email    string     `json:"email" validate:"required"`
	Phone    string     `json:"telefono" validate:"required"`
	Password string     `json:"password" validate:"required"`
	Confirm  string     `json:"password_confirmation" validate:"required"`
	Status   UserStatus `json:"estado,omitempty"`
	Role     Role       `json:"rol,omitempty"`
}
