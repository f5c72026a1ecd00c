package sucursales

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
)

// SucursalDTO is the wire shape of a branch.
type SucursalDTO struct {
	ID        uuid.UUID `json:"id"`
	Nombre    string    `json:"nombre"`
	Direccion string    `json:"direccion"`
	Telefono  string    `json:"telefono"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SucursalRequest struct {
	Nombre    string `json:"nombre" validate:"required,max=120"`
	Direccion string `json:"direccion" validate:"required,max=300"`
	Telefono  string `json:"telefono" validate:"required,max=32"`
}

func FromModel(s *models.Sucursal) *SucursalDTO {
	if s == nil {
		return nil
	}
	return &SucursalDTO{
		ID:        s.ID,
		Nombre:    s.Nombre,
		Direccion: s.Direccion,
		Telefono:  s.Telefono,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
