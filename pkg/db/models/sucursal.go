package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sucursal is a store branch.
type Sucursal struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Nombre    string    `gorm:"column:nombre;not null"`
	Direccion string    `gorm:"column:direccion;not null"`
	Telefono  string    `gorm:"column:telefono;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Sucursal) TableName() string { return "sucursales" }

func (s *Sucursal) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}
