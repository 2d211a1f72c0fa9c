package services

import (
	"time"

	"paw-connect/internal/domain/media"

	"github.com/shopspring/decimal"
)

// Service es una oferta publicada por un usuario (paseo, adiestramiento, ...).
type Service struct {
	ID        string
	ProfileID string

	Name        string
	Description string
	Price       decimal.Decimal
	// Times son códigos de franja horaria; el significado lo define el frontend.
	Times []int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Media es una imagen o video asociado a un servicio. Se borra en cascada con él.
type Media struct {
	ID        string
	ServiceID string
	Type      media.Kind
	URL       string
	CreatedAt time.Time
}
