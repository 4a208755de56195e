package util

import (
	"errors"
	"fmt"
)

// Error categories. Handlers map these onto HTTP statuses: validation and
// authorization failures are caught before any write is issued, persistence
// failures surface the store's message and leave nothing half-applied.
var (
	ErrValidation    = errors.New("validación")
	ErrAuthorization = errors.New("permiso denegado")
	ErrPersistence   = errors.New("persistencia")
)

var (
	ErrInvalidCredentials = errors.New("credenciales no válidas")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrRecordNotFound     = errors.New("registro no encontrado")
	ErrDuplicateCode      = errors.New("ya existe un SCORM con ese código")
	ErrDuplicateLanguage  = errors.New("ya existe una traducción con ese idioma y código")
	ErrMissingCode        = errors.New("el registro no tiene código SCORM")
	ErrInvalidChangeType  = errors.New("tipo de cambio no válido")
	ErrInvalidTransition  = errors.New("transición de estado no válida")
	ErrPublishForbidden   = errors.New("solo un administrador puede publicar")
)

// ValidationError wraps err so errors.Is(err, ErrValidation) holds.
func ValidationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// AuthorizationError wraps err so errors.Is(err, ErrAuthorization) holds.
func AuthorizationError(err error) error {
	return fmt.Errorf("%w: %w", ErrAuthorization, err)
}

// PersistenceError wraps a failed store call, keeping the driver's message.
func PersistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
