package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/oklog/ulid/v2"
)

const (
	characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 12
)

// GenerateID gera o identificador curto usado por campanhas e conteúdos
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, idLength)
}

// NewSortableID returns a lexicographically time-ordered id for schedule entries.
func NewSortableID() string {
	return ulid.Make().String()
}
