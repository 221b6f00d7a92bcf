// Package templates lists the certificate designs an issuer can choose from.
package templates

import (
	"errors"
	"strings"

	"certify-backend/internal/domain"
)

var ErrUnknownTemplate = errors.New("Unknown certificate template")

var builtin = []domain.Template{
	{ID: "1", Name: "Professional Blue", Description: "Classic professional design with blue accents", Preview: "bg-gradient-to-br from-blue-600 to-blue-800"},
	{ID: "2", Name: "Modern Minimal", Description: "Clean and minimal design with modern typography", Preview: "bg-gradient-to-br from-gray-100 to-gray-200"},
	{ID: "3", Name: "Gold Premium", Description: "Elegant design with gold accents", Preview: "bg-gradient-to-br from-yellow-600 to-yellow-800"},
	{ID: "4", Name: "Green Eco", Description: "Sustainable design with green theme", Preview: "bg-gradient-to-br from-green-600 to-green-800"},
}

// Catalog is a read-only set of templates keyed by id.
type Catalog struct {
	items []domain.Template
	byID  map[string]domain.Template
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(builtin)
}

func New(items []domain.Template) *Catalog {
	c := &Catalog{items: append([]domain.Template(nil), items...), byID: make(map[string]domain.Template, len(items))}
	for _, t := range c.items {
		c.byID[t.ID] = t
	}
	return c
}

// All returns the templates in display order.
func (c *Catalog) All() []domain.Template {
	return append([]domain.Template(nil), c.items...)
}

// Get resolves an id; surrounding whitespace is ignored.
func (c *Catalog) Get(id string) (domain.Template, error) {
	t, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return domain.Template{}, ErrUnknownTemplate
	}
	return t, nil
}
