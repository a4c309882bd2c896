package locale

import (
	"errors"
	"fmt"
	"log"

	"github.com/marianozunino/uploadpro/internal/db"
)

const preferencePrefix = "locale:"

// Preferences persists the locale chosen by each visitor
type Preferences struct {
	storage  db.Storage
	fallback string
}

func NewPreferences(storage db.Storage, fallback string) *Preferences {
	if !Supported(fallback) {
		fallback = Default
	}
	return &Preferences{storage: storage, fallback: fallback}
}

// Get returns the stored locale of a visitor, or the fallback when none is stored
// or the stored value is not supported
func (p *Preferences) Get(visitor string) string {
	l, err := p.storage.Get(preferencePrefix + visitor)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			log.Printf("Warning: Failed to read locale preference: %v", err)
		}
		return p.fallback
	}
	if !Supported(l) {
		return p.fallback
	}
	return l
}

// Set validates and stores a visitor's locale. Write failures are logged only.
func (p *Preferences) Set(visitor, l string) error {
	if !Supported(l) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLocale, l)
	}
	if err := p.storage.Set(preferencePrefix+visitor, l); err != nil {
		log.Printf("Error: Failed to save locale preference: %v", err)
	}
	return nil
}

// Forget removes a visitor's stored preference
func (p *Preferences) Forget(visitor string) error {
	return p.storage.Delete(preferencePrefix + visitor)
}
