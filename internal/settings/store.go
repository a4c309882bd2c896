package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/marianozunino/uploadpro/internal/db"
	"github.com/marianozunino/uploadpro/internal/model"
)

// StorageKey is the durable storage key holding the settings blob
const StorageKey = "appSettings"

var (
	ErrUnknownPlan        = errors.New("unknown plan")
	ErrUnknownPage        = errors.New("unknown page")
	ErrInvalidPageContent = errors.New("invalid content for page")
)

// Observer is notified after every update with copies of the previous and new state
type Observer func(old, new model.AppState)

// Store owns the site configuration and is the only writer of StorageKey
type Store struct {
	storage db.Storage

	mu       sync.RWMutex
	state    model.AppState
	revision uint64

	obsMu     sync.Mutex
	nextObs   int
	observers map[int]Observer
}

// New loads the stored blob and reconciles it over the defaults. A missing or
// unreadable blob is logged and the store starts from the defaults.
func New(storage db.Storage) *Store {
	s := &Store{
		storage:   storage,
		state:     Defaults(),
		observers: make(map[int]Observer),
	}

	raw, err := storage.Get(StorageKey)
	switch {
	case errors.Is(err, db.ErrNotFound):
	case err != nil:
		log.Printf("Warning: Failed to read settings: %v", err)
	default:
		state, err := Reconcile([]byte(raw))
		if err != nil {
			log.Printf("Warning: %v", err)
		} else {
			s.state = state
		}
	}
	return s
}

// Settings returns a copy of the site settings
func (s *Store) Settings() model.SiteSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Settings.Clone()
}

// Ads returns a copy of the ad slot list
func (s *Store) Ads() []model.AdConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.AdConfig(nil), s.state.Ads...)
}

// AdByID looks up one ad slot
func (s *Store) AdByID(id string) (model.AdConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ad := range s.state.Ads {
		if ad.ID == id {
			return ad, true
		}
	}
	return model.AdConfig{}, false
}

func (s *Store) Pages() model.PageContent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Pages
}

func (s *Store) Subscriptions() model.SubscriptionSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Subscriptions.Clone()
}

// Snapshot returns a deep copy of the whole state
func (s *Store) Snapshot() model.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Revision increases by one on every update
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// UpdateSettings merges the fields set in p
func (s *Store) UpdateSettings(p SettingsPatch) {
	s.update(func(state *model.AppState) error {
		p.apply(&state.Settings)
		return nil
	})
}

// UpdateAds replaces the ad slot list
func (s *Store) UpdateAds(ads []model.AdConfig) {
	s.update(func(state *model.AppState) error {
		state.Ads = append([]model.AdConfig(nil), ads...)
		return nil
	})
}

// UpdatePageContent replaces one static page. About and privacy take a string,
// contact takes a model.ContactPageContent.
func (s *Store) UpdatePageContent(key model.PageKey, content any) error {
	return s.update(func(state *model.AppState) error {
		switch key {
		case model.PageKeyAbout, model.PageKeyPrivacy:
			html, ok := content.(string)
			if !ok {
				return fmt.Errorf("%w %s: %T", ErrInvalidPageContent, key, content)
			}
			if key == model.PageKeyAbout {
				state.Pages.About = html
			} else {
				state.Pages.Privacy = html
			}
		case model.PageKeyContact:
			contact, ok := content.(model.ContactPageContent)
			if !ok {
				return fmt.Errorf("%w %s: %T", ErrInvalidPageContent, key, content)
			}
			state.Pages.Contact = contact
		default:
			return fmt.Errorf("%w: %s", ErrUnknownPage, key)
		}
		return nil
	})
}

// UpdateSubscriptions replaces the collections set in p
func (s *Store) UpdateSubscriptions(p SubscriptionsPatch) {
	s.update(func(state *model.AppState) error {
		p.apply(&state.Subscriptions)
		return nil
	})
}

// SetPopularPlan flags one plan as popular and clears every other plan
func (s *Store) SetPopularPlan(id string) error {
	return s.update(func(state *model.AppState) error {
		if !state.Subscriptions.MarkPopular(id) {
			return fmt.Errorf("%w: %s", ErrUnknownPlan, id)
		}
		return nil
	})
}

// Import reconciles an exported blob over the defaults and replaces the state with it
func (s *Store) Import(raw []byte) error {
	state, err := Reconcile(raw)
	if err != nil {
		return err
	}
	return s.update(func(current *model.AppState) error {
		*current = state
		return nil
	})
}

// Export serializes the state in the stored format
func (s *Store) Export() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.MarshalIndent(s.state, "", "  ")
}

// Subscribe registers an observer. The returned function removes it.
func (s *Store) Subscribe(fn Observer) func() {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

// update mutates a copy of the state, persists the result and notifies observers.
// A persistence failure is logged and the in-memory change is kept.
func (s *Store) update(mutate func(*model.AppState) error) error {
	s.mu.Lock()
	old := s.state.Clone()
	next := s.state.Clone()
	if err := mutate(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = next
	s.revision++
	s.persistLocked()
	updated := s.state.Clone()
	s.mu.Unlock()

	s.notify(old, updated)
	return nil
}

func (s *Store) persistLocked() {
	data, err := json.Marshal(s.state)
	if err != nil {
		log.Printf("Error: Failed to encode settings: %v", err)
		return
	}
	if err := s.storage.Set(StorageKey, string(data)); err != nil {
		log.Printf("Error: Failed to save settings: %v", err)
	}
}

func (s *Store) notify(old, updated model.AppState) {
	s.obsMu.Lock()
	observers := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range observers {
		fn(old, updated)
	}
}
