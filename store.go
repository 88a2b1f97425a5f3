package lattice

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	viewStateObject   = "view"
	viewStateProperty = "state"
)

// ViewStateStore persists a MapView's ViewState between runs. With a nil
// gdata manager it keeps the state in memory only.
type ViewStateStore struct {
	manager *gdata.Manager
	state   ViewState
	saved   bool
}

// NewViewStateStore returns a store backed by manager, which may be nil.
// A previously saved state is loaded eagerly; a failed load is logged and
// leaves the store empty.
func NewViewStateStore(manager *gdata.Manager) *ViewStateStore {
	s := &ViewStateStore{manager: manager}
	if err := s.Load(); err != nil {
		logFor("store").WithError(err).Warn("view state not loaded")
	}
	return s
}

// Load reads the saved state, if any.
func (s *ViewStateStore) Load() error {
	if s.manager == nil || !s.manager.ObjectPropExists(viewStateObject, viewStateProperty) {
		return nil
	}
	data, err := s.manager.LoadObjectProp(viewStateObject, viewStateProperty)
	if err != nil {
		return fmt.Errorf("lattice: load view state: %w", err)
	}
	var st ViewState
	if err := yaml.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("lattice: decode view state: %w", err)
	}
	s.state, s.saved = st, true
	return nil
}

// Save stores st and writes it through the manager.
func (s *ViewStateStore) Save(st ViewState) error {
	s.state, s.saved = st, true
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("lattice: encode view state: %w", err)
	}
	if err := s.manager.SaveObjectProp(viewStateObject, viewStateProperty, data); err != nil {
		return fmt.Errorf("lattice: save view state: %w", err)
	}
	logFor("store").WithField("zoom", st.Zoom).Debug("view state saved")
	return nil
}

// State returns the last loaded or saved state.
func (s *ViewStateStore) State() (ViewState, bool) {
	return s.state, s.saved
}

// SaveView stores the current state of view.
func (s *ViewStateStore) SaveView(view *MapView) error {
	return s.Save(view.State())
}

// RestoreView applies the stored state to view and reports whether there
// was one.
func (s *ViewStateStore) RestoreView(view *MapView) bool {
	if !s.saved {
		return false
	}
	view.Restore(s.state)
	return true
}
