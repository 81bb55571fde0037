// Package store provides an in-memory records.Store implementation
// for tests and development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/forma/training-engine/records"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	settings  *records.Settings
	operators map[records.OperatorID]records.Operator
	modules   map[records.ModuleID]records.Module
	clients   map[records.ClientID]records.Client
	locations map[records.LocationID]records.Location
	offers    map[records.OfferID]records.Offer
	sessions  map[records.SessionID]records.Session
}

var _ records.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		operators: make(map[records.OperatorID]records.Operator),
		modules:   make(map[records.ModuleID]records.Module),
		clients:   make(map[records.ClientID]records.Client),
		locations: make(map[records.LocationID]records.Location),
		offers:    make(map[records.OfferID]records.Offer),
		sessions:  make(map[records.SessionID]records.Session),
	}
}

// =============================================================================
// SETTINGS
// =============================================================================

func (m *Memory) Settings(_ context.Context) (records.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings == nil {
		return records.Settings{}, records.ErrNotFound
	}
	return *m.settings, nil
}

func (m *Memory) SaveSettings(_ context.Context, s records.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &s
	return nil
}

// =============================================================================
// OPERATORS
// =============================================================================

func (m *Memory) ListOperators(_ context.Context) ([]records.Operator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]records.Operator, 0, len(m.operators))
	for _, o := range m.operators {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetOperator(_ context.Context, id records.OperatorID) (records.Operator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.operators[id]
	if !ok {
		return records.Operator{}, records.ErrNotFound
	}
	return o, nil
}

func (m *Memory) PutOperator(_ context.Context, o records.Operator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operators[o.ID] = o
	return nil
}

func (m *Memory) DeleteOperator(_ context.Context, id records.OperatorID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.operators, id)
	return nil
}

// =============================================================================
// MODULES
// =============================================================================

func (m *Memory) ListModules(_ context.Context) ([]records.Module, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]records.Module, 0, len(m.modules))
	for _, mod := range m.modules {
		out = append(out, mod)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetModule(_ context.Context, id records.ModuleID) (records.Module, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mod, ok := m.modules[id]
	if !ok {
		return records.Module{}, records.ErrNotFound
	}
	return mod, nil
}

func (m *Memory) PutModule(_ context.Context, mod records.Module) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modules[mod.ID] = mod
	return nil
}

func (m *Memory) DeleteModule(_ context.Context, id records.ModuleID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.modules, id)
	return nil
}

// =============================================================================
// CLIENTS
// =============================================================================

func (m *Memory) ListClients(_ context.Context) ([]records.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]records.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetClient(_ context.Context, id records.ClientID) (records.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[id]
	if !ok {
		return records.Client{}, records.ErrNotFound
	}
	return c, nil
}

func (m *Memory) PutClient(_ context.Context, c records.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[c.ID] = c
	return nil
}

func (m *Memory) DeleteClient(_ context.Context, id records.ClientID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.clients, id)
	return nil
}

// =============================================================================
// LOCATIONS
// =============================================================================

func (m *Memory) ListLocations(_ context.Context) ([]records.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]records.Location, 0, len(m.locations))
	for _, l := range m.locations {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetLocation(_ context.Context, id records.LocationID) (records.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.locations[id]
	if !ok {
		return records.Location{}, records.ErrNotFound
	}
	return l, nil
}

func (m *Memory) PutLocation(_ context.Context, l records.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[l.ID] = l
	return nil
}

func (m *Memory) DeleteLocation(_ context.Context, id records.LocationID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locations, id)
	return nil
}

// =============================================================================
// OFFERS
// =============================================================================

func (m *Memory) ListOffers(_ context.Context) ([]records.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]records.Offer, 0, len(m.offers))
	for _, o := range m.offers {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetOffer(_ context.Context, id records.OfferID) (records.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.offers[id]
	if !ok {
		return records.Offer{}, records.ErrNotFound
	}
	return o, nil
}

func (m *Memory) PutOffer(_ context.Context, o records.Offer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offers[o.ID] = o
	return nil
}

func (m *Memory) DeleteOffer(_ context.Context, id records.OfferID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.offers, id)
	return nil
}

// =============================================================================
// SESSIONS
// =============================================================================

func (m *Memory) ListSessions(_ context.Context) ([]records.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]records.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	// Chronological, then by id for same-instant sessions.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) GetSession(_ context.Context, id records.SessionID) (records.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return records.Session{}, records.ErrNotFound
	}
	return s, nil
}

func (m *Memory) PutSession(_ context.Context, s records.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *Memory) DeleteSession(_ context.Context, id records.SessionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
