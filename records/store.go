package records

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get* methods when no record matches.
var ErrNotFound = errors.New("record not found")

// =============================================================================
// STORE - Persistence collaborator interface
// =============================================================================

// Store is what the persistence layer provides. The engine itself only
// ever reads through a Snapshot; writes are driven by the API layer.
type Store interface {
	// Settings returns the single settings record, ErrNotFound before
	// first initialization.
	Settings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error

	ListOperators(ctx context.Context) ([]Operator, error)
	GetOperator(ctx context.Context, id OperatorID) (Operator, error)
	PutOperator(ctx context.Context, o Operator) error
	DeleteOperator(ctx context.Context, id OperatorID) error

	ListModules(ctx context.Context) ([]Module, error)
	GetModule(ctx context.Context, id ModuleID) (Module, error)
	PutModule(ctx context.Context, m Module) error
	DeleteModule(ctx context.Context, id ModuleID) error

	ListClients(ctx context.Context) ([]Client, error)
	GetClient(ctx context.Context, id ClientID) (Client, error)
	PutClient(ctx context.Context, c Client) error
	DeleteClient(ctx context.Context, id ClientID) error

	ListLocations(ctx context.Context) ([]Location, error)
	GetLocation(ctx context.Context, id LocationID) (Location, error)
	PutLocation(ctx context.Context, l Location) error
	DeleteLocation(ctx context.Context, id LocationID) error

	ListOffers(ctx context.Context) ([]Offer, error)
	GetOffer(ctx context.Context, id OfferID) (Offer, error)
	PutOffer(ctx context.Context, o Offer) error
	DeleteOffer(ctx context.Context, id OfferID) error

	ListSessions(ctx context.Context) ([]Session, error)
	GetSession(ctx context.Context, id SessionID) (Session, error)
	PutSession(ctx context.Context, s Session) error
	DeleteSession(ctx context.Context, id SessionID) error
}

// =============================================================================
// SNAPSHOT - One consistent read of everything the engine needs
// =============================================================================

// Snapshot is the full record set plus the time reference for one
// computation. Callers wanting consistency across several engine calls
// (e.g. rendering a dashboard) load one snapshot and pass it to every
// call; the engine never re-reads.
type Snapshot struct {
	Settings  Settings
	Operators []Operator
	Modules   []Module
	Clients   []Client
	Locations []Location
	Offers    []Offer
	Sessions  []Session
	Now       time.Time
}

// Operator resolves an operator reference. A missing id resolves to
// nothing: the zero value and false, never an error.
func (s Snapshot) Operator(id OperatorID) (Operator, bool) {
	for _, o := range s.Operators {
		if o.ID == id {
			return o, true
		}
	}
	return Operator{}, false
}

func (s Snapshot) Module(id ModuleID) (Module, bool) {
	for _, m := range s.Modules {
		if m.ID == id {
			return m, true
		}
	}
	return Module{}, false
}

func (s Snapshot) Location(id LocationID) (Location, bool) {
	for _, l := range s.Locations {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}

func (s Snapshot) Offer(id OfferID) (Offer, bool) {
	for _, o := range s.Offers {
		if o.ID == id {
			return o, true
		}
	}
	return Offer{}, false
}

// ActiveSessions returns every non-cancelled session, the universe all
// alert rules and rollups operate on.
func (s Snapshot) ActiveSessions() []Session {
	out := make([]Session, 0, len(s.Sessions))
	for _, sess := range s.Sessions {
		if !sess.Cancelled() {
			out = append(out, sess)
		}
	}
	return out
}

// LoadSnapshot reads every record collection once through the store.
func LoadSnapshot(ctx context.Context, store Store, now time.Time) (Snapshot, error) {
	settings, err := store.Settings(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Snapshot{}, err
	}

	snap := Snapshot{Settings: settings, Now: now}

	if snap.Operators, err = store.ListOperators(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Modules, err = store.ListModules(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Clients, err = store.ListClients(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Locations, err = store.ListLocations(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Offers, err = store.ListOffers(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Sessions, err = store.ListSessions(ctx); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
