/*
Package sqlite provides the SQLite-backed records.Store implementation.

PURPOSE:
  Persists the business records (settings, operators, modules, clients,
  locations, offers, sessions) for a single local installation. The
  engine never touches this package directly - it computes over
  snapshots the API layer loads through records.LoadSnapshot.

SCHEMA:
  One table per record type. Scalar fields are real columns; nested
  lists (cost lines, module id sets) are JSON columns - they are always
  read and written whole, never queried into. Settings is a single-row
  table holding one JSON document owned by the factory codec.

  Monetary columns are TEXT holding decimal strings, never REAL:
  round-tripping through binary floats would break the engine's
  2-decimal rounding guarantees.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/forma.db")   // ":memory:" in tests
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - records/store.go: Interface definition
  - records/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/forma/training-engine/factory"
	"github.com/forma/training-engine/finance"
	"github.com/forma/training-engine/records"
)

// Store implements records.Store using SQLite.
type Store struct {
	db *sql.DB
}

var _ records.Store = (*Store)(nil)

// New opens (or creates) the database at dbPath and migrates the
// schema. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		config_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS operators (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		cost_mode TEXT NOT NULL,
		daily_amount TEXT NOT NULL,
		active INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS modules (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		fixed_cost TEXT NOT NULL,
		variable_cost TEXT NOT NULL,
		required_operators INTEGER NOT NULL,
		incompatible_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		billing TEXT NOT NULL,
		active INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS locations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		cost TEXT NOT NULL,
		supported_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS offers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		offer_type TEXT NOT NULL,
		price TEXT NOT NULL,
		session_count INTEGER NOT NULL,
		consumed INTEGER NOT NULL,
		modules_json TEXT NOT NULL,
		active INTEGER NOT NULL,
		expires_at TEXT
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		operators_json TEXT NOT NULL,
		modules_json TEXT NOT NULL,
		location_id TEXT NOT NULL DEFAULT '',
		client_id TEXT NOT NULL DEFAULT '',
		offer_id TEXT NOT NULL DEFAULT '',
		price TEXT NOT NULL,
		variable_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(date);
	CREATE INDEX IF NOT EXISTS idx_sessions_status ON sessions(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// COLUMN HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func marshalList(v interface{}) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func unmarshalList(raw string, v interface{}) {
	if raw == "" {
		return
	}
	// A corrupt column degrades to an empty list.
	_ = json.Unmarshal([]byte(raw), v)
}

func parseAmount(raw string) decimal.Decimal {
	return finance.MustParseDecimal(raw)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// =============================================================================
// SETTINGS
// =============================================================================

func (s *Store) Settings(ctx context.Context) (records.Settings, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT config_json FROM settings WHERE id = 1`).Scan(&doc)
	if err == sql.ErrNoRows {
		return records.Settings{}, records.ErrNotFound
	}
	if err != nil {
		return records.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return factory.DecodeSettings(doc)
}

func (s *Store) SaveSettings(ctx context.Context, settings records.Settings) error {
	doc, err := factory.EncodeSettings(settings)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (id, config_json) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET config_json = excluded.config_json`, doc)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// =============================================================================
// OPERATORS
// =============================================================================

func (s *Store) ListOperators(ctx context.Context) ([]records.Operator, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, status, cost_mode, daily_amount, active
		FROM operators ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}
	defer rows.Close()

	var out []records.Operator
	for rows.Next() {
		o, err := scanOperator(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) GetOperator(ctx context.Context, id records.OperatorID) (records.Operator, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, status, cost_mode, daily_amount, active
		FROM operators WHERE id = ?`, string(id))
	o, err := scanOperator(row)
	if err == sql.ErrNoRows {
		return records.Operator{}, records.ErrNotFound
	}
	return o, err
}

func (s *Store) PutOperator(ctx context.Context, o records.Operator) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO operators (id, name, status, cost_mode, daily_amount, active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, status = excluded.status,
			cost_mode = excluded.cost_mode, daily_amount = excluded.daily_amount,
			active = excluded.active`,
		string(o.ID), o.Name, string(o.Status), string(o.CostMode),
		o.DailyAmount.String(), boolToInt(o.Active))
	if err != nil {
		return fmt.Errorf("put operator: %w", err)
	}
	return nil
}

func (s *Store) DeleteOperator(ctx context.Context, id records.OperatorID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM operators WHERE id = ?`, string(id))
	return err
}

func scanOperator(r rowScanner) (records.Operator, error) {
	var (
		o                           records.Operator
		id, status, costMode, daily string
		active                      int
	)
	if err := r.Scan(&id, &o.Name, &status, &costMode, &daily, &active); err != nil {
		return records.Operator{}, err
	}
	o.ID = records.OperatorID(id)
	o.Status = finance.Status(status)
	o.CostMode = records.CostMode(costMode)
	o.DailyAmount = parseAmount(daily)
	o.Active = active != 0
	return o, nil
}

// =============================================================================
// MODULES
// =============================================================================

func (s *Store) ListModules(ctx context.Context) ([]records.Module, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, fixed_cost, variable_cost, required_operators, incompatible_json
		FROM modules ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	var out []records.Module
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) GetModule(ctx context.Context, id records.ModuleID) (records.Module, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, fixed_cost, variable_cost, required_operators, incompatible_json
		FROM modules WHERE id = ?`, string(id))
	m, err := scanModule(row)
	if err == sql.ErrNoRows {
		return records.Module{}, records.ErrNotFound
	}
	return m, err
}

func (s *Store) PutModule(ctx context.Context, m records.Module) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO modules (id, name, fixed_cost, variable_cost, required_operators, incompatible_json)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, fixed_cost = excluded.fixed_cost,
			variable_cost = excluded.variable_cost,
			required_operators = excluded.required_operators,
			incompatible_json = excluded.incompatible_json`,
		string(m.ID), m.Name, m.FixedCost.String(), m.VariableCost.String(),
		m.RequiredOperators, marshalList(m.IncompatibleWith))
	if err != nil {
		return fmt.Errorf("put module: %w", err)
	}
	return nil
}

func (s *Store) DeleteModule(ctx context.Context, id records.ModuleID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM modules WHERE id = ?`, string(id))
	return err
}

func scanModule(r rowScanner) (records.Module, error) {
	var (
		m                        records.Module
		id, fixed, variable, inc string
	)
	if err := r.Scan(&id, &m.Name, &fixed, &variable, &m.RequiredOperators, &inc); err != nil {
		return records.Module{}, err
	}
	m.ID = records.ModuleID(id)
	m.FixedCost = parseAmount(fixed)
	m.VariableCost = parseAmount(variable)
	unmarshalList(inc, &m.IncompatibleWith)
	return m, nil
}

// =============================================================================
// CLIENTS
// =============================================================================

func (s *Store) ListClients(ctx context.Context) ([]records.Client, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, billing, active FROM clients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []records.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetClient(ctx context.Context, id records.ClientID) (records.Client, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, billing, active FROM clients WHERE id = ?`, string(id))
	c, err := scanClient(row)
	if err == sql.ErrNoRows {
		return records.Client{}, records.ErrNotFound
	}
	return c, err
}

func (s *Store) PutClient(ctx context.Context, c records.Client) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, billing, active) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, billing = excluded.billing, active = excluded.active`,
		string(c.ID), c.Name, string(c.Billing), boolToInt(c.Active))
	if err != nil {
		return fmt.Errorf("put client: %w", err)
	}
	return nil
}

func (s *Store) DeleteClient(ctx context.Context, id records.ClientID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, string(id))
	return err
}

func scanClient(r rowScanner) (records.Client, error) {
	var (
		c           records.Client
		id, billing string
		active      int
	)
	if err := r.Scan(&id, &c.Name, &billing, &active); err != nil {
		return records.Client{}, err
	}
	c.ID = records.ClientID(id)
	c.Billing = records.BillingCategory(billing)
	c.Active = active != 0
	return c, nil
}

// =============================================================================
// LOCATIONS
// =============================================================================

func (s *Store) ListLocations(ctx context.Context) ([]records.Location, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, cost, supported_json FROM locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []records.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) GetLocation(ctx context.Context, id records.LocationID) (records.Location, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, cost, supported_json FROM locations WHERE id = ?`, string(id))
	l, err := scanLocation(row)
	if err == sql.ErrNoRows {
		return records.Location{}, records.ErrNotFound
	}
	return l, err
}

func (s *Store) PutLocation(ctx context.Context, l records.Location) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO locations (id, name, cost, supported_json) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, cost = excluded.cost,
			supported_json = excluded.supported_json`,
		string(l.ID), l.Name, l.Cost.String(), marshalList(l.SupportedModules))
	if err != nil {
		return fmt.Errorf("put location: %w", err)
	}
	return nil
}

func (s *Store) DeleteLocation(ctx context.Context, id records.LocationID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, string(id))
	return err
}

func scanLocation(r rowScanner) (records.Location, error) {
	var (
		l                   records.Location
		id, cost, supported string
	)
	if err := r.Scan(&id, &l.Name, &cost, &supported); err != nil {
		return records.Location{}, err
	}
	l.ID = records.LocationID(id)
	l.Cost = parseAmount(cost)
	unmarshalList(supported, &l.SupportedModules)
	return l, nil
}

// =============================================================================
// OFFERS
// =============================================================================

func (s *Store) ListOffers(ctx context.Context) ([]records.Offer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, offer_type, price, session_count, consumed, modules_json, active, expires_at
		FROM offers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	var out []records.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) GetOffer(ctx context.Context, id records.OfferID) (records.Offer, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, offer_type, price, session_count, consumed, modules_json, active, expires_at
		FROM offers WHERE id = ?`, string(id))
	o, err := scanOffer(row)
	if err == sql.ErrNoRows {
		return records.Offer{}, records.ErrNotFound
	}
	return o, err
}

func (s *Store) PutOffer(ctx context.Context, o records.Offer) error {
	var expires interface{}
	if o.ExpiresAt != nil {
		expires = o.ExpiresAt.UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO offers (id, name, offer_type, price, session_count, consumed, modules_json, active, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, offer_type = excluded.offer_type,
			price = excluded.price, session_count = excluded.session_count,
			consumed = excluded.consumed, modules_json = excluded.modules_json,
			active = excluded.active, expires_at = excluded.expires_at`,
		string(o.ID), o.Name, string(o.Type), o.Price.String(),
		o.SessionCount, o.Consumed, marshalList(o.ModuleIDs),
		boolToInt(o.Active), expires)
	if err != nil {
		return fmt.Errorf("put offer: %w", err)
	}
	return nil
}

func (s *Store) DeleteOffer(ctx context.Context, id records.OfferID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM offers WHERE id = ?`, string(id))
	return err
}

func scanOffer(r rowScanner) (records.Offer, error) {
	var (
		o                          records.Offer
		id, offerType, price, mods string
		active                     int
		expires                    sql.NullString
	)
	if err := r.Scan(&id, &o.Name, &offerType, &price, &o.SessionCount,
		&o.Consumed, &mods, &active, &expires); err != nil {
		return records.Offer{}, err
	}
	o.ID = records.OfferID(id)
	o.Type = records.OfferType(offerType)
	o.Price = parseAmount(price)
	unmarshalList(mods, &o.ModuleIDs)
	o.Active = active != 0
	if expires.Valid && expires.String != "" {
		if t, err := time.Parse(time.RFC3339, expires.String); err == nil {
			o.ExpiresAt = &t
		}
	}
	return o, nil
}

// =============================================================================
// SESSIONS
// =============================================================================

func (s *Store) ListSessions(ctx context.Context) ([]records.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, status, operators_json, modules_json, location_id, client_id, offer_id, price, variable_json
		FROM sessions ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []records.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (s *Store) GetSession(ctx context.Context, id records.SessionID) (records.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, date, status, operators_json, modules_json, location_id, client_id, offer_id, price, variable_json
		FROM sessions WHERE id = ?`, string(id))
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return records.Session{}, records.ErrNotFound
	}
	return sess, err
}

func (s *Store) PutSession(ctx context.Context, sess records.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, date, status, operators_json, modules_json, location_id, client_id, offer_id, price, variable_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date, status = excluded.status,
			operators_json = excluded.operators_json, modules_json = excluded.modules_json,
			location_id = excluded.location_id, client_id = excluded.client_id,
			offer_id = excluded.offer_id, price = excluded.price,
			variable_json = excluded.variable_json`,
		string(sess.ID), sess.Date.UTC().Format(time.RFC3339), string(sess.Status),
		marshalList(sess.OperatorIDs), marshalList(sess.ModuleIDs),
		string(sess.LocationID), string(sess.ClientID), string(sess.OfferID),
		sess.Price.String(), marshalList(sess.VariableCosts))
	if err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

func (s *Store) DeleteSession(ctx context.Context, id records.SessionID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, string(id))
	return err
}

func scanSession(r rowScanner) (records.Session, error) {
	var (
		sess                            records.Session
		id, date, status, ops, mods     string
		locID, clientID, offerID, price string
		variable                        string
	)
	if err := r.Scan(&id, &date, &status, &ops, &mods, &locID, &clientID,
		&offerID, &price, &variable); err != nil {
		return records.Session{}, err
	}
	sess.ID = records.SessionID(id)
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		sess.Date = t
	}
	sess.Status = records.SessionStatus(status)
	unmarshalList(ops, &sess.OperatorIDs)
	unmarshalList(mods, &sess.ModuleIDs)
	sess.LocationID = records.LocationID(locID)
	sess.ClientID = records.ClientID(clientID)
	sess.OfferID = records.OfferID(offerID)
	sess.Price = parseAmount(price)
	unmarshalList(variable, &sess.VariableCosts)
	return sess, nil
}
