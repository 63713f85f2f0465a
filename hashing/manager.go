package hashing

import (
	"fmt"
	"sync"
)

// Manager is a thread-safe driver registry and dispatcher for password hashing.
// It is the Go equivalent of Laravel's HashManager.
//
// Register one or more named [Hasher] implementations, nominate a default
// driver, and then call [Manager.Make] / [Manager.Check] / [Manager.NeedsRehash]
// through the Manager for all day-to-day hashing operations.
//
// Several drivers of the same algorithm family may be registered under
// different names. The PBKDF2 encoding does not record its digest, so during
// a migration (for example from the SHA-1 hashes of the Gponster PHP package
// to SHA-256) [Manager.Verify] tries the default driver first and then the
// others in registration order, skipping drivers of another algorithm family
// than the one [DetectDriver] reports. Verify-only drivers such as
// [BcryptVerifier] let bcrypt and Argon2 hashes be upgraded the same way.
//
// # Thread safety
//
// All Manager methods are safe for concurrent use by multiple goroutines.
// A [sync.RWMutex] serialises writes (RegisterDriver, SetDefaultDriver) while
// allowing concurrent reads (Make, Check, etc.).
type Manager struct {
	mu      sync.RWMutex
	drivers map[DriverName]Hasher
	order   []DriverName
	def     DriverName
}

// Verification is the outcome of [Manager.Verify].
type Verification struct {
	// OK is true when some registered driver accepted the password.
	OK bool
	// Driver is the name of the driver that accepted it.
	Driver DriverName
	// NeedsRehash is true when OK and the hash should be replaced by a fresh
	// hash from the default driver.
	NeedsRehash bool
}

// NewManager creates an empty Manager with the given default driver name.
// Drivers must be registered with [Manager.RegisterDriver] before any
// hashing operation is invoked through the Manager.
func NewManager(defaultDriver DriverName) *Manager {
	return &Manager{
		drivers: make(map[DriverName]Hasher),
		def:     defaultDriver,
	}
}

// NewDefaultManager creates a Manager with [DriverPbkdf2] ([DefaultConfig])
// as the default and [DriverPbkdf2Legacy] ([LegacyConfig]) registered for
// verifying hashes from the Gponster PHP package.
//
//	m, err := hashing.NewDefaultManager()
//	hash, _ := m.Make("secret", nil)
func NewDefaultManager() (*Manager, error) {
	current, err := NewPbkdf2Hasher(DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("hashing: failed to create default pbkdf2 hasher: %w", err)
	}
	legacy, err := NewPbkdf2Hasher(LegacyConfig())
	if err != nil {
		return nil, fmt.Errorf("hashing: failed to create legacy pbkdf2 hasher: %w", err)
	}

	m := NewManager(DriverPbkdf2)
	_ = m.RegisterDriver(DriverPbkdf2, current)
	_ = m.RegisterDriver(DriverPbkdf2Legacy, legacy)
	return m, nil
}

// RegisterDriver adds or replaces a named hasher in the Manager. A replaced
// driver keeps its original position in the registration order.
func (m *Manager) RegisterDriver(name DriverName, h Hasher) error {
	if name == "" {
		return ErrEmptyDriverName
	}
	if h == nil {
		return ErrNilHasher
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.drivers[name]; !exists {
		m.order = append(m.order, name)
	}
	m.drivers[name] = h
	return nil
}

// Driver returns the [Hasher] registered under name, or [ErrDriverNotFound]
// if no such driver has been registered.
func (m *Manager) Driver(name DriverName) (Hasher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.drivers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDriverNotFound, name)
	}
	return h, nil
}

// Drivers returns the registered driver names in registration order.
func (m *Manager) Drivers() []DriverName {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]DriverName, len(m.order))
	copy(out, m.order)
	return out
}

// SetDefaultDriver changes the driver used by [Manager.Make], [Manager.Check],
// and [Manager.NeedsRehash]. The named driver must already be registered.
func (m *Manager) SetDefaultDriver(name DriverName) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[name]; !ok {
		return fmt.Errorf("%w: %q is not registered; call RegisterDriver first",
			ErrDriverNotFound, name)
	}
	m.def = name
	return nil
}

// DefaultDriver returns the name of the currently configured default driver.
func (m *Manager) DefaultDriver() DriverName {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.def
}

// HasDriver reports whether a driver with the given name is registered.
func (m *Manager) HasDriver(name DriverName) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.drivers[name]
	return ok
}

// Make hashes password using the default driver.
func (m *Manager) Make(password string, opts Options) (string, error) {
	h, err := m.resolveDefault()
	if err != nil {
		return "", err
	}
	return h.Make(password, opts)
}

// Check verifies password against hash using the default driver only.
// The error is non-nil only when the default driver is not registered.
func (m *Manager) Check(password, hash string, opts Options) (bool, error) {
	h, err := m.resolveDefault()
	if err != nil {
		return false, err
	}
	return h.Check(password, hash, opts), nil
}

// NeedsRehash reports whether hash should be re-hashed according to the
// default driver.
func (m *Manager) NeedsRehash(hash string, opts Options) (bool, error) {
	h, err := m.resolveDefault()
	if err != nil {
		return false, err
	}
	return h.NeedsRehash(hash, opts), nil
}

// Info extracts metadata from hash using the default driver.
func (m *Manager) Info(hash string) (HashInfo, error) {
	h, err := m.resolveDefault()
	if err != nil {
		return HashInfo{}, err
	}
	return h.Info(hash)
}

// Verify checks password against hash with every registered driver, the
// default first. When a non-default driver accepts the password, or the
// default accepts it but reports NeedsRehash, the result asks for a rehash.
//
// A wrong password and a malformed hash both produce a zero Verification and
// a nil error. The error is non-nil only when the default driver is missing.
func (m *Manager) Verify(password, hash string, opts Options) (Verification, error) {
	def, candidates, err := m.candidates(hash)
	if err != nil {
		return Verification{}, err
	}
	for _, c := range candidates {
		if !c.hasher.Check(password, hash, opts) {
			continue
		}
		needs := c.name != def || c.hasher.NeedsRehash(hash, opts)
		return Verification{OK: true, Driver: c.name, NeedsRehash: needs}, nil
	}
	return Verification{}, nil
}

// Rehash verifies password against hash and, when the hash is due for an
// upgrade, returns a new hash from the default driver. newHash is empty when
// the password did not verify or no upgrade is due. Call it on successful
// login and persist newHash when it is non-empty:
//
//	newHash, v, err := m.Rehash(password, stored, nil)
//	if err == nil && v.OK && newHash != "" {
//	    persist(userID, newHash)
//	}
func (m *Manager) Rehash(password, hash string, opts Options) (newHash string, v Verification, err error) {
	v, err = m.Verify(password, hash, opts)
	if err != nil || !v.OK || !v.NeedsRehash {
		return "", v, err
	}
	newHash, err = m.Make(password, opts)
	if err != nil {
		return "", v, err
	}
	return newHash, v, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────────────────────────────────

type namedHasher struct {
	name   DriverName
	hasher Hasher
}

func (m *Manager) resolveDefault() (Hasher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.drivers[m.def]
	if !ok {
		return nil, fmt.Errorf("%w: default driver %q has not been registered",
			ErrDriverNotFound, m.def)
	}
	return h, nil
}

// candidates snapshots the registry with the default driver first, followed
// by the other drivers in registration order. When the algorithm family of
// hash is recognised, non-default drivers of other families are skipped.
func (m *Manager) candidates(hash string) (DriverName, []namedHasher, error) {
	family, known := DetectDriver(hash)
	m.mu.RLock()
	defer m.mu.RUnlock()
	def, ok := m.drivers[m.def]
	if !ok {
		return "", nil, fmt.Errorf("%w: default driver %q has not been registered",
			ErrDriverNotFound, m.def)
	}
	out := make([]namedHasher, 0, len(m.order))
	out = append(out, namedHasher{name: m.def, hasher: def})
	for _, name := range m.order {
		h := m.drivers[name]
		if name == m.def || (known && h.Driver() != family) {
			continue
		}
		out = append(out, namedHasher{name: name, hasher: h})
	}
	return m.def, out, nil
}
