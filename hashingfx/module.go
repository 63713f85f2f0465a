// Package hashingfx wires the hashing package into a go.uber.org/fx
// application.
//
//	fx.New(
//		hashingfx.Module,
//		hashingfx.WithConfig(cfg),
//		hashingfx.Driver(hashing.DriverPbkdf2Legacy, hashing.LegacyConfig()),
//		fx.Invoke(func(m *hashing.Manager) { ... }),
//	)
package hashingfx

import (
	"sort"

	"github.com/go-logr/logr"
	"go.uber.org/fx"

	"github.com/hasbyte1/go-laravel-pbkdf2/hashing"
)

// DriversGroupName is the value group extra Manager drivers are collected from.
const DriversGroupName = "hashing.drivers"

// Module provides *hashing.Pbkdf2Hasher, hashing.Hasher and *hashing.Manager.
//
// A *hashing.Config and a logr.Logger are consumed when present; otherwise
// hashing.DefaultConfig is used and diagnostics are discarded.
var Module = fx.Module("hashing",
	fx.Provide(
		fx.Annotate(NewHasher, fx.As(fx.Self()), fx.As(new(hashing.Hasher))),
		NewManager,
	),
)

// NamedDriver is a Manager driver contributed through [DriversGroupName].
type NamedDriver struct {
	Name   hashing.DriverName
	Hasher hashing.Hasher
}

// HasherParams are the optional inputs of [NewHasher].
type HasherParams struct {
	fx.In

	Config *hashing.Config `optional:"true"`
	Logger logr.Logger     `optional:"true"`
}

// NewHasher builds the application's default hasher. A logger set on the
// supplied Config takes precedence over the injected one.
func NewHasher(p HasherParams) (*hashing.Pbkdf2Hasher, error) {
	cfg := hashing.DefaultConfig()
	if p.Config != nil {
		cfg = *p.Config
	}
	return hashing.NewPbkdf2Hasher(withLogger(cfg, p.Logger))
}

// ManagerParams are the inputs of [NewManager].
type ManagerParams struct {
	fx.In

	Default *hashing.Pbkdf2Hasher
	Drivers []NamedDriver `group:"hashing.drivers"`
}

// NewManager registers the default hasher as [hashing.DriverPbkdf2] and every
// grouped driver after it, sorted by name. A grouped driver named pbkdf2
// replaces the default hasher in the registry.
func NewManager(p ManagerParams) (*hashing.Manager, error) {
	m := hashing.NewManager(hashing.DriverPbkdf2)
	if err := m.RegisterDriver(hashing.DriverPbkdf2, p.Default); err != nil {
		return nil, err
	}

	drivers := append([]NamedDriver(nil), p.Drivers...)
	sort.SliceStable(drivers, func(i, j int) bool { return drivers[i].Name < drivers[j].Name })
	for _, d := range drivers {
		if err := m.RegisterDriver(d.Name, d.Hasher); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// WithConfig supplies the configuration of the default hasher.
func WithConfig(cfg hashing.Config) fx.Option {
	return fx.Supply(&cfg)
}

type driverIn struct {
	fx.In

	Logger logr.Logger `optional:"true"`
}

type driverOut struct {
	fx.Out

	Driver NamedDriver `group:"hashing.drivers"`
}

// Driver contributes an additional PBKDF2 driver to the Manager, typically a
// legacy parameter set kept around to verify and upgrade old hashes.
func Driver(name hashing.DriverName, cfg hashing.Config) fx.Option {
	return fx.Provide(func(in driverIn) (driverOut, error) {
		h, err := hashing.NewPbkdf2Hasher(withLogger(cfg, in.Logger))
		if err != nil {
			return driverOut{}, err
		}
		return driverOut{Driver: NamedDriver{Name: name, Hasher: h}}, nil
	})
}

type verifiersOut struct {
	fx.Out

	Drivers []NamedDriver `group:"hashing.drivers,flatten"`
}

// MigrationVerifiers contributes verify-only bcrypt, argon2i and argon2id
// drivers, letting the Manager check and upgrade hashes written by those
// algorithms.
func MigrationVerifiers() fx.Option {
	return fx.Provide(func(in driverIn) (verifiersOut, error) {
		out := verifiersOut{Drivers: []NamedDriver{
			{Name: hashing.DriverBcrypt, Hasher: hashing.NewBcryptVerifier(in.Logger)},
		}}
		for _, variant := range []hashing.DriverName{hashing.DriverArgon2i, hashing.DriverArgon2id} {
			v, err := hashing.NewArgon2Verifier(variant, in.Logger)
			if err != nil {
				return verifiersOut{}, err
			}
			out.Drivers = append(out.Drivers, NamedDriver{Name: variant, Hasher: v})
		}
		return out, nil
	})
}

func withLogger(cfg hashing.Config, log logr.Logger) hashing.Config {
	if cfg.Logger.GetSink() == nil && log.GetSink() != nil {
		cfg.Logger = log
	}
	return cfg
}
