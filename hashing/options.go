package hashing

import "github.com/mitchellh/mapstructure"

// Option keys recognised in [Options].
const (
	OptIterations = "iterations"
	OptSaltLen    = "salt_len"
	OptKeyLen     = "key_len"

	optSaltLenAlias = "saltLength"
	optKeyLenAlias  = "keyLength"
)

// Params is a fully resolved PBKDF2 parameter set. After [Pbkdf2Hasher.Resolve]
// every field is at least the hasher's configured minimum.
type Params struct {
	Iterations int
	SaltLen    int
	KeyLen     int
}

// positiveInt returns the first present key's value coerced to an int.
// A present but non-numeric or non-positive value reports false, so the
// caller falls back to its default instead of trying an alias.
func (o Options) positiveInt(keys ...string) (int, bool) {
	for _, k := range keys {
		raw, ok := o[k]
		if !ok || raw == nil {
			continue
		}
		var n int
		if err := mapstructure.WeakDecode(raw, &n); err != nil || n < 1 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func resolveParam(opts Options, def, floor int, keys ...string) int {
	v := def
	if n, ok := opts.positiveInt(keys...); ok {
		v = n
	}
	if v < floor {
		v = floor
	}
	return v
}

// Resolve merges opts over the hasher's defaults and clamps each value up to
// its configured minimum. Invalid or missing values never produce an error.
func (h *Pbkdf2Hasher) Resolve(opts Options) Params {
	return Params{
		Iterations: resolveParam(opts, h.cfg.Iterations, h.cfg.MinIterations, OptIterations),
		SaltLen:    resolveParam(opts, h.cfg.SaltLen, h.cfg.MinSaltLen, OptSaltLen, optSaltLenAlias),
		KeyLen:     resolveParam(opts, h.cfg.KeyLen, h.cfg.MinKeyLen, OptKeyLen, optKeyLenAlias),
	}
}

// rehashThresholds returns the minimums a stored hash must meet. Explicit
// options can raise a threshold but never lower it below the configured
// minimum; absent options leave the minimum as is.
func (h *Pbkdf2Hasher) rehashThresholds(opts Options) Params {
	return Params{
		Iterations: resolveParam(opts, h.cfg.MinIterations, h.cfg.MinIterations, OptIterations),
		SaltLen:    resolveParam(opts, h.cfg.MinSaltLen, h.cfg.MinSaltLen, OptSaltLen, optSaltLenAlias),
		KeyLen:     resolveParam(opts, h.cfg.MinKeyLen, h.cfg.MinKeyLen, OptKeyLen, optKeyLenAlias),
	}
}
