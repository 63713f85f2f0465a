package hashing_test

import (
	"testing"

	"github.com/hasbyte1/go-laravel-pbkdf2/hashing"
)

func TestPbkdf2Hasher_Resolve(t *testing.T) {
	h := newDefaultHasher(t)
	def := hashing.Params{
		Iterations: hashing.DefaultIterations,
		SaltLen:    hashing.DefaultSaltLen,
		KeyLen:     hashing.DefaultKeyLen,
	}

	tests := []struct {
		name string
		opts hashing.Options
		want hashing.Params
	}{
		{"nil options", nil, def},
		{"empty options", hashing.Options{}, def},
		{"unknown keys ignored", hashing.Options{"rounds": 50000, "cost": 12}, def},
		{"above minimum", hashing.Options{"iterations": 20000, "salt_len": 48, "key_len": 64},
			hashing.Params{Iterations: 20000, SaltLen: 48, KeyLen: 64}},
		{"camelCase aliases", hashing.Options{"saltLength": 40, "keyLength": 50},
			hashing.Params{Iterations: hashing.DefaultIterations, SaltLen: 40, KeyLen: 50}},
		{"snake_case wins over alias", hashing.Options{"salt_len": 40, "saltLength": 60},
			hashing.Params{Iterations: hashing.DefaultIterations, SaltLen: 40, KeyLen: hashing.DefaultKeyLen}},
		{"below minimum clamped", hashing.Options{"iterations": 1, "salt_len": 1, "key_len": 1},
			hashing.Params{Iterations: hashing.MinIterations, SaltLen: hashing.MinSaltLen, KeyLen: hashing.MinKeyLen}},
		{"zero falls back", hashing.Options{"iterations": 0}, def},
		{"negative falls back", hashing.Options{"iterations": -5}, def},
		{"numeric string", hashing.Options{"iterations": "25000"},
			hashing.Params{Iterations: 25000, SaltLen: hashing.DefaultSaltLen, KeyLen: hashing.DefaultKeyLen}},
		{"non-numeric string falls back", hashing.Options{"iterations": "lots"}, def},
		{"float truncated", hashing.Options{"iterations": 30000.9},
			hashing.Params{Iterations: 30000, SaltLen: hashing.DefaultSaltLen, KeyLen: hashing.DefaultKeyLen}},
		{"int64", hashing.Options{"key_len": int64(40)},
			hashing.Params{Iterations: hashing.DefaultIterations, SaltLen: hashing.DefaultSaltLen, KeyLen: 40}},
		{"nil value falls back", hashing.Options{"iterations": nil}, def},
		{"slice value falls back", hashing.Options{"iterations": []int{1, 2}}, def},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.Resolve(tt.opts); got != tt.want {
				t.Errorf("Resolve(%v) = %+v, want %+v", tt.opts, got, tt.want)
			}
		})
	}
}

// Defaults and minimums are independent settings.
func TestPbkdf2Hasher_Resolve_DefaultBelowMinimum(t *testing.T) {
	cfg := hashing.DefaultConfig()
	cfg.Iterations = 5000
	cfg.MinIterations = 20000
	h, err := hashing.NewPbkdf2Hasher(cfg)
	if err != nil {
		t.Fatalf("NewPbkdf2Hasher: %v", err)
	}
	if got := h.Resolve(nil).Iterations; got != 20000 {
		t.Errorf("Iterations = %d, want the minimum 20000", got)
	}
}

func TestPbkdf2Hasher_Resolve_DefaultAboveMinimum(t *testing.T) {
	cfg := hashing.DefaultConfig()
	cfg.Iterations = 50000
	h, _ := hashing.NewPbkdf2Hasher(cfg)
	if got := h.Resolve(nil).Iterations; got != 50000 {
		t.Errorf("Iterations = %d, want the default 50000", got)
	}
	if got := h.Resolve(hashing.Options{"iterations": 15000}).Iterations; got != 15000 {
		t.Errorf("Iterations = %d, want the override 15000", got)
	}
}
