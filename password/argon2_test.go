package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Memory:      65536,
		Time:        3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func newHasher(t *testing.T, cfg Config) *Argon2 {
	t.Helper()
	h, err := NewArgon2(cfg)
	require.NoError(t, err)
	return h
}

func TestHashRoundTrip(t *testing.T) {
	h := newHasher(t, testConfig())

	hash, err := h.Hash("Tahajjud-0430")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=2$"), hash)
	assert.NotContains(t, hash, "Tahajjud-0430")

	ok, err := h.Verify("Tahajjud-0430", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("tahajjud-0430", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	again, err := h.Hash("Tahajjud-0430")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salts must differ")
}

func TestHashLengthLimits(t *testing.T) {
	cfg := testConfig()
	cfg.MaxPasswordBytes = 64
	h := newHasher(t, cfg)

	cases := []struct {
		name    string
		pw      string
		wantErr error
	}{
		{"empty", "", ErrPasswordTooShort},
		{"seven", "seven77", ErrPasswordTooShort},
		{"eight", "eight888", nil},
		{"at max", strings.Repeat("b", 64), nil},
		{"over max", strings.Repeat("a", 65), ErrPasswordTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.Hash(tc.pw)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestDefaultMaxPasswordBytesApplied(t *testing.T) {
	h := newHasher(t, testConfig())

	_, err := h.Hash(strings.Repeat("d", DefaultMaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = h.Hash(strings.Repeat("e", DefaultMaxPasswordBytes))
	assert.NoError(t, err)
}

func TestVerifyRejectsOverlongPasswordBeforeHashing(t *testing.T) {
	cfg := testConfig()
	cfg.MaxPasswordBytes = 64
	h := newHasher(t, cfg)

	hash, err := h.Hash("valid-password-123")
	require.NoError(t, err)

	_, err = h.Verify(strings.Repeat("c", 65), hash)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestVerifyMalformedHashes(t *testing.T) {
	h := newHasher(t, testConfig())
	good, err := h.Hash("version-test")
	require.NoError(t, err)

	cases := map[string]string{
		"not phc":         "not-a-phc-hash",
		"wrong algorithm": strings.Replace(good, "$argon2id$", "$argon2i$", 1),
		"wrong version":   strings.Replace(good, "$v=19$", "$v=18$", 1),
		"missing param":   strings.Replace(good, ",p=2$", "$", 1),
		"trailing param":  strings.Replace(good, ",p=2$", ",p=2,x=1$", 1),
		"tiny memory":     strings.Replace(good, "m=65536", "m=1024", 1),
		"short salt":      "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"bad key":         good[:strings.LastIndex(good, "$")+1] + "!!!",
	}
	for name, hash := range cases {
		t.Run(name, func(t *testing.T) {
			ok, err := h.Verify("version-test", hash)
			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrMalformedHash)
		})
	}
}

func TestNeedsUpgrade(t *testing.T) {
	current := newHasher(t, testConfig())

	weak := newHasher(t, Config{Memory: 32768, Time: 2, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	weakHash, err := weak.Hash("test-password")
	require.NoError(t, err)

	up, err := current.NeedsUpgrade(weakHash)
	require.NoError(t, err)
	assert.True(t, up)

	currentHash, err := current.Hash("test-password")
	require.NoError(t, err)
	up, err = current.NeedsUpgrade(currentHash)
	require.NoError(t, err)
	assert.False(t, up)

	// stronger stored parameters are left alone
	up, err = weak.NeedsUpgrade(currentHash)
	require.NoError(t, err)
	assert.False(t, up)

	longer := testConfig()
	longer.KeyLength = 64
	up, err = newHasher(t, longer).NeedsUpgrade(currentHash)
	require.NoError(t, err)
	assert.True(t, up)
}

func TestNewArgon2RejectsWeakConfig(t *testing.T) {
	mutate := map[string]func(*Config){
		"memory":      func(c *Config) { c.Memory = 1024 },
		"time":        func(c *Config) { c.Time = 0 },
		"parallelism": func(c *Config) { c.Parallelism = 0 },
		"salt":        func(c *Config) { c.SaltLength = 8 },
		"key":         func(c *Config) { c.KeyLength = 8 },
		"max bytes":   func(c *Config) { c.MaxPasswordBytes = 4 },
		"negative":    func(c *Config) { c.MaxPasswordBytes = -1 },
	}
	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			fn(&cfg)
			_, err := NewArgon2(cfg)
			assert.Error(t, err)
		})
	}
}
