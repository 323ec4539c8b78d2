package password

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMalformedHash is returned when a stored hash is not an argon2id PHC string.
var ErrMalformedHash = errors.New("malformed password hash")

// phc is one decoded $argon2id$v=..$m=..,t=..,p=..$salt$key string.
type phc struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func (p phc) String() string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID, argon2.Version,
		p.memory, p.time, p.parallelism,
		b64.EncodeToString(p.salt), b64.EncodeToString(p.key))
}

// PHC strings carry unpadded standard base64.
var b64 = base64.RawStdEncoding

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedHash, fmt.Sprintf(format, args...))
}

func decodePHC(encoded string) (phc, error) {
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" {
		return phc{}, malformed("want 5 segments")
	}
	if fields[1] != algorithmID {
		return phc{}, malformed("algorithm %q", fields[1])
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil {
		return phc{}, malformed("version segment %q", fields[2])
	}
	if version != argon2.Version {
		return phc{}, malformed("argon2 version %d", version)
	}

	var p phc
	var threads uint32
	if n, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &threads); err != nil || n != 3 {
		return phc{}, malformed("parameter segment %q", fields[3])
	}
	if fields[3] != fmt.Sprintf("m=%d,t=%d,p=%d", p.memory, p.time, threads) {
		return phc{}, malformed("parameter segment %q", fields[3])
	}
	if p.memory < minMemoryKB || p.time < 1 || threads < 1 || threads > 255 {
		return phc{}, malformed("parameters out of range")
	}
	p.parallelism = uint8(threads)

	var err error
	if p.salt, err = b64.DecodeString(fields[4]); err != nil || len(p.salt) < minSaltLength {
		return phc{}, malformed("salt")
	}
	if p.key, err = b64.DecodeString(fields[5]); err != nil || len(p.key) == 0 {
		return phc{}, malformed("key")
	}
	return p, nil
}
