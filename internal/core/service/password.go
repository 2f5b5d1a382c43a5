package service

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// Accounts created before the move to bcrypt carry werkzeug hashes of the
// form "method$salt$hex", e.g. "pbkdf2:sha256:600000$salt$..." or
// "scrypt:32768:8:1$salt$...".
const legacyPBKDF2Iterations = 600000

// checkPassword reports whether password matches hash. rehash is true when
// the stored hash is a legacy format that should be replaced with bcrypt.
func checkPassword(hash, password string) (ok, rehash bool) {
	if strings.HasPrefix(hash, "pbkdf2:") || strings.HasPrefix(hash, "scrypt:") {
		return checkLegacyPassword(hash, password), true
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, false
}

func checkLegacyPassword(stored, password string) bool {
	parts := strings.SplitN(stored, "$", 3)
	if len(parts) != 3 {
		return false
	}
	method, salt, want := parts[0], []byte(parts[1]), parts[2]
	args := strings.Split(method, ":")

	var (
		got []byte
		err error
	)
	switch args[0] {
	case "pbkdf2":
		if len(args) < 2 {
			return false
		}
		h := legacyDigest(args[1])
		if h == nil {
			return false
		}
		iterations := legacyPBKDF2Iterations
		if len(args) > 2 {
			if iterations, err = strconv.Atoi(args[2]); err != nil || iterations <= 0 {
				return false
			}
		}
		got = pbkdf2.Key([]byte(password), salt, iterations, h().Size(), h)
	case "scrypt":
		n, r, p := 1<<15, 8, 1
		if len(args) == 4 {
			if n, err = strconv.Atoi(args[1]); err != nil {
				return false
			}
			if r, err = strconv.Atoi(args[2]); err != nil {
				return false
			}
			if p, err = strconv.Atoi(args[3]); err != nil {
				return false
			}
		}
		if got, err = scrypt.Key([]byte(password), salt, n, r, p, 64); err != nil {
			return false
		}
	default:
		return false
	}

	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(got)), []byte(want)) == 1
}

func legacyDigest(name string) func() hash.Hash {
	switch name {
	case "sha256":
		return sha256.New
	case "sha512":
		return sha512.New
	case "sha1":
		return sha1.New
	}
	return nil
}
