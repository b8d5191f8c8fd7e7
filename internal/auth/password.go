package auth

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted for a local account.
const MinPasswordLength = 8

// Character classes used by GeneratePassword.
const (
	UpperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	LowerChars   = "abcdefghijklmnopqrstuvwxyz"
	DigitChars   = "0123456789"
	SpecialChars = "!@#$%^&*()_+~`|}{[]:;?><,./-="
)

// HashPassword hashes a plaintext password. Costs outside bcrypt's range use the default cost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// GeneratePassword builds a password of length n (minimum 4) holding at
// least one character of every class, shuffled with crypto/rand.
func GeneratePassword(n int) (string, error) {
	classes := []string{UpperChars, LowerChars, DigitChars, SpecialChars}
	if n < len(classes) {
		n = len(classes)
	}
	all := UpperChars + LowerChars + DigitChars + SpecialChars
	out := make([]byte, 0, n)
	for _, set := range classes {
		c, err := pick(set)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < n {
		c, err := pick(all)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for i := len(out) - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}

func pick(set string) (byte, error) {
	i, err := randInt(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
