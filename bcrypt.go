package admin

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher is the default PasswordHasher.
type BcryptHasher struct{}

var _ PasswordHasher = BcryptHasher{}

// HashPassword will generate a password hash
func (BcryptHasher) HashPassword(password string) (string, error) {
	return HashPassword(password)
}

// ComparePasswordAndHash implements PasswordHasher.
func (BcryptHasher) ComparePasswordAndHash(password, hash string) error {
	return ComparePasswordAndHash(password, hash)
}

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyPassword
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}
