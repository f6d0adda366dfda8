package password

import (
	"qrcard/internal/pkg/errs"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashingFailed    = errs.New("password hashing failed")
	ErrComparisonFailed = errs.New("password comparison failed")
	ErrInvalidPassword  = errs.New("invalid password")
	ErrPasswordTooLong  = errs.New("password longer than 72 bytes")
	ErrMalformedHash    = errs.New("malformed bcrypt hash")
)

// Cost matches the hashes expected in OPERATOR_PASSWORD_HASH.
const Cost = 12

// bcrypt ignores everything past this many bytes.
const maxLen = 72

func HashPassword(password string) (string, error) {
	if err := checkInput(password); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", errs.Mark(errs.Wrap(err, "bcrypt"), ErrHashingFailed)
	}
	return string(hashed), nil
}

// ComparePassword returns nil on a match and ErrComparisonFailed on a mismatch.
func ComparePassword(hashedPassword, password string) error {
	if hashedPassword == "" {
		return ErrInvalidPassword
	}
	if err := checkInput(password); err != nil {
		return err
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	switch {
	case err == nil:
		return nil
	case errs.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrComparisonFailed
	default:
		return errs.Mark(errs.Wrap(err, "bcrypt"), ErrMalformedHash)
	}
}

// CheckHash reports whether hash parses as bcrypt and returns its cost.
func CheckHash(hash string) (int, error) {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return 0, errs.Mark(errs.Wrap(err, "bcrypt"), ErrMalformedHash)
	}
	return cost, nil
}

func checkInput(password string) error {
	switch {
	case password == "":
		return ErrInvalidPassword
	case len(password) > maxLen:
		return ErrPasswordTooLong
	}
	return nil
}
