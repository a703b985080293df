package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for User
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered user of the application. The core treats the
// ID as an opaque identity: beyond equality comparison it never inspects it.
// UnlimitedDecks is the entitlement flag the quota policy consumes; it is
// resolved here and carried to requests inside the auth token claims.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	UnlimitedDecks bool      `json:"unlimited_decks"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email and password.
// It generates a new UUID for the user ID and sets the creation/update
// timestamps. Returns an error if validation fails.
//
// NOTE: This function only sets up the user structure with the plaintext
// password. The caller is responsible for hashing it before storage.
func NewUser(email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     email,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		if len(u.Password) < 12 {
			return ErrPasswordTooShort
		}
		if len(u.Password) > 72 { // bcrypt's practical limit
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Existing users loaded from the store carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// validEmailFormat performs basic structural validation of an email address:
// a non-empty local part, an @, and a domain containing an interior dot.
func validEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
