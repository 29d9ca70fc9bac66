package models

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ROLE_USER  = "user"
	ROLE_ADMIN = "admin"
)

// User is the local identity record. Users arrive either through sign-up or
// through a completed guest checkout; the lowercased email is the single
// deduplication key across both paths.
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"type:varchar(150)" json:"name" validate:"max=150"`
	Email           string         `gorm:"uniqueIndex;type:varchar(200);not null" json:"email" validate:"required,email,min=5,max=200"`
	EmailVerified   *time.Time     `gorm:"type:timestamp;default:null" json:"email_verified,omitempty"`
	Password        string         `gorm:"type:text" json:"-"`
	Role            string         `gorm:"type:varchar(50);default:'user'" json:"role" validate:"oneof=user admin"`
	MagicLinkToken  string         `gorm:"type:varchar(100);default:null;index" json:"-"`
	MagicLinkSentAt *time.Time     `gorm:"type:timestamp;default:null" json:"-"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// NormalizeEmail lowercases and trims an email so lookups and unique checks
// behave case-insensitively regardless of column collation.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser builds a user for the sign-up path.
func CreateUser(name string, email string, password string) (*User, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:     name,
		Email:    NormalizeEmail(email),
		Password: pw,
		Role:     ROLE_USER,
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}

	return u, nil
}

// NewCheckoutUser builds the minimal user minted by a completed checkout
// session. No password is set; the purchaser signs in via magic link.
func NewCheckoutUser(email string) *User {
	return &User{
		Email: NormalizeEmail(email),
		Role:  ROLE_USER,
	}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	if u.Password == "" {
		return false
	}
	return CheckPasswordHash(password, u.Password)
}

// SetPassword hashes and sets a new password for the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}

// GenerateMagicLinkToken creates a random sign-in token and stamps MagicLinkSentAt
func (u *User) GenerateMagicLinkToken() error {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	u.MagicLinkToken = hex.EncodeToString(b)
	now := time.Now()
	u.MagicLinkSentAt = &now
	return nil
}

// IsMagicLinkTokenValid checks the token and its age (valid for 24 hours)
func (u *User) IsMagicLinkTokenValid(token string) bool {
	if u.MagicLinkToken == "" || u.MagicLinkSentAt == nil {
		return false
	}
	if u.MagicLinkToken != token {
		return false
	}
	return time.Since(*u.MagicLinkSentAt) < 24*time.Hour
}

// ClearMagicLinkToken invalidates an issued magic link after redemption
func (u *User) ClearMagicLinkToken() {
	u.MagicLinkToken = ""
	u.MagicLinkSentAt = nil
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == ROLE_ADMIN
}
