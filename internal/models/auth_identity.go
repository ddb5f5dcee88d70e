package models

import (
	"time"

	"github.com/jobportal/jobportal/internal/crypto"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var tokenBox *crypto.Box

// InitEncryption wires the AES-GCM box used to protect OAuth tokens at rest.
// Must be called before any AuthIdentity reads or writes.
func InitEncryption(key string) error {
	var err error
	tokenBox, err = crypto.NewBox(key)
	return err
}

// AuthIdentity links a User to an external identity provider account.
// Provider tokens are stored encrypted.
type AuthIdentity struct {
	gorm.Model
	UserID         uint   `gorm:"not null;index"`
	User           User   `gorm:"constraint:OnDelete:CASCADE;"`
	Provider       string `gorm:"not null"` // e.g. "google"
	ProviderUserID string `gorm:"not null;uniqueIndex:idx_auth_identities_provider_user,where:deleted_at IS NULL"`
	AccessToken    string `gorm:"type:text"`
	RefreshToken   string `gorm:"type:text"`
	TokenExpiry    *time.Time
	// Raw provider profile as returned at last login; plaintext, no secrets.
	ProfileData datatypes.JSON
}

// BeforeSave encrypts tokens on the way to the database. GCM output differs
// on every call because of the random nonce, so re-saving is safe.
func (a *AuthIdentity) BeforeSave(tx *gorm.DB) error {
	if tokenBox == nil {
		// Encryption not initialized (tests); store as-is.
		return nil
	}
	var err error
	if a.AccessToken, err = tokenBox.Seal(a.AccessToken); err != nil {
		return err
	}
	a.RefreshToken, err = tokenBox.Seal(a.RefreshToken)
	return err
}

// AfterFind decrypts tokens after loading.
func (a *AuthIdentity) AfterFind(tx *gorm.DB) error {
	if tokenBox == nil {
		return nil
	}
	var err error
	if a.AccessToken, err = tokenBox.Open(a.AccessToken); err != nil {
		return err
	}
	a.RefreshToken, err = tokenBox.Open(a.RefreshToken)
	return err
}
