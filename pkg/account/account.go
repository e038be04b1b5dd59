// Package account holds the player identity the launcher passes to the game.
// Accounts are obtained and refreshed elsewhere; this package only reads them.
package account

import (
	"crypto/md5"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/Qwinci/hzlauncher/pkg/errors"
)

type MsCredentials struct {
	AccessToken  string    `toml:"access_token"`
	RefreshToken string    `toml:"refresh_token"`
	ExpiresAt    time.Time `toml:"expires_at"`
	XboxToken    string    `toml:"xbox_token"`
	XstsToken    string    `toml:"xsts_token"`
	UserHash     string    `toml:"user_hash"`
}

type McCredentials struct {
	AccessToken string    `toml:"access_token"`
	ExpiresAt   time.Time `toml:"expires_at"`
}

type Account struct {
	Name    string        `toml:"name"`
	ID      string        `toml:"id"`
	MsCreds MsCredentials `toml:"ms_creds"`
	McCreds McCredentials `toml:"mc_creds"`
}

// UserType is substituted for ${user_type}.
const UserType = "mojang"

const offlineToken = "0"

// NewOffline builds an account for offline play. The id is the name-based
// (version 3) UUID of "OfflinePlayer:<name>", matching the game's own
// derivation, so worlds keep the same player data across launchers.
func NewOffline(name string) *Account {
	return &Account{
		Name:    name,
		ID:      offlineUUID(name),
		McCreds: McCredentials{AccessToken: offlineToken},
	}
}

func offlineUUID(name string) string {
	u := uuid.UUID(md5.Sum([]byte("OfflinePlayer:" + name)))
	u[6] = (u[6] & 0x0f) | 0x30
	u[8] = (u[8] & 0x3f) | 0x80
	return u.String()
}

// Load reads an account file written by the authentication flow.
func Load(path string) (*Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFilesystem, "failed to read account %s", path)
	}

	var acc Account
	if err := toml.Unmarshal(data, &acc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrParse, "failed to parse account %s", path)
	}

	return &acc, nil
}

// Validate checks that the account can be used to launch at now. A zero
// expiry never expires.
func (a *Account) Validate(now time.Time) error {
	switch {
	case a == nil:
		return errors.New(errors.ErrNoAccount, "no account set")
	case a.Name == "" || a.ID == "" || a.McCreds.AccessToken == "":
		return errors.New(errors.ErrNoAccount, "account is missing name, id or access token")
	case !a.McCreds.ExpiresAt.IsZero() && !now.Before(a.McCreds.ExpiresAt):
		return errors.Newf(errors.ErrAccountExpired, "access token for %s expired at %s",
			a.Name, a.McCreds.ExpiresAt.Format(time.RFC3339)).
			WithDetail("expires_at", a.McCreds.ExpiresAt)
	}
	return nil
}

// Offline reports whether the account carries the placeholder token.
func (a *Account) Offline() bool {
	return a.McCreds.AccessToken == offlineToken
}
