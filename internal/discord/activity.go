package discord

import (
	"sync"
	"time"

	"github.com/hugolgst/rich-go/client"

	"github.com/Qwinci/hzlauncher/pkg/errors"
)

const (
	stateIdle    = "In the main menu"
	statePlaying = "In game"
)

// Swapped out in tests; rich-go talks to a local IPC socket.
var (
	login       = client.Login
	logout      = client.Logout
	setActivity = client.SetActivity
)

// Presence shows launcher state as a Discord rich presence. It connects on
// first use so a missing Discord client only costs a logged warning.
type Presence struct {
	appID string

	mu       sync.Mutex
	loggedIn bool
}

func NewPresence(appID string) *Presence {
	return &Presence{appID: appID}
}

func (p *Presence) SetIdle() error {
	return p.set(client.Activity{State: stateIdle})
}

func (p *Presence) SetPlaying(version string) error {
	return p.set(client.Activity{State: statePlaying, Details: "Minecraft " + version})
}

// Close drops the IPC connection if one was made.
func (p *Presence) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loggedIn {
		logout()
		p.loggedIn = false
	}
}

func (p *Presence) set(activity client.Activity) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.appID == "" {
		return errors.New(errors.ErrInvalidInput, "discord app id is not configured")
	}
	if !p.loggedIn {
		if err := login(p.appID); err != nil {
			return errors.Wrap(err, errors.ErrNetwork, "failed to connect to discord")
		}
		p.loggedIn = true
	}

	now := time.Now()
	activity.Timestamps = &client.Timestamps{Start: &now}
	return errors.Wrap(setActivity(activity), errors.ErrNetwork, "failed to set discord activity")
}
