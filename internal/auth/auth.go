// Package auth is the single-user session gate. It accepts one fixed demo
// credential pair and remembers the session in the persisted user record.
package auth

import (
	"context"
	"crypto/subtle"

	"github.com/Joseda-hg/lazyplan/internal/metrics"
	"github.com/Joseda-hg/lazyplan/internal/model"
)

const (
	DemoUsername = "admin"
	DemoPassword = "admin123"
)

// Sessions persists the user record. *db.Adapter satisfies it.
type Sessions interface {
	LoadUser(ctx context.Context) *model.User
	SaveUser(ctx context.Context, user model.User)
	ClearUser(ctx context.Context)
}

type Gate struct {
	sessions Sessions
}

func NewGate(sessions Sessions) *Gate {
	return &Gate{sessions: sessions}
}

// Login reports whether the pair matches. Only a match touches the stored
// session.
func (g *Gate) Login(ctx context.Context, username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(DemoUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(DemoPassword)) == 1
	if !userOK || !passOK {
		metrics.Logins.WithLabelValues("rejected").Inc()
		return false
	}
	metrics.Logins.WithLabelValues("ok").Inc()
	g.sessions.SaveUser(ctx, model.User{Username: username, IsLoggedIn: true})
	return true
}

func (g *Gate) Logout(ctx context.Context) {
	g.sessions.ClearUser(ctx)
}

func (g *Gate) Current(ctx context.Context) *model.User {
	return g.sessions.LoadUser(ctx)
}

func (g *Gate) IsAuthenticated(ctx context.Context) bool {
	user := g.sessions.LoadUser(ctx)
	return user != nil && user.IsLoggedIn
}
