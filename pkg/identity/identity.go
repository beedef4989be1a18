// Package identity models the externally-owned authentication service as
// the one capability the engine actually needs: knowing who the current
// viewer is and hearing about changes. Sign-in and sign-up themselves happen
// outside this module.
//
// Providers are injected at construction, never reached through globals, so
// a controller's subscription lifetime is tied to the controller instance.
package identity

import (
	"context"
	"sync"

	"github.com/wordbookapp/wordbook/pkg/models"
)

// Identity is the current viewer. The zero value means "no viewer" (guest).
type Identity struct {
	UserID models.UserID
}

// Guest reports whether no viewer is signed in.
func (id Identity) Guest() bool {
	return id.UserID.IsZero()
}

func (id Identity) String() string {
	if id.Guest() {
		return "guest"
	}
	return id.UserID.String()
}

// Provider announces the current viewer and subsequent changes. Watch
// channels receive the current identity immediately on subscription, then
// one value per sign-in or sign-out, and close when ctx is done.
type Provider interface {
	Current() Identity
	Watch(ctx context.Context) <-chan Identity
}

// Static is a Provider for a fixed identity (the CLI's signed-in user, or
// the guest in offline mode).
type Static struct {
	id Identity
}

func NewStatic(id Identity) *Static {
	return &Static{id: id}
}

func (s *Static) Current() Identity {
	return s.id
}

func (s *Static) Watch(ctx context.Context) <-chan Identity {
	ch := make(chan Identity, 1)
	ch <- s.id
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}

// Switchable is a Provider whose identity can change at runtime. It backs
// tests that simulate sign-in/out transitions and any embedding that plugs
// in a real auth service.
type Switchable struct {
	mu       sync.Mutex
	id       Identity
	watchers []chan Identity
}

func NewSwitchable(initial Identity) *Switchable {
	return &Switchable{id: initial}
}

func (s *Switchable) Current() Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Set switches the current identity and notifies every watcher. A watcher
// that has fallen far behind is skipped rather than blocked on.
func (s *Switchable) Set(id Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	for _, ch := range s.watchers {
		select {
		case ch <- id:
		default:
		}
	}
}

func (s *Switchable) Watch(ctx context.Context) <-chan Identity {
	ch := make(chan Identity, 16)

	s.mu.Lock()
	ch <- s.id
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch
}
