package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordbookapp/wordbook/pkg/identity"
	"github.com/wordbookapp/wordbook/pkg/models"
)

func TestGuest(t *testing.T) {
	assert.True(t, identity.Identity{}.Guest())
	assert.Equal(t, "guest", identity.Identity{}.String())

	id := identity.Identity{UserID: models.NewUserID()}
	assert.False(t, id.Guest())
	assert.Equal(t, id.UserID.String(), id.String())
}

func TestStaticEmitsOnSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	id := identity.Identity{UserID: models.NewUserID()}
	p := identity.NewStatic(id)
	assert.Equal(t, id, p.Current())

	select {
	case got := <-p.Watch(ctx):
		assert.Equal(t, id, got)
	case <-time.After(time.Second):
		t.Fatal("expected initial identity on subscription")
	}
}

func TestSwitchableNotifiesWatchers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := identity.NewSwitchable(identity.Identity{})
	ch := p.Watch(ctx)

	require.Equal(t, identity.Identity{}, <-ch, "initial identity first")

	signedIn := identity.Identity{UserID: models.NewUserID()}
	p.Set(signedIn)
	assert.Equal(t, signedIn, <-ch)
	assert.Equal(t, signedIn, p.Current())

	p.Set(identity.Identity{})
	assert.Equal(t, identity.Identity{}, <-ch)
}
