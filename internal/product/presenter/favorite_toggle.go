package presenter

import (
	"context"
	"errors"
	"sync"
)

// OptimisticFavoriteID stands in for the server id while an add is in flight
const OptimisticFavoriteID = "optimistic"

var (
	ErrSignInRequired = errors.New("sign in to save favorites")
	ErrTogglePending  = errors.New("favorite toggle already in progress")
)

// Control is what a favorite button should render
type Control int

const (
	ControlSignIn Control = iota
	ControlToggle
	ControlPending
)

func (c Control) String() string {
	switch c {
	case ControlSignIn:
		return "sign-in"
	case ControlToggle:
		return "toggle"
	case ControlPending:
		return "pending"
	default:
		return "unknown"
	}
}

// FavoriteToggler flips the signed-in viewer's favorite on the server and returns the
// resulting favorite id, nil when removed
type FavoriteToggler interface {
	ToggleFavorite(ctx context.Context, productID string) (*string, error)
}

// FavoriteToggle holds the favorite state of one product card
type FavoriteToggle struct {
	toggler   FavoriteToggler
	productID string
	signedIn  bool

	mu         sync.Mutex
	favoriteID *string
	pending    bool
}

func NewFavoriteToggle(toggler FavoriteToggler, productID string, initialFavoriteID *string, signedIn bool) *FavoriteToggle {
	return &FavoriteToggle{
		toggler:    toggler,
		productID:  productID,
		signedIn:   signedIn,
		favoriteID: cloneID(initialFavoriteID),
	}
}

func (t *FavoriteToggle) IsFavorite() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.favoriteID != nil
}

// FavoriteID returns the held id, which may be OptimisticFavoriteID while pending
func (t *FavoriteToggle) FavoriteID() *string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneID(t.favoriteID)
}

func (t *FavoriteToggle) Control() Control {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case !t.signedIn:
		return ControlSignIn
	case t.pending:
		return ControlPending
	default:
		return ControlToggle
	}
}

// Toggle flips the local state at once, sends exactly one request and then adopts
// the id reported by the server. If the request fails the previous state is restored.
func (t *FavoriteToggle) Toggle(ctx context.Context) error {
	t.mu.Lock()
	if !t.signedIn {
		t.mu.Unlock()
		return ErrSignInRequired
	}
	if t.pending {
		t.mu.Unlock()
		return ErrTogglePending
	}

	previous := t.favoriteID
	if previous == nil {
		optimistic := OptimisticFavoriteID
		t.favoriteID = &optimistic
	} else {
		t.favoriteID = nil
	}
	t.pending = true
	t.mu.Unlock()

	favoriteID, err := t.toggler.ToggleFavorite(ctx, t.productID)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = false

	if err != nil {
		t.favoriteID = previous
		return err
	}
	t.favoriteID = cloneID(favoriteID)
	return nil
}

func cloneID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
