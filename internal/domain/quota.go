package domain

// FreeDeckLimit is the maximum number of decks a user without an unlimited
// entitlement may own.
const FreeDeckLimit = 3

// DeckQuotaPolicy decides whether a user may create another deck. It is a
// pure policy object: the current deck count and the entitlement flag are
// supplied by the caller (counting belongs to the store, entitlement
// resolution to the authentication collaborator), and the policy holds no
// state of its own.
type DeckQuotaPolicy struct {
	limit int
}

// NewDeckQuotaPolicy creates a policy with the given deck cap.
// A non-positive limit falls back to FreeDeckLimit.
func NewDeckQuotaPolicy(limit int) DeckQuotaPolicy {
	if limit <= 0 {
		limit = FreeDeckLimit
	}
	return DeckQuotaPolicy{limit: limit}
}

// Limit returns the deck cap applied to users without an unlimited
// entitlement.
func (p DeckQuotaPolicy) Limit() int {
	return p.limit
}

// CanCreateDeck reports whether a user owning currentDeckCount decks may
// create another. Users with the unlimited entitlement always may; everyone
// else is held to a strict cap. Callers must re-check immediately before
// insertion: the count can go stale between check and create.
func (p DeckQuotaPolicy) CanCreateDeck(currentDeckCount int64, hasUnlimitedDecks bool) bool {
	if hasUnlimitedDecks {
		return true
	}
	return currentDeckCount < int64(p.limit)
}
