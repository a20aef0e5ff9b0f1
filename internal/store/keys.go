package store

// Key prefixes for the badger cart database.
const (
	cartPrefix = "cart:"
)

func cartKey(sessionID string) []byte {
	return []byte(cartPrefix + sessionID)
}
