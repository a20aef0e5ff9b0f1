package store

// PutRaw exposes putRaw to external tests.
func (s *CartStore) PutRaw(sessionID string, data []byte) error {
	return s.putRaw(sessionID, data)
}
