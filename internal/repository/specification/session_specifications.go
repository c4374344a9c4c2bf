package specification

import "gorm.io/gorm"

// BySessionID filters rows belonging to one conversation session. The
// session key is an opaque caller-supplied string.
type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}
