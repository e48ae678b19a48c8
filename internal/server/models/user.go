package models

import "time"

// User is a registered account. Rows are never updated or deleted.
type User struct {
	ID           int64
	UserName     string
	PasswordHash []byte
	CreatedAt    time.Time
}
