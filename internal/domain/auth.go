package domain

import "time"

// Token describes the claims carried by an issued access token.
type Token struct {
	ID        string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
