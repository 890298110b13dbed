// internal/model/auth.go
package model

import "time"

type User struct {
	ID          int    `db:"id" json:"id"`
	Username    string `db:"username" json:"username"`
	Email       string `db:"email" json:"email"`
	FirstName   string `db:"first_name" json:"first_name"`
	LastName    string `db:"last_name" json:"last_name"`
	IsStaff     bool   `db:"is_staff" json:"is_staff"`
	IsSuperuser bool   `db:"is_superuser" json:"is_superuser"`
}

const (
	ClientConfidential     = "confidential"
	GrantClientCredentials = "client-credentials"
)

// Application is an OAuth2 client-credentials application.
type Application struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	UserID       int       `db:"user_id" json:"-"`
	ClientID     string    `db:"client_id" json:"client_id"`
	ClientSecret string    `db:"client_secret" json:"client_secret"`
	ClientType   string    `db:"client_type" json:"client_type"`
	GrantType    string    `db:"grant_type" json:"grant_type"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// AccessToken tracks an issued bearer token by its jti so it can be revoked.
type AccessToken struct {
	JTI           string    `db:"jti" json:"jti"`
	ApplicationID int       `db:"application_id" json:"application_id"`
	Scope         string    `db:"scope" json:"scope"`
	ExpiresAt     time.Time `db:"expires_at" json:"expires_at"`
	Revoked       bool      `db:"revoked" json:"revoked"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
