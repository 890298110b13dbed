package repository

import (
	"database/sql"

	"golang.org/x/crypto/bcrypt"

	"github.com/savannahlabs/orders-backend/internal/model"
)

// AuthRepositoryInterface covers users, OAuth2 applications and issued tokens
type AuthRepositoryInterface interface {
	GetOrCreateUser(username string, defaults model.User) (*model.User, bool, error)
	EnsureSuperuser(u model.User, password string) error
	GetApplicationByName(name string) (*model.Application, error)
	GetApplicationByClientID(clientID string) (*model.Application, error)
	CreateApplication(app *model.Application) error
	SaveToken(t *model.AccessToken) error
	GetToken(jti string) (*model.AccessToken, error)
	RevokeToken(jti string) error
}

type AuthRepository struct {
	DB *sql.DB
}

const userSelect = `
	SELECT id, username, email, first_name, last_name, is_staff, is_superuser
	FROM users
`

// GetOrCreateUser returns the user with the given username, creating it from
// defaults if missing. The bool reports whether a row was created.
func (r *AuthRepository) GetOrCreateUser(username string, defaults model.User) (*model.User, bool, error) {
	var u model.User
	err := r.DB.QueryRow(userSelect+` WHERE username = $1`, username).Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.IsStaff, &u.IsSuperuser,
	)
	if err == nil {
		return &u, false, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, err
	}

	u = defaults
	u.Username = username
	err = r.DB.QueryRow(`
		INSERT INTO users (username, email, first_name, last_name, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, u.Username, u.Email, u.FirstName, u.LastName, u.IsStaff, u.IsSuperuser).Scan(&u.ID)
	if err != nil {
		return nil, false, err
	}
	return &u, true, nil
}

// EnsureSuperuser creates the bootstrap superuser if it does not exist, or
// refreshes its details if it does.
func (r *AuthRepository) EnsureSuperuser(u model.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var id int
	err = r.DB.QueryRow(`SELECT id FROM users WHERE username = $1`, u.Username).Scan(&id)
	if err == sql.ErrNoRows {
		_, err = r.DB.Exec(`
			INSERT INTO users (username, password, email, first_name, last_name, is_staff, is_superuser)
			VALUES ($1, $2, $3, $4, $5, TRUE, TRUE)
		`, u.Username, string(hash), u.Email, u.FirstName, u.LastName)
		return err
	}
	if err != nil {
		return err
	}

	_, err = r.DB.Exec(`
		UPDATE users SET email=$1, first_name=$2, last_name=$3 WHERE id=$4
	`, u.Email, u.FirstName, u.LastName, id)
	return err
}

const applicationSelect = `
	SELECT id, name, user_id, client_id, client_secret, client_type, grant_type, created_at
	FROM oauth_applications
`

func (r *AuthRepository) getApplication(where string, arg any) (*model.Application, error) {
	var app model.Application
	err := r.DB.QueryRow(applicationSelect+where, arg).Scan(
		&app.ID, &app.Name, &app.UserID, &app.ClientID, &app.ClientSecret,
		&app.ClientType, &app.GrantType, &app.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &app, nil
}

func (r *AuthRepository) GetApplicationByName(name string) (*model.Application, error) {
	return r.getApplication(` WHERE name = $1`, name)
}

func (r *AuthRepository) GetApplicationByClientID(clientID string) (*model.Application, error) {
	return r.getApplication(` WHERE client_id = $1`, clientID)
}

func (r *AuthRepository) CreateApplication(app *model.Application) error {
	query := `
		INSERT INTO oauth_applications (name, user_id, client_id, client_secret, client_type, grant_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(
		query,
		app.Name, app.UserID, app.ClientID, app.ClientSecret, app.ClientType, app.GrantType,
	).Scan(&app.ID, &app.CreatedAt)
}

func (r *AuthRepository) SaveToken(t *model.AccessToken) error {
	query := `
		INSERT INTO access_tokens (jti, application_id, scope, expires_at, revoked)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING created_at
	`
	return r.DB.QueryRow(query, t.JTI, t.ApplicationID, t.Scope, t.ExpiresAt).Scan(&t.CreatedAt)
}

func (r *AuthRepository) GetToken(jti string) (*model.AccessToken, error) {
	query := `
		SELECT jti, application_id, scope, expires_at, revoked, created_at
		FROM access_tokens
		WHERE jti = $1
	`
	var t model.AccessToken
	err := r.DB.QueryRow(query, jti).Scan(
		&t.JTI, &t.ApplicationID, &t.Scope, &t.ExpiresAt, &t.Revoked, &t.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not issued by us
		}
		return nil, err
	}
	return &t, nil
}

// RevokeToken marks the token revoked. Unknown tokens are a no-op, matching
// RFC 7009 revocation semantics.
func (r *AuthRepository) RevokeToken(jti string) error {
	_, err := r.DB.Exec(`UPDATE access_tokens SET revoked=TRUE WHERE jti=$1`, jti)
	return err
}

var _ AuthRepositoryInterface = (*AuthRepository)(nil)
