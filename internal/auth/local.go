package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenExpiry = 7 * 24 * time.Hour
	tokenIssuer = "ark-local"
)

// LocalProvider authenticates against the users table of the local SQLite
// database and issues HS256 access tokens.
type LocalProvider struct {
	db     *sqlx.DB
	secret []byte
	now    func() time.Time
}

// NewLocalProvider creates a provider that signs tokens with secret.
func NewLocalProvider(db *sqlx.DB, secret string) (*LocalProvider, error) {
	if secret == "" {
		return nil, fmt.Errorf("token signing secret is required")
	}
	return &LocalProvider{db: db, secret: []byte(secret), now: time.Now}, nil
}

type userRow struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	DisplayName  string    `db:"display_name"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r *userRow) toUser() *User {
	return &User{ID: r.ID, Email: r.Email, DisplayName: r.DisplayName}
}

// CreateUser registers a user with a bcrypt-hashed password.
func (p *LocalProvider) CreateUser(ctx context.Context, email, password, displayName string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email %q", email)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	row := userRow{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: string(hash),
		CreatedAt:    p.now().UTC(),
	}

	if _, err := p.db.NamedExecContext(ctx,
		`INSERT INTO users (id, email, display_name, password_hash, created_at)
		 VALUES (:id, :email, :display_name, :password_hash, :created_at)`,
		row,
	); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("user %s already exists", email)
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	return row.toUser(), nil
}

// SignIn checks the password and issues an access token.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	row, err := p.userByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	expiresAt := p.now().Add(tokenExpiry)
	token, err := p.issue(row, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	return &Session{AccessToken: token, ExpiresAt: expiresAt, User: row.toUser()}, nil
}

// User validates an access token and returns its user.
// The user row is re-read so deleted accounts lose access immediately.
func (p *LocalProvider) User(ctx context.Context, accessToken string) (*User, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var row userRow
	err = p.db.GetContext(ctx, &row,
		`SELECT id, email, display_name, password_hash, created_at FROM users WHERE id = ?`,
		claims.Subject,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	return row.toUser(), nil
}

func (p *LocalProvider) userByEmail(ctx context.Context, email string) (*userRow, error) {
	var row userRow
	if err := p.db.GetContext(ctx, &row,
		`SELECT id, email, display_name, password_hash, created_at FROM users WHERE email = ?`,
		email,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &row, nil
}

func (p *LocalProvider) issue(row *userRow, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   row.ID,
		IssuedAt:  jwt.NewNumericDate(p.now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}
