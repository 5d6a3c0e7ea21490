package repository

import (
	"context"
	"database/sql"
	"time"
)

// MySQLTokenStore persists refresh-token hashes.
//
// Expected schema:
//
//	CREATE TABLE refresh_tokens (
//	    id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
//	    username   VARCHAR(64)  NOT NULL,
//	    token_hash CHAR(64)     NOT NULL,
//	    expires_at DATETIME     NOT NULL,
//	    revoked_at DATETIME     NULL,
//	    KEY idx_token_hash (token_hash)
//	);
type MySQLTokenStore struct{ DB *sql.DB }

// NewMySQLTokenStore binds a token store to the given database.
func NewMySQLTokenStore(db *sql.DB) *MySQLTokenStore { return &MySQLTokenStore{DB: db} }

// StoreRefresh inserts a refresh token hash row.
func (s *MySQLTokenStore) StoreRefresh(ctx context.Context, username, tokenHash string, exp time.Time) error {
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (username, token_hash, expires_at) VALUES (?,?,?)",
		username, tokenHash, exp)
	return err
}

// ValidateRefresh returns the username of a non-revoked, non-expired
// token hash.
func (s *MySQLTokenStore) ValidateRefresh(ctx context.Context, tokenHash string) (string, error) {
	var (
		username  string
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := s.DB.QueryRowContext(ctx,
		"SELECT username, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&username, &expiresAt, &revokedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrTokenInvalid
		}
		return "", err
	}
	if revokedAt.Valid || time.Now().UTC().After(expiresAt) {
		return "", ErrTokenInvalid
	}
	return username, nil
}

// RevokeByHash marks a token as revoked.
func (s *MySQLTokenStore) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := s.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

var _ TokenStore = (*MySQLTokenStore)(nil)
