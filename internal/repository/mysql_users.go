package repository

import (
	"context"
	"database/sql"
	"strings"
)

// MySQLUserStore persists accounts in the users table.
//
// Expected schema:
//
//	CREATE TABLE users (
//	    username   VARCHAR(64) PRIMARY KEY,
//	    student_id VARCHAR(32) NOT NULL,
//	    phone      VARCHAR(32) NOT NULL DEFAULT '',
//	    created_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
type MySQLUserStore struct{ DB *sql.DB }

// NewMySQLUserStore binds a user store to the given database.
func NewMySQLUserStore(db *sql.DB) *MySQLUserStore { return &MySQLUserStore{DB: db} }

// Create inserts a user, mapping a duplicate-key error on the username
// primary key to ErrUsernameTaken.
func (s *MySQLUserStore) Create(ctx context.Context, u User) error {
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO users (username, student_id, phone) VALUES (?,?,?)",
		u.Username, u.StudentID, u.Phone)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

// Get fetches a user by username.
func (s *MySQLUserStore) Get(ctx context.Context, username string) (User, error) {
	var u User
	err := s.DB.QueryRowContext(ctx,
		"SELECT username, student_id, phone FROM users WHERE username=? LIMIT 1",
		username).Scan(&u.Username, &u.StudentID, &u.Phone)
	if err == sql.ErrNoRows {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

var _ UserStore = (*MySQLUserStore)(nil)
var _ UserStore = (*FileUserStore)(nil)
