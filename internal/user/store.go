package user

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/tvcat/tvcat/internal/database"
)

// emailShape is the loose classifier used to decide whether a login
// identifier should be treated as an email address or an account name.
// It is not an email validator.
var emailShape = regexp.MustCompile(`\S+@\S+\.\S+`)

type Store struct{}

func NewStore() *Store { return &Store{} }

func (store *Store) GetByName(db database.Queryable, name string) (*User, error) {
	var result User
	if err := db.Get(&result, `SELECT * FROM users WHERE name=$1`, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return &result, nil
}

func (store *Store) GetByEmail(db database.Queryable, email string) (*User, error) {
	var result User
	if err := db.Get(&result, `SELECT * FROM users WHERE email=$1`, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return &result, nil
}

// GetByNameOrEmail classifies the identifier by shape and looks the user
// up by email when it resembles one, by name otherwise.
func (store *Store) GetByNameOrEmail(db database.Queryable, nameOrEmail string) (*User, error) {
	if emailShape.MatchString(nameOrEmail) {
		return store.GetByEmail(db, nameOrEmail)
	}

	return store.GetByName(db, nameOrEmail)
}

func (store *Store) Insert(db database.Queryable, user *User) (*User, error) {
	var created User
	err := db.QueryRowx(`
		INSERT INTO users(name, email, password, salt)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, user.Name, user.Email, user.HashedPassword, user.HashSalt).StructScan(&created)
	if err != nil {
		return nil, fmt.Errorf("failed to insert new user: %w", err)
	}

	return &created, nil
}
