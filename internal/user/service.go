package user

import (
	"github.com/tvcat/tvcat/internal/database"
	"github.com/tvcat/tvcat/internal/fault"
	"github.com/tvcat/tvcat/pkg/logger"
)

var log = logger.Get("UserService")

type (
	UserStore interface {
		GetByName(db database.Queryable, name string) (*User, error)
		GetByEmail(db database.Queryable, email string) (*User, error)
		GetByNameOrEmail(db database.Queryable, nameOrEmail string) (*User, error)
		Insert(db database.Queryable, user *User) (*User, error)
	}

	// Service owns account uniqueness. It only ever receives an
	// already-hashed credential to persist; hashing and verification
	// belong to the auth layer's Hasher.
	Service struct {
		db    database.Queryable
		store UserStore
	}
)

func NewService(db database.Queryable, store UserStore) *Service {
	return &Service{db: db, store: store}
}

// Add registers a new account. Name and email uniqueness are checked one
// after the other (two queries, two distinct failure messages) before the
// insert; the sequence is not atomic.
func (service *Service) Add(name string, email string, credential Credential) (*User, error) {
	nameTaken, err := service.store.GetByName(service.db, name)
	if err != nil {
		return nil, fault.Internal(err)
	}
	if nameTaken != nil {
		return nil, fault.Conflict("User with name %s already exists", name)
	}

	emailTaken, err := service.store.GetByEmail(service.db, email)
	if err != nil {
		return nil, fault.Internal(err)
	}
	if emailTaken != nil {
		return nil, fault.Conflict("User with email %s already exists", email)
	}

	created, err := service.store.Insert(service.db, &User{
		Name:           name,
		Email:          email,
		HashedPassword: credential.Hash,
		HashSalt:       credential.Salt,
	})
	if err != nil {
		return nil, fault.Internal(err)
	}

	log.Debugf("Registered user %d ('%s')\n", created.ID, created.Name)
	return created, nil
}

// FindForLogin resolves a login identifier (name or email) to the stored
// account, including its credential hash so the caller can verify the
// supplied password. This service never compares credentials itself.
func (service *Service) FindForLogin(nameOrEmail string) (*User, error) {
	stored, err := service.store.GetByNameOrEmail(service.db, nameOrEmail)
	if err != nil {
		return nil, fault.Internal(err)
	}
	if stored == nil {
		return nil, fault.NotFound("No such user exists!")
	}

	return stored, nil
}
