package user

// User is a registered account. The password is only ever stored hashed;
// neither the hash nor the salt is serialized outward.
type User struct {
	ID             int    `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	Email          string `db:"email" json:"email"`
	HashedPassword []byte `db:"password" json:"-"`
	HashSalt       []byte `db:"salt" json:"-"`
}
