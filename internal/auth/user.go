package auth

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tobsdb/tdbrel/pkg"
	"golang.org/x/crypto/bcrypt"
)

type TdbUserRole int

const (
	TdbUserRoleAdmin TdbUserRole = iota
	TdbUserRoleReadWrite
	TdbUserRoleReadOnly
)

func (r TdbUserRole) String() string {
	switch r {
	case TdbUserRoleAdmin:
		return "admin"
	case TdbUserRoleReadWrite:
		return "read-write"
	case TdbUserRoleReadOnly:
		return "read-only"
	}
	return fmt.Sprintf("TdbUserRole(%d)", int(r))
}

var (
	ErrUnauthorized            = errors.New("connection unauthorized")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrDuplicateUser           = errors.New("user already exists")
)

type TdbUser struct {
	Id       string
	Name     string
	Password []byte
	Role     TdbUserRole
}

// Used for every connection when no users are registered.
var Anonymous = &TdbUser{Id: "anonymous", Name: "anonymous", Role: TdbUserRoleAdmin}

func NewUser(name, password string, role TdbUserRole) (*TdbUser, error) {
	if len(name) == 0 {
		return nil, errors.New("user name cannot be empty")
	}
	// password max size is 72 bytes because of bcrypt limit
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &TdbUser{uuid.New().String(), name, hashed, role}, nil
}

func (u *TdbUser) ValidateUser(password string) bool {
	return bcrypt.CompareHashAndPassword(u.Password, []byte(password)) == nil
}

func (u *TdbUser) HasClearance(r TdbUserRole) bool { return u.Role <= r }

// Users holds the accounts allowed to connect. It is filled at startup and
// only read afterwards.
type Users struct {
	users pkg.Map[string, *TdbUser]
}

func NewUsers() *Users {
	return &Users{pkg.Map[string, *TdbUser]{}}
}

func (u *Users) Add(user *TdbUser) error {
	if u.users.Has(user.Name) {
		return fmt.Errorf("%w: %s", ErrDuplicateUser, user.Name)
	}
	u.users.Set(user.Name, user)
	return nil
}

func (u *Users) Len() int { return len(u.users) }

// Authenticate checks a name and password against the registered users.
// With no users registered every connection is let in as Anonymous.
func (u *Users) Authenticate(name, password string) (*TdbUser, error) {
	if u.Len() == 0 {
		return Anonymous, nil
	}
	user := u.users.Get(name)
	if user == nil || !user.ValidateUser(password) {
		return nil, ErrUnauthorized
	}
	return user, nil
}
