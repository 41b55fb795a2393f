package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shoply/shoply/validate"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrEmailTaken     = errors.New("email is already in use")
	ErrUsernameTaken  = errors.New("username is already in use")
	ErrAuthentication = errors.New("authentication failed")
)

type User struct {
	ID           string    `json:"id" db:"user_id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	Phone        string    `json:"phone" db:"phone"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

type UserNew struct {
	Username        string `json:"username" validate:"required,max=150"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirmation" validate:"required,eqfield=Password"`
	FirstName       string `json:"firstName" validate:"required,max=30"`
	LastName        string `json:"lastName" validate:"required,max=30"`
	Phone           string `json:"phone" validate:"required,phone"`
	Role            string `json:"role" validate:"required,oneof=customer seller"`
}

type Storer interface {
	Create(ctx context.Context, usr User) error
	QueryByID(ctx context.Context, userID string) (User, error)
	QueryByEmail(ctx context.Context, email string) (User, error)
	QueryByUsername(ctx context.Context, username string) (User, error)
}

type Core struct {
	storer Storer
}

func NewCore(storer Storer) *Core {
	return &Core{storer: storer}
}

// Register creates a new user. Email and username are stored lowercased
// and must not already be taken.
func (c *Core) Register(ctx context.Context, nu UserNew) (User, error) {
	email := strings.ToLower(nu.Email)
	username := strings.ToLower(nu.Username)

	if _, err := c.storer.QueryByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, fmt.Errorf("checking email uniqueness: %w", err)
	}

	if _, err := c.storer.QueryByUsername(ctx, username); err == nil {
		return User{}, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, fmt.Errorf("checking username uniqueness: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	usr := User{
		ID:           validate.GenerateID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    nu.FirstName,
		LastName:     nu.LastName,
		Phone:        nu.Phone,
		Role:         nu.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := c.storer.Create(ctx, usr); err != nil {
		return User{}, fmt.Errorf("creating user: %w", err)
	}

	return usr, nil
}

// Authenticate verifies email and password, returning the matching user.
func (c *Core) Authenticate(ctx context.Context, email string, password string) (User, error) {
	usr, err := c.storer.QueryByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrAuthentication
		}
		return User{}, fmt.Errorf("fetching user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(usr.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrAuthentication
	}

	return usr, nil
}

func (c *Core) QueryByID(ctx context.Context, userID string) (User, error) {
	return c.storer.QueryByID(ctx, userID)
}
