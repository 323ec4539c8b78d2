package muhasabah

import (
	"context"
	"time"
)

// Role is a member's position in the sitting hierarchy.
type Role string

const (
	RoleSittingMember       Role = "sitting-member"
	RoleSittingHead         Role = "sitting-head"
	RoleRegionalSittingHead Role = "regional-sitting-head"

	// legacy spelling still sent by older clients
	roleAliasRegionalHead = "sitting-regional-head"
)

// Roles lists every accepted role in display order.
var Roles = []Role{RoleSittingMember, RoleSittingHead, RoleRegionalSittingHead}

// LocationUnknown is stored when no location was given.
const LocationUnknown = "Unknown"

// Locations lists the states (and FCT) a member can belong to.
var Locations = []string{
	"Abia", "Adamawa", "Akwa Ibom", "Anambra", "Bauchi", "Bayelsa", "Benue",
	"Borno", "Cross River", "Delta", "Ebonyi", "Edo", "Ekiti", "Enugu", "FCT",
	"Gombe", "Imo", "Jigawa", "Kaduna", "Kano", "Katsina", "Kebbi", "Kogi",
	"Kwara", "Lagos", "Nasarawa", "Niger", "Ogun", "Ondo", "Osun", "Oyo",
	"Plateau", "Rivers", "Sokoto", "Taraba", "Yobe", "Zamfara",
}

// UserRecord is the persisted user as seen by the engine.
type UserRecord struct {
	ID           uint
	Email        string
	Username     string
	PasswordHash string
	Role         Role
	Location     string
	WhatsApp     string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	DateJoined   time.Time
}

// CreateUserInput is what the engine hands to a UserStore after validation and hashing.
type CreateUserInput struct {
	Email        string
	Username     string
	PasswordHash string
	Role         Role
	Location     string
	WhatsApp     string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
}

// UserStore persists users. Implementations must enforce email and username
// uniqueness themselves (unique indexes) and report violations as ErrAccountExists.
type UserStore interface {
	FindByID(ctx context.Context, id uint) (UserRecord, error)
	FindByUsername(ctx context.Context, username string) (UserRecord, error)
	// FindByEmailFold matches email case-insensitively.
	FindByEmailFold(ctx context.Context, email string) (UserRecord, error)
	Create(ctx context.Context, in CreateUserInput) (UserRecord, error)
	SetPasswordHash(ctx context.Context, id uint, hash string) error
	// Delete removes the user and everything it owns.
	Delete(ctx context.Context, id uint) error
}

// RegisterRequest is the self-service sign-up payload.
type RegisterRequest struct {
	Email    string
	Username string
	Password string
	Role     string
	Location string
	WhatsApp string
}

// NewUser is the administrative account creation payload. An empty Password
// creates an account that cannot log in with a password.
type NewUser struct {
	Email       string
	Username    string
	Password    string
	Role        string
	Location    string
	WhatsApp    string
	IsStaff     *bool
	IsSuperuser *bool
}

// LoginResult is returned by Register and Login.
type LoginResult struct {
	User         UserRecord
	AccessToken  string
	RefreshToken string
}

// AuthResult describes the caller behind a valid access token.
type AuthResult struct {
	UserID    uint
	TokenID   string
	ExpiresAt time.Time
}
