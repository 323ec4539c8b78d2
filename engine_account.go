package muhasabah

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/muhasabah/password"
)

const msgAccountExists = "user with this email or username already exists."

// Register validates req, creates an active account and issues a token pair.
//
// Every field problem is reported in one *ValidationError. A taken email or
// username is a field error that also matches ErrAccountExists.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*LoginResult, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	in, err := validateRegistration(req)
	if err != nil {
		e.metricInc(MetricRegisterInvalid)
		return nil, err
	}

	hash, err := e.passwordHash.Hash(req.Password)
	if err != nil {
		e.metricInc(MetricRegisterInvalid)
		return nil, passwordFieldError(err)
	}
	in.PasswordHash = hash

	user, err := e.createAccount(ctx, in)
	if err != nil {
		if errors.Is(err, ErrAccountExists) {
			e.metricInc(MetricRegisterDuplicate)
			e.emitAudit(ctx, auditEventRegisterDuplicate, false, 0, err, nil)
		}
		return nil, err
	}

	access, refresh, err := e.issuePair(user)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, user.ID, nil, nil)
	e.logger.WithField("user_id", user.ID).Info("user registered")

	return &LoginResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// CreateUser creates an account administratively. Only email and username are
// required; without a password the account gets an unusable credential.
func (e *Engine) CreateUser(ctx context.Context, u NewUser) (UserRecord, error) {
	if !e.ready() {
		return UserRecord{}, ErrEngineNotReady
	}

	in, err := validateNewUser(u)
	if err != nil {
		return UserRecord{}, err
	}

	if u.Password != "" {
		in.PasswordHash, err = e.passwordHash.Hash(u.Password)
		if err != nil {
			return UserRecord{}, passwordFieldError(err)
		}
	} else {
		in.PasswordHash, err = password.Unusable()
		if err != nil {
			return UserRecord{}, err
		}
	}

	return e.createAccount(ctx, in)
}

// CreateSuperuser creates a staff superuser. IsStaff and IsSuperuser default
// to true; passing false for either fails with ErrSuperuserFlags.
func (e *Engine) CreateSuperuser(ctx context.Context, u NewUser) (UserRecord, error) {
	yes := true
	if u.IsStaff == nil {
		u.IsStaff = &yes
	}
	if u.IsSuperuser == nil {
		u.IsSuperuser = &yes
	}
	if !*u.IsStaff {
		return UserRecord{}, fmt.Errorf("%w: is_staff=false", ErrSuperuserFlags)
	}
	if !*u.IsSuperuser {
		return UserRecord{}, fmt.Errorf("%w: is_superuser=false", ErrSuperuserFlags)
	}
	return e.CreateUser(ctx, u)
}

// SetPassword replaces the stored hash of userID.
func (e *Engine) SetPassword(ctx context.Context, userID uint, plaintext string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	hash, err := e.passwordHash.Hash(plaintext)
	if err != nil {
		return passwordFieldError(err)
	}
	return e.userStore.SetPasswordHash(ctx, userID, hash)
}

// VerifyPassword reports whether plaintext matches user's stored hash.
// Unusable and malformed hashes never match.
func (e *Engine) VerifyPassword(user UserRecord, plaintext string) bool {
	if !e.ready() {
		return false
	}
	ok, err := e.passwordHash.Verify(plaintext, user.PasswordHash)
	return err == nil && ok
}

// GetUser returns the account with the given id.
func (e *Engine) GetUser(ctx context.Context, id uint) (UserRecord, error) {
	if !e.ready() {
		return UserRecord{}, ErrEngineNotReady
	}
	return e.userStore.FindByID(ctx, id)
}

// DeleteUser removes the account and everything it owns.
func (e *Engine) DeleteUser(ctx context.Context, id uint) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if err := e.userStore.Delete(ctx, id); err != nil {
		return err
	}
	e.metricInc(MetricAccountDeleted)
	e.emitAudit(ctx, auditEventAccountDeleted, true, id, nil, nil)
	return nil
}

// createAccount reports taken fields before inserting. The unique indexes
// still decide concurrent inserts; the loser gets a non-field error.
func (e *Engine) createAccount(ctx context.Context, in CreateUserInput) (UserRecord, error) {
	errs := FieldErrors{}

	if _, err := e.userStore.FindByEmailFold(ctx, in.Email); err == nil {
		errs.Add("email", msgEmailTaken)
	} else if !errors.Is(err, ErrUserNotFound) {
		return UserRecord{}, fmt.Errorf("email lookup: %w", err)
	}
	if _, err := e.userStore.FindByUsername(ctx, in.Username); err == nil {
		errs.Add("username", msgUsernameTaken)
	} else if !errors.Is(err, ErrUserNotFound) {
		return UserRecord{}, fmt.Errorf("username lookup: %w", err)
	}
	if !errs.Empty() {
		return UserRecord{}, &ValidationError{Fields: errs, Cause: ErrAccountExists}
	}

	user, err := e.userStore.Create(ctx, in)
	if errors.Is(err, ErrAccountExists) {
		return UserRecord{}, &ValidationError{
			Fields: FieldErrors{"non_field_errors": {msgAccountExists}},
			Cause:  ErrAccountExists,
		}
	}
	if err != nil {
		return UserRecord{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func passwordFieldError(err error) error {
	switch {
	case errors.Is(err, password.ErrPasswordTooShort):
		return fieldError("password", fmt.Sprintf("Ensure this field has at least %d characters.", password.MinPasswordBytes))
	case errors.Is(err, password.ErrPasswordTooLong):
		return fieldError("password", maxLenMessage(password.DefaultMaxPasswordBytes))
	default:
		return fmt.Errorf("hash password: %w", err)
	}
}
