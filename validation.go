package muhasabah

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/MrEthical07/muhasabah/password"
)

const (
	msgRequired      = "This field is required."
	msgInvalidEmail  = "Enter a valid email address."
	msgWhatsApp      = "Must be +234 followed by 10 digits, e.g. +2348012345678."
	msgEmailTaken    = "user with this email already exists."
	msgUsernameTaken = "user with this username already exists."

	maxEmailLen    = 254
	maxUsernameLen = 150
	maxWhatsAppLen = 14
)

var whatsAppPattern = regexp.MustCompile(`^\+234\d{10}$`)

// ParseRole resolves raw to a Role, accepting the legacy regional head spelling.
func ParseRole(raw string) (Role, bool) {
	raw = strings.TrimSpace(raw)
	if raw == roleAliasRegionalHead {
		return RoleRegionalSittingHead, true
	}
	for _, r := range Roles {
		if string(r) == raw {
			return r, true
		}
	}
	return "", false
}

// IsLocation reports whether loc is one of Locations.
func IsLocation(loc string) bool {
	for _, l := range Locations {
		if l == loc {
			return true
		}
	}
	return false
}

// NormalizeEmail trims the address and lower-cases its domain part.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

func validateEmail(raw string) (string, string) {
	email := NormalizeEmail(raw)
	if email == "" {
		return "", msgRequired
	}
	if len(email) > maxEmailLen {
		return "", maxLenMessage(maxEmailLen)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return "", msgInvalidEmail
	}
	domain := email[strings.LastIndex(email, "@")+1:]
	if !strings.Contains(domain, ".") {
		return "", msgInvalidEmail
	}
	return email, ""
}

func validateUsername(raw string) (string, string) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", msgRequired
	}
	if utf8.RuneCountInString(name) > maxUsernameLen {
		return "", maxLenMessage(maxUsernameLen)
	}
	return name, ""
}

func validatePassword(raw string) string {
	if raw == "" {
		return msgRequired
	}
	if utf8.RuneCountInString(raw) < password.MinPasswordBytes {
		return fmt.Sprintf("Ensure this field has at least %d characters.", password.MinPasswordBytes)
	}
	return ""
}

func validateRole(raw string) (Role, string) {
	if strings.TrimSpace(raw) == "" {
		return "", msgRequired
	}
	role, ok := ParseRole(raw)
	if !ok {
		return "", choiceMessage(raw)
	}
	return role, ""
}

func validateLocation(raw string) (string, string) {
	loc := strings.TrimSpace(raw)
	if loc == "" {
		return "", msgRequired
	}
	if !IsLocation(loc) {
		return "", choiceMessage(raw)
	}
	return loc, ""
}

// validateWhatsApp accepts "" only when optional is true.
func validateWhatsApp(raw string, optional bool) (string, string) {
	num := strings.TrimSpace(raw)
	if num == "" {
		if optional {
			return "", ""
		}
		return "", msgRequired
	}
	if len(num) > maxWhatsAppLen || !whatsAppPattern.MatchString(num) {
		return "", msgWhatsApp
	}
	return num, ""
}

func choiceMessage(v string) string {
	return fmt.Sprintf("%q is not a valid choice.", v)
}

func maxLenMessage(n int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", n)
}

// validateRegistration checks every field of req and reports all problems at once.
func validateRegistration(req RegisterRequest) (CreateUserInput, error) {
	errs := FieldErrors{}
	in := CreateUserInput{IsActive: true}

	var msg string
	if in.Email, msg = validateEmail(req.Email); msg != "" {
		errs.Add("email", msg)
	}
	if in.Username, msg = validateUsername(req.Username); msg != "" {
		errs.Add("username", msg)
	}
	if msg = validatePassword(req.Password); msg != "" {
		errs.Add("password", msg)
	}
	if in.Role, msg = validateRole(req.Role); msg != "" {
		errs.Add("role", msg)
	}
	if in.Location, msg = validateLocation(req.Location); msg != "" {
		errs.Add("location", msg)
	}
	if in.WhatsApp, msg = validateWhatsApp(req.WhatsApp, false); msg != "" {
		errs.Add("whatsapp", msg)
	}

	return in, errs.Err()
}

// validateNewUser applies the administrative rules: only email and username
// are mandatory, the rest falls back to defaults.
func validateNewUser(u NewUser) (CreateUserInput, error) {
	errs := FieldErrors{}
	in := CreateUserInput{
		IsActive: true,
		Role:     RoleSittingMember,
		Location: LocationUnknown,
	}

	var msg string
	if in.Email, msg = validateEmail(u.Email); msg != "" {
		if msg == msgRequired {
			msg = "Email is required"
		}
		errs.Add("email", msg)
	}
	if in.Username, msg = validateUsername(u.Username); msg != "" {
		if msg == msgRequired {
			msg = "Username is required"
		}
		errs.Add("username", msg)
	}
	if u.Password != "" {
		if msg = validatePassword(u.Password); msg != "" {
			errs.Add("password", msg)
		}
	}
	if strings.TrimSpace(u.Role) != "" {
		if in.Role, msg = validateRole(u.Role); msg != "" {
			errs.Add("role", msg)
		}
	}
	if strings.TrimSpace(u.Location) != "" {
		if in.Location, msg = validateLocation(u.Location); msg != "" {
			errs.Add("location", msg)
		}
	}
	if in.WhatsApp, msg = validateWhatsApp(u.WhatsApp, true); msg != "" {
		errs.Add("whatsapp", msg)
	}
	if u.IsStaff != nil {
		in.IsStaff = *u.IsStaff
	}
	if u.IsSuperuser != nil {
		in.IsSuperuser = *u.IsSuperuser
	}

	return in, errs.Err()
}
