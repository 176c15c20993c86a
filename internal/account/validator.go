package account

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var (
	// Exactly 2-4 syllables from the Korean syllable block.
	usernamePattern = regexp.MustCompile(`^[가-힣]{2,4}$`)

	// The original policy is an anchored regex with lookaheads; RE2 has
	// none, so the charset match below is combined with the three
	// containment checks in ValidatePassword.
	passwordCharset = regexp.MustCompile(`^[A-Za-z0-9$@!%*#?&]{8,}$`)
)

const passwordSpecialChars = "$@!%*#?&"

var (
	errUsernameFormat = errors.New("please enter an exact 2-4 character Korean name")
	errPasswordFormat = errors.New("password must be at least 8 characters including English, a digit and at least one special character")
)

// ValidateUsername checks the display-name policy. Pure function.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return errUsernameFormat
	}
	return nil
}

// ValidatePassword checks the password-strength policy: at least 8
// characters from the allowed set, with at least one ASCII letter, one
// digit and one special character. Pure function.
func ValidatePassword(password string) error {
	if !passwordCharset.MatchString(password) {
		return errPasswordFormat
	}
	if !strings.ContainsFunc(password, isASCIILetter) {
		return errPasswordFormat
	}
	if !strings.ContainsAny(password, "0123456789") {
		return errPasswordFormat
	}
	if !strings.ContainsAny(password, passwordSpecialChars) {
		return errPasswordFormat
	}
	return nil
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// SignUpRequest carries the sign-up input; field keys in validation
// errors follow the json tags.
type SignUpRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Nickname *string `json:"nickname"`
}

func (r SignUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required,
			validation.By(func(interface{}) error { return ValidateUsername(r.Username) }),
		),
		validation.Field(&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(&r.Password,
			validation.Required,
			validation.By(func(interface{}) error { return ValidatePassword(r.Password) }),
		),
	)
}

// fieldErrorsOf flattens ozzo validation errors into per-field message
// lists. Non-validation errors pass through unchanged.
func fieldErrorsOf(err error, into FieldErrors) error {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	for field, ferr := range verrs {
		into.Add(field, ferr.Error())
	}
	return nil
}
