package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/landing-auth/internal/apperror"
)

// INPUT VALIDATION:
// Signup and login trim their input, copy it into a tagged struct and run
// it through one shared validator. Custom tags:
//
//	emailshape  local@domain.tld with no whitespace and exactly one "@"
//	singleline  no line breaks (records in the user table are one line each)
//
// "required" failures are reported before anything else, then the other
// validation_error tags, then invalid_email.

// emailPattern excludes the same whitespace set as isSpace: ASCII
// whitespace, \v, every Unicode separator and the byte order mark.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

var validate = newValidator()

type signupInput struct {
	Name     string `validate:"required,singleline"`
	Email    string `validate:"required,emailshape"`
	Password string `validate:"required,singleline"`
}

type loginInput struct {
	Email    string `validate:"required,emailshape"`
	Password string `validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	mustRegister(v, "emailshape", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	mustRegister(v, "singleline", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "\r\n")
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %q validation: %v", tag, err))
	}
}

// isSpace matches what a browser's String.prototype.trim strips.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\uFEFF':
		return true
	}
	return unicode.Is(unicode.Z, r)
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// Two emails identify the same account iff their normalized forms match.
func NormalizeEmail(email string) string {
	return strings.ToLower(trimSpace(email))
}

// IsValidEmail reports whether email has the shape local@domain.tld.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// checkInput validates in and converts the first failure to a domain error.
func checkInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("service/auth: validating input: %w", err)
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			field := strings.ToLower(fe.Field())
			return apperror.ValidationFailed(field, field+" is required")
		}
	}
	for _, fe := range fieldErrs {
		if fe.Tag() != "emailshape" {
			field := strings.ToLower(fe.Field())
			return apperror.ValidationFailed(field, field+" must not contain line breaks")
		}
	}
	return apperror.InvalidEmail(fmt.Sprint(fieldErrs[0].Value()))
}
