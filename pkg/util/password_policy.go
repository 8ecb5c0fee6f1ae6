package util

import (
	"errors"
	"fmt"
	"strings"
)

// PasswordValidator checks a candidate password against one policy rule.
// Username and email are passed so rules can reject passwords derived from
// account attributes.
type PasswordValidator interface {
	Validate(password, username, email string) error
}

// MinimumLengthValidator rejects passwords shorter than Min characters
type MinimumLengthValidator struct {
	Min int
}

func (v MinimumLengthValidator) Validate(password, _, _ string) error {
	if len(password) < v.Min {
		return fmt.Errorf("this password is too short, it must contain at least %d characters", v.Min)
	}
	return nil
}

// CommonPasswordValidator rejects passwords found in a known-passwords list
type CommonPasswordValidator struct {
	passwords map[string]struct{}
}

func NewCommonPasswordValidator() CommonPasswordValidator {
	set := make(map[string]struct{}, len(commonPasswords))
	for _, p := range commonPasswords {
		set[p] = struct{}{}
	}
	return CommonPasswordValidator{passwords: set}
}

func (v CommonPasswordValidator) Validate(password, _, _ string) error {
	if _, found := v.passwords[strings.ToLower(password)]; found {
		return errors.New("this password is too common")
	}
	return nil
}

// UserAttributeSimilarityValidator rejects passwords that contain, or are
// contained in, the username or the local part of the email address.
type UserAttributeSimilarityValidator struct{}

func (v UserAttributeSimilarityValidator) Validate(password, username, email string) error {
	lowered := strings.ToLower(password)

	attributes := []string{strings.ToLower(username)}
	if at := strings.IndexByte(email, '@'); at > 0 {
		attributes = append(attributes, strings.ToLower(email[:at]))
	}

	for _, attr := range attributes {
		if len(attr) < 3 {
			continue
		}
		if strings.Contains(lowered, attr) || strings.Contains(attr, lowered) {
			return errors.New("the password is too similar to the username")
		}
	}
	return nil
}

// DefaultPasswordValidators returns the standard policy rule set
func DefaultPasswordValidators() []PasswordValidator {
	return []PasswordValidator{
		MinimumLengthValidator{Min: 8},
		UserAttributeSimilarityValidator{},
		NewCommonPasswordValidator(),
	}
}

// ValidatePassword runs the password through each validator in order and
// returns the first violation.
func ValidatePassword(password, username, email string, validators []PasswordValidator) error {
	for _, v := range validators {
		if err := v.Validate(password, username, email); err != nil {
			return err
		}
	}
	return nil
}

// A short excerpt of the usual leaked-password lists; enough to stop the
// worst offenders without shipping a megabyte of data.
var commonPasswords = []string{
	"password", "password1", "password123", "passw0rd", "123456", "1234567",
	"12345678", "123456789", "1234567890", "qwerty", "qwerty123", "qwertyuiop",
	"111111", "123123", "abc123", "letmein", "welcome", "welcome1", "monkey",
	"dragon", "sunshine", "princess", "football", "baseball", "superman",
	"batman", "trustno1", "iloveyou", "admin", "administrator", "root",
	"login", "master", "shadow", "michael", "jennifer", "jordan", "hunter",
	"harley", "ranger", "buster", "soccer", "hockey", "killer", "george",
	"charlie", "andrew", "thomas", "jessica", "daniel", "starwars", "whatever",
	"freedom", "secret", "summer", "winter", "internet", "computer", "cookie",
	"pepper", "ginger", "mustang", "maggie", "access", "flower", "pokemon",
	"zaq1zaq1", "qazwsx", "asdfgh", "zxcvbnm", "000000", "654321", "666666",
	"121212", "112233", "aa123456", "a123456", "123qwe", "1q2w3e4r", "555555",
}
