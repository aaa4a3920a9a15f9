// Package input reads and validates the text a user submits for analysis.
package input

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validation messages
const (
	MsgEmpty    = "empty input"
	MsgTooShort = "too short"
	MsgTooLong  = "too long"
)

// Source is anything holding the current input text (a form field, a textarea widget)
type Source interface {
	InputText() string
}

// Collect returns the trimmed current text of src
func Collect(src Source) string {
	return strings.TrimSpace(src.InputText())
}

// ValidationResult is the outcome of Validate
type ValidationResult struct {
	Valid   bool
	Message string
}

// Validator bounds text length in characters. MaxLength 0 means unbounded.
type Validator struct {
	MinLength int
	MaxLength int
}

// Shipped returns the validator the bound UI controls use: non-empty only
func Shipped() Validator {
	return Validator{MinLength: 1}
}

// Strict returns the 10..10000 character validator
func Strict() Validator {
	return Validator{MinLength: 10, MaxLength: 10000}
}

// Validate checks text against the bounds. It does not trim.
func (v Validator) Validate(text string) ValidationResult {
	n := utf8.RuneCountInString(text)
	switch {
	case n == 0:
		return ValidationResult{Message: MsgEmpty}
	case n < v.MinLength:
		return ValidationResult{Message: MsgTooShort}
	case v.MaxLength > 0 && n > v.MaxLength:
		return ValidationResult{Message: MsgTooLong}
	}
	return ValidationResult{Valid: true}
}

// Check is Validate returning an *InputError on failure
func (v Validator) Check(text string) error {
	res := v.Validate(text)
	if res.Valid {
		return nil
	}
	return &InputError{Result: res, Length: utf8.RuneCountInString(text), Validator: v}
}

// InputError reports text rejected by a Validator
type InputError struct {
	Result    ValidationResult
	Length    int
	Validator Validator
}

func (e *InputError) Error() string {
	return e.Result.Message
}

// UserMessage is the text shown in the error modal
func (e *InputError) UserMessage() string {
	switch e.Result.Message {
	case MsgEmpty:
		return "Please enter some text to analyze."
	case MsgTooShort:
		return fmt.Sprintf("Text is too short: enter at least %d characters.", e.Validator.MinLength)
	case MsgTooLong:
		return fmt.Sprintf("Text is too long: the limit is %d characters.", e.Validator.MaxLength)
	default:
		return e.Result.Message
	}
}
