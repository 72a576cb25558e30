// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package contact implements the contact form submission flow.
package contact

import (
	"net/mail"
	"strings"

	"github.com/jeranaias/folio-tui/internal/api"
)

// Form is the contact form's fields.
type Form struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// FieldError describes one invalid field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// FieldErrors collects every invalid field.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Trimmed returns the form with surrounding whitespace removed.
func (f Form) Trimmed() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Subject: strings.TrimSpace(f.Subject),
		Message: strings.TrimSpace(f.Message),
	}
}

// Validate checks required fields and the address. Messages match the
// service's own "Missing <field>" wording.
func (f Form) Validate() error {
	f = f.Trimmed()
	var errs FieldErrors
	for _, field := range []struct{ name, value string }{
		{"name", f.Name},
		{"email", f.Email},
		{"subject", f.Subject},
		{"message", f.Message},
	} {
		if field.value == "" {
			errs = append(errs, FieldError{Field: field.name, Message: "Missing " + field.name})
		}
	}
	if f.Email != "" {
		if addr, err := mail.ParseAddress(f.Email); err != nil || addr.Address != f.Email {
			errs = append(errs, FieldError{Field: "email", Message: "Invalid email address"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Request converts the form to the service payload.
func (f Form) Request() api.ContactRequest {
	f = f.Trimmed()
	return api.ContactRequest{Name: f.Name, Email: f.Email, Subject: f.Subject, Message: f.Message}
}
