// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package page

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/folio-tui/internal/contact"
)

// Contact form field order.
const (
	fieldName = iota
	fieldEmail
	fieldSubject
	fieldMessage
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Email", "Subject", "Message"}

// contactForm holds the form inputs. It is shared by pointer so the
// contact controller's success callback can clear it.
type contactForm struct {
	inputs [fieldCount]textinput.Model
}

func newContactForm() *contactForm {
	f := &contactForm{}
	limits := [fieldCount]int{100, 254, 200, 4000}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = limits[i]
		f.inputs[i] = ti
	}
	f.inputs[fieldEmail].Placeholder = "you@example.com"
	return f
}

// Value returns the current form contents.
func (f *contactForm) Value() contact.Form {
	return contact.Form{
		Name:    f.inputs[fieldName].Value(),
		Email:   f.inputs[fieldEmail].Value(),
		Subject: f.inputs[fieldSubject].Value(),
		Message: f.inputs[fieldMessage].Value(),
	}
}

// Clear empties every field.
func (f *contactForm) Clear() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
}

// Focus focuses field i and blurs the rest.
func (f *contactForm) Focus(i int) tea.Cmd {
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == i {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

// Blur blurs every field.
func (f *contactForm) Blur() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

// SetWidth sets the input width of every field.
func (f *contactForm) SetWidth(w int) {
	for i := range f.inputs {
		f.inputs[i].Width = w
	}
}

// Update routes msg to field i.
func (f *contactForm) Update(i int, msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[i], cmd = f.inputs[i].Update(msg)
	return cmd
}
