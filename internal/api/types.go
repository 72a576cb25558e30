// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "github.com/jeranaias/folio-tui/internal/history"

// ChatRequest is the chat endpoint payload.
type ChatRequest struct {
	Message string         `json:"message"`
	History []history.Turn `json:"history"`
}

// ChatResponse is the chat endpoint's success body.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ContactRequest is the contact endpoint payload.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ContactResponse is the contact endpoint's success body.
type ContactResponse struct {
	Message string `json:"message"`
}

// Event is an analytics beacon.
type Event struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data"`
}

// errorBody is the optional failure body of every endpoint.
type errorBody struct {
	Error string `json:"error"`
}
