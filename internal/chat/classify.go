// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"fmt"

	"github.com/jeranaias/folio-tui/internal/api"
)

// FailureKind is the user-facing category of a request failure.
type FailureKind int

const (
	Unclassified FailureKind = iota
	Connectivity
	ServerFailure
	Malformed
)

// String returns the kind name used in logs.
func (k FailureKind) String() string {
	switch k {
	case Connectivity:
		return "connectivity"
	case ServerFailure:
		return "server"
	case Malformed:
		return "malformed"
	default:
		return "unclassified"
	}
}

// User-facing failure text.
const (
	failurePrefix      = "⚠️ Sorry, I encountered an error. "
	connectivityText   = "Unable to connect to the server. Please check your internet connection."
	serverText         = "The server encountered an error. Please try again later."
	fallbackTextFormat = "Please try again or email me at %s"
	contactSuffix      = " You can also email me directly at %s"
)

// Failure is a classified request error.
type Failure struct {
	Kind FailureKind
	// Status is the HTTP status for ServerFailure.
	Status int
	// Raw is the error text reported to telemetry.
	Raw string
	// Display is the assistant message shown to the user.
	Display string
}

// Classify maps a request error to a Failure. contact is the address
// offered as the fallback.
func Classify(err error, contact string) Failure {
	f := Failure{Kind: Unclassified}
	if err != nil {
		f.Raw = err.Error()
	}

	var cerr *api.ClientError
	if errors.As(err, &cerr) {
		switch cerr.Type {
		case api.ErrTypeConnection, api.ErrTypeTimeout:
			f.Kind = Connectivity
		case api.ErrTypeServer:
			f.Kind = ServerFailure
			f.Status = cerr.Status
		case api.ErrTypeInvalidResponse:
			f.Kind = Malformed
		}
	}

	switch f.Kind {
	case Connectivity:
		f.Display = failurePrefix + connectivityText + fmt.Sprintf(contactSuffix, contact)
	case ServerFailure:
		f.Display = failurePrefix + serverText + fmt.Sprintf(contactSuffix, contact)
	default:
		f.Display = failurePrefix + fmt.Sprintf(fallbackTextFormat, contact)
	}
	return f
}
