// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the portfolio site's services.
//
// Three JSON endpoints are used:
//
//   - POST /api/ai-chat    {message, history} -> {reply}
//   - POST /api/contact    {name, email, subject, message} -> {message}
//   - POST /api/analytics  {event, data}
//
// Every failure is returned as a *ClientError whose Type tells callers
// whether the service was unreachable, answered with an error status, or
// answered with something unusable.
//
// # Usage
//
//	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: "https://example.dev"})
//	reply, err := client.Chat(ctx, api.ChatRequest{Message: "hi", History: buf.Snapshot()})
//	var cerr *api.ClientError
//	if errors.As(err, &cerr) && cerr.Type == api.ErrTypeServer {
//	    log.Printf("status %d", cerr.Status)
//	}
package api
