// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"
)

// JSONExporter exports transcripts as JSON. Options are ignored; the
// output always carries every message.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

type jsonMessage struct {
	Sender  string    `json:"sender"`
	Text    string    `json:"text"`
	Failure bool      `json:"failure,omitempty"`
	At      time.Time `json:"at"`
}

type jsonTranscript struct {
	Title     string        `json:"title"`
	SessionID string        `json:"session_id,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	Messages  []jsonMessage `json:"messages"`
}

// Export converts a transcript to indented JSON.
func (e *JSONExporter) Export(tr *Transcript) ([]byte, error) {
	if err := tr.validate(); err != nil {
		return nil, err
	}
	out := jsonTranscript{Title: tr.Title, SessionID: tr.SessionID, CreatedAt: tr.CreatedAt}
	for _, m := range tr.Messages {
		out.Messages = append(out.Messages, jsonMessage{
			Sender:  m.Sender.String(),
			Text:    m.Text,
			Failure: m.Failure,
			At:      m.At,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string { return ".json" }

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string { return "application/json" }
