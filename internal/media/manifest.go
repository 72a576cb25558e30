// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package media

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the YAML reel description.
//
//	items:
//	  - title: Robotics
//	    caption: Autonomous navigation demo
//	    src: https://cdn.example.com/robotics.mp4
type Manifest struct {
	Items []Item `yaml:"items"`
}

// LoadManifest reads a YAML manifest and numbers its items.
func LoadManifest(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest decodes manifest bytes.
func ParseManifest(data []byte) ([]Item, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	for i := range m.Items {
		m.Items[i].Index = i
		if m.Items[i].Src == "" {
			return nil, fmt.Errorf("manifest item %d: src is required", i)
		}
	}
	return m.Items, nil
}
