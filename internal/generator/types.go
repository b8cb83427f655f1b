// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

// Package generator produces README text for a repository metadata bundle
// with metrics-informed failover across configured providers.
package generator

import (
	"time"
)

// RepoMetadata is the per-call repository metadata bundle the prompt is
// built from. It carries no identity beyond the call.
type RepoMetadata struct {
	Name           string           `json:"name,omitempty"`
	FullName       string           `json:"full_name,omitempty"`
	Description    string           `json:"description,omitempty"`
	Language       string           `json:"language,omitempty"`
	Topics         []string         `json:"topics,omitempty"`
	License        string           `json:"license,omitempty"`
	PackageManager string           `json:"package_manager,omitempty"`
	InstallCommand string           `json:"install_command,omitempty"`
	RunCommand     string           `json:"run_command,omitempty"`
	Dependencies   []string         `json:"dependencies,omitempty"`
	Scripts        []string         `json:"scripts,omitempty"`
	Stars          int              `json:"stars,omitempty"`
	Forks          int              `json:"forks,omitempty"`
	OpenIssues     int              `json:"open_issues,omitempty"`
	Languages      map[string]int64 `json:"languages,omitempty"`
	Contributors   int              `json:"contributors,omitempty"`
	ExistingReadme string           `json:"existing_readme,omitempty"`
}

// Tone controls the writing style of the generated document.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneTechnical    Tone = "technical"
)

// Valid reports whether t is one of the known tones.
func (t Tone) Valid() bool {
	switch t {
	case ToneProfessional, ToneCasual, ToneTechnical:
		return true
	}
	return false
}

// Options selects which sections the generated document must include and
// its tone.
type Options struct {
	IncludeInstallation bool `json:"include_installation,omitempty"`
	IncludeUsage        bool `json:"include_usage,omitempty"`
	IncludeContributing bool `json:"include_contributing,omitempty"`
	IncludeLicense      bool `json:"include_license,omitempty"`
	IncludeBadges       bool `json:"include_badges,omitempty"`
	Tone                Tone `json:"tone,omitempty"`
}

// DefaultOptions returns the option set used when the caller supplies none.
func DefaultOptions() Options {
	return Options{
		IncludeInstallation: true,
		IncludeUsage:        true,
		IncludeContributing: true,
		IncludeLicense:      true,
		IncludeBadges:       true,
		Tone:                ToneProfessional,
	}
}

// Result is the outcome of one successful generation call.
type Result struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Provider    string    `json:"provider"`
	GeneratedAt time.Time `json:"generated_at"`
}
