// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

package generator

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	maxPromptDependencies  = 10
	maxPromptLanguages     = 5
	maxPromptReadmeExcerpt = 1000
)

// BuildPrompt assembles the natural-language brief sent to a provider.
// It is a pure function of (meta, opts): same inputs, same string.
func BuildPrompt(meta RepoMetadata, opts Options) string {
	var b strings.Builder

	b.WriteString("Write a README in Markdown for the following repository.\n\n")

	b.WriteString("Repository: " + displayName(meta) + "\n")
	if meta.Description != "" {
		b.WriteString("Description: " + meta.Description + "\n")
	}
	if meta.Language != "" {
		b.WriteString("Primary language: " + meta.Language + "\n")
	}
	if len(meta.Topics) > 0 {
		b.WriteString("Topics: " + strings.Join(meta.Topics, ", ") + "\n")
	}
	if meta.License != "" {
		b.WriteString("License: " + meta.License + "\n")
	}

	if meta.PackageManager != "" {
		b.WriteString("Package manager: " + meta.PackageManager + "\n")
	}
	if meta.InstallCommand != "" {
		b.WriteString("Install command: " + meta.InstallCommand + "\n")
	}
	if meta.RunCommand != "" {
		b.WriteString("Run command: " + meta.RunCommand + "\n")
	}

	if deps := capped(meta.Dependencies, maxPromptDependencies); len(deps) > 0 {
		b.WriteString("Key dependencies: " + strings.Join(deps, ", ") + "\n")
	}
	if len(meta.Scripts) > 0 {
		b.WriteString("Available scripts: " + strings.Join(meta.Scripts, ", ") + "\n")
	}

	fmt.Fprintf(&b, "Stars: %d, Forks: %d, Open issues: %d\n", meta.Stars, meta.Forks, meta.OpenIssues)

	if langs := topLanguages(meta.Languages, maxPromptLanguages); len(langs) > 0 {
		b.WriteString("Languages by share: " + strings.Join(langs, ", ") + "\n")
	}
	if meta.Contributors > 0 {
		fmt.Fprintf(&b, "Contributors: %d\n", meta.Contributors)
	}

	if meta.ExistingReadme != "" {
		excerpt := meta.ExistingReadme
		if len(excerpt) > maxPromptReadmeExcerpt {
			cut := maxPromptReadmeExcerpt
			// Back up to a rune boundary so the cut never emits invalid UTF-8.
			for cut > 0 && !utf8.RuneStart(excerpt[cut]) {
				cut--
			}
			excerpt = excerpt[:cut]
		}
		b.WriteString("\nExisting README excerpt (preserve anything still accurate):\n")
		b.WriteString(excerpt)
		b.WriteString("\n")
	}

	b.WriteString("\nRequired sections:\n")
	b.WriteString("- Project title and overview\n")
	if opts.IncludeBadges {
		b.WriteString("- Status badges near the top\n")
	}
	if opts.IncludeInstallation {
		b.WriteString("- Installation instructions\n")
	}
	if opts.IncludeUsage {
		b.WriteString("- Usage examples\n")
	}
	if opts.IncludeContributing {
		b.WriteString("- Contributing guidelines\n")
	}
	// A license section is only demanded when a license is actually known;
	// the model must not invent one.
	if opts.IncludeLicense && meta.License != "" {
		b.WriteString("- License section for " + meta.License + "\n")
	}

	tone := opts.Tone
	if !tone.Valid() {
		tone = ToneProfessional
	}
	b.WriteString("\nTone: " + string(tone) + ".\n")

	b.WriteString("Do not emit placeholder text such as TODO or <fill in>. ")
	b.WriteString("Omit any section whose data is unavailable rather than fabricating content.\n")

	return b.String()
}

func displayName(meta RepoMetadata) string {
	if meta.FullName != "" {
		return meta.FullName
	}
	return meta.Name
}

func capped(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

// topLanguages returns up to n language names ordered by descending byte
// share, name-ascending on ties so output is deterministic.
func topLanguages(langs map[string]int64, n int) []string {
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if langs[names[i]] != langs[names[j]] {
			return langs[names[i]] > langs[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}
