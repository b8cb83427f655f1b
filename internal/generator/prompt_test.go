// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

package generator_test

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/draftgen-dev/draftgen/internal/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMetadata() generator.RepoMetadata {
	return generator.RepoMetadata{
		Name:           "draftgen",
		FullName:       "draftgen-dev/draftgen",
		Description:    "AI README generation service",
		Language:       "Go",
		Topics:         []string{"readme", "llm"},
		License:        "Apache-2.0",
		PackageManager: "go modules",
		InstallCommand: "go install github.com/draftgen-dev/draftgen/cmd/draftgen@latest",
		RunCommand:     "draftgen start",
		Dependencies:   []string{"cobra", "viper", "chi"},
		Scripts:        []string{"lint", "test"},
		Stars:          42,
		Forks:          7,
		OpenIssues:     3,
		Languages:      map[string]int64{"Go": 9000, "Makefile": 100},
		Contributors:   5,
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	meta := sampleMetadata()
	opts := generator.DefaultOptions()

	first := generator.BuildPrompt(meta, opts)
	second := generator.BuildPrompt(meta, opts)
	assert.Equal(t, first, second)
}

func TestBuildPrompt_ContainsIdentityAndCounts(t *testing.T) {
	prompt := generator.BuildPrompt(sampleMetadata(), generator.DefaultOptions())

	assert.Contains(t, prompt, "draftgen-dev/draftgen")
	assert.Contains(t, prompt, "Stars: 42, Forks: 7, Open issues: 3")
	assert.Contains(t, prompt, "Contributors: 5")
	assert.Contains(t, prompt, "go modules")
}

func TestBuildPrompt_SectionGating(t *testing.T) {
	meta := sampleMetadata()
	opts := generator.Options{
		IncludeInstallation: true,
		IncludeLicense:      true,
		Tone:                generator.ToneTechnical,
	}

	prompt := generator.BuildPrompt(meta, opts)

	assert.Contains(t, prompt, "Installation instructions")
	assert.Contains(t, prompt, "License section for Apache-2.0")
	assert.NotContains(t, prompt, "Usage examples")
	assert.NotContains(t, prompt, "Contributing guidelines")
	assert.NotContains(t, prompt, "Status badges")
	assert.Contains(t, prompt, "Tone: technical.")
}

func TestBuildPrompt_NoLicenseOmitsLicenseRequirement(t *testing.T) {
	meta := sampleMetadata()
	meta.License = ""

	prompt := generator.BuildPrompt(meta, generator.DefaultOptions())

	assert.NotContains(t, prompt, "License section",
		"license requirement must be omitted gracefully, not filled with a placeholder")
	assert.NotContains(t, prompt, "License: ")
}

func TestBuildPrompt_DefaultToneWhenInvalid(t *testing.T) {
	opts := generator.DefaultOptions()
	opts.Tone = generator.Tone("sarcastic")

	prompt := generator.BuildPrompt(sampleMetadata(), opts)
	assert.Contains(t, prompt, "Tone: professional.")
}

func TestBuildPrompt_CapsDependencies(t *testing.T) {
	meta := sampleMetadata()
	meta.Dependencies = nil
	for i := range 15 {
		meta.Dependencies = append(meta.Dependencies, fmt.Sprintf("dep-%02d", i))
	}

	prompt := generator.BuildPrompt(meta, generator.DefaultOptions())

	assert.Contains(t, prompt, "dep-09")
	assert.NotContains(t, prompt, "dep-10")
}

func TestBuildPrompt_TopLanguagesByByteShare(t *testing.T) {
	meta := sampleMetadata()
	meta.Languages = map[string]int64{
		"Go": 5000, "TypeScript": 4000, "Python": 3000,
		"Rust": 2000, "Shell": 1000, "Makefile": 50,
	}

	prompt := generator.BuildPrompt(meta, generator.DefaultOptions())

	require.Contains(t, prompt, "Languages by share: ")
	line := ""
	for _, l := range strings.Split(prompt, "\n") {
		if strings.HasPrefix(l, "Languages by share: ") {
			line = l
		}
	}
	assert.Equal(t, "Languages by share: Go, TypeScript, Python, Rust, Shell", line,
		"descending byte share, capped at five")
}

func TestBuildPrompt_TruncatesReadmeExcerpt(t *testing.T) {
	meta := sampleMetadata()
	meta.ExistingReadme = strings.Repeat("a", 1500)

	prompt := generator.BuildPrompt(meta, generator.DefaultOptions())

	assert.Contains(t, prompt, strings.Repeat("a", 1000))
	assert.NotContains(t, prompt, strings.Repeat("a", 1001))
}

func TestBuildPrompt_TruncatesExcerptOnRuneBoundary(t *testing.T) {
	meta := sampleMetadata()
	// 999 ASCII bytes, then a three-byte rune straddling the cutoff.
	meta.ExistingReadme = strings.Repeat("a", 999) + strings.Repeat("日本語", 200)

	prompt := generator.BuildPrompt(meta, generator.DefaultOptions())

	assert.True(t, utf8.ValidString(prompt), "truncation must not split a rune")
	assert.NotContains(t, prompt, "�")
}

func TestBuildPrompt_NoPlaceholderInstruction(t *testing.T) {
	prompt := generator.BuildPrompt(sampleMetadata(), generator.DefaultOptions())

	assert.Contains(t, prompt, "Do not emit placeholder text")
	assert.Contains(t, prompt, "Omit any section whose data is unavailable")
}
