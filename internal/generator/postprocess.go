// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

package generator

import (
	"regexp"
	"strings"
)

var (
	excessNewlines = regexp.MustCompile(`\n{4,}`)
	headingLine    = regexp.MustCompile(`(?m)^(#{1,6} )`)
)

// PostProcess normalizes raw provider output: strips a wrapping code
// fence, collapses runs of four or more newlines to two, guarantees a
// blank line before every heading, and ensures the document starts with a
// top-level heading. Idempotent: PostProcess(PostProcess(x)) == PostProcess(x).
func PostProcess(text string) string {
	out := strings.TrimSpace(text)

	out = stripWrappingFence(out)
	out = excessNewlines.ReplaceAllString(out, "\n\n")
	out = blankLineBeforeHeadings(out)

	if out != "" && !strings.HasPrefix(out, "#") {
		out = "# " + out
	}

	return out
}

// stripWrappingFence removes a single fenced code block that wraps the
// entire document, as some backends return ```markdown ... ``` around
// their answer. Interior fences are untouched.
func stripWrappingFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	if len(lines) < 2 || !strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		return text
	}

	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}

// blankLineBeforeHeadings inserts an empty line before each heading marker
// that directly follows a content line.
func blankLineBeforeHeadings(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		if i > 0 && headingLine.MatchString(line) && strings.TrimSpace(lines[i-1]) != "" {
			out = append(out, "")
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}
