// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
)

// Sentinels returned when no context can be inferred.
const (
	UnknownTitle        = "Unknown"
	UnknownFunction     = "unknown"
	UnknownTest         = "Unknown test"
	PlanTestDescription = "Defined in documentation"
)

const (
	maxTitleLen       = 100
	truncatedTitleLen = 97

	// functionWindow is how many lines, counting the match line, are
	// searched upward for an enclosing definition.
	functionWindow = 20

	// testWindow is how far above and below a match a test declaration
	// may sit.
	testWindow = 5
)

var (
	// titleDecoration strips table pipes, heading markers, emphasis and
	// code-span markers.
	titleDecoration = strings.NewReplacer("|", " ", "#", "", "*", "", "`", "")

	// signatureRe matches Type::method(...) or name(...).
	signatureRe = regexp.MustCompile(`(\w+::\w+|\w+)\s*\([^)]*\)\s*\{?`)

	// blockRe matches a QML "component Name" or a block opening "Name {".
	blockRe = regexp.MustCompile(`component\s+(\w+)|(\w+)\s*\{`)

	// testDeclRe matches gtest declarations: TEST, TEST_F, TEST_P.
	testDeclRe = regexp.MustCompile(`TEST(?:_F|_P)?\s*\(\s*\w+\s*,\s*(\w+)\s*\)`)
)

// keywords open a line that is never a function or component definition.
var keywords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"switch": true, "case": true, "return": true, "catch": true,
	"sizeof": true, "try": true, "static_assert": true, "delete": true,
	"new": true, "throw": true,
}

// Title derives a requirement title from the line that defines it. Markdown
// decoration is removed and whitespace runs collapse to a single space.
func Title(line string) string {
	title := strings.Join(strings.Fields(titleDecoration.Replace(line)), " ")
	if title == "" {
		return UnknownTitle
	}
	if r := []rune(title); len(r) > maxTitleLen {
		title = string(r[:truncatedTitleLen]) + "..."
	}
	return title
}

// FunctionName finds the function or component enclosing lines[idx] by
// scanning upward. Comment lines, preprocessor lines, control statements,
// and statements ending in ';' above the match line are skipped.
func FunctionName(lines []string, idx int) string {
	if idx < 0 || idx >= len(lines) {
		return UnknownFunction
	}
	for i := idx; i >= 0 && i > idx-functionWindow; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" || isComment(line) || keywords[firstWord(line)] {
			continue
		}
		if i != idx && strings.HasSuffix(line, ";") {
			continue
		}
		if name := signatureName(line); name != "" {
			return name
		}
		if name := blockName(line); name != "" {
			return name
		}
	}
	return UnknownFunction
}

func signatureName(line string) string {
	for _, m := range signatureRe.FindAllStringSubmatch(line, -1) {
		if !keywords[m[1]] {
			return m[1]
		}
	}
	return ""
}

func blockName(line string) string {
	for _, m := range blockRe.FindAllStringSubmatch(line, -1) {
		if m[1] != "" {
			return m[1]
		}
		if !keywords[m[2]] {
			return m[2]
		}
	}
	return ""
}

func isComment(line string) bool {
	for _, prefix := range []string{"//", "/*", "*", "#"} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// firstWord returns the leading identifier after any closing braces.
func firstWord(line string) string {
	line = strings.TrimLeft(line, "}) \t")
	end := strings.IndexFunc(line, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
	if end < 0 {
		return line
	}
	return line[:end]
}

// TestDescription finds the name of the test declared nearest to
// lines[idx], within testWindow lines either side. Lines above win ties.
func TestDescription(lines []string, idx int) string {
	for d := 0; d <= testWindow; d++ {
		for _, i := range []int{idx - d, idx + d} {
			if i < 0 || i >= len(lines) {
				continue
			}
			if m := testDeclRe.FindStringSubmatch(lines[i]); m != nil {
				return m[1]
			}
		}
	}
	return UnknownTest
}
