package services

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/vezlo/src-to-kb/internal/core/domain"
	"github.com/vezlo/src-to-kb/internal/logger"
)

const (
	// notFoundAnswer is returned verbatim when a question matches
	// nothing in the corpus.
	notFoundAnswer = "I couldn't find anything in the indexed codebase matching your question. " +
		"Try different keywords, or index more sources first."

	// confidenceDivisor scales the top result's score into 0..1.
	confidenceDivisor = 50

	// languagesConfidence is the fixed confidence for language
	// enumeration answers, which need no score to be trustworthy.
	languagesConfidence = 0.9

	// sourcesPrefix starts the trailer line listing backing files.
	// Low-depth modes strip this line.
	sourcesPrefix = "Sources:"

	// maxTopFiles caps the distinct paths named per answer.
	maxTopFiles = 4

	// maxEvidence caps the evidence entries per answer.
	maxEvidence = 3

	// maxAnswerSnippets caps the snippets quoted by the generic answer.
	maxAnswerSnippets = 2

	// minSnippetLen is the shortest snippet worth quoting in an answer.
	minSnippetLen = 20

	// maxCodeExcerpts caps the code blocks appended in medium depth.
	maxCodeExcerpts = 2

	// codeExcerptLines caps the lines quoted per code block.
	codeExcerptLines = 20
)

// intent pairs a question matcher with an answer formatter. The
// synthesizer walks the table in order and takes the first match, so
// adding a question category is a table entry, not a new branch.
type intent struct {
	name string

	// matches receives the lowercased question.
	matches func(question string) bool

	// format receives the original question and the mode-filtered
	// results (never empty) and returns the answer body plus its
	// confidence.
	format func(question string, results []domain.SearchResult) (string, float64)
}

var intents = []intent{
	{name: "languages", matches: mentionsAny("language", "support"), format: languagesAnswer},
	{name: "password-reset", matches: mentionsPasswordReset, format: passwordResetAnswer},
	{name: "authentication", matches: mentionsAny("login", "authentication", "auth"), format: authAnswer},
	{name: "api", matches: mentionsAny("api", "endpoint", "route"), format: apiAnswer},
	{name: "data-model", matches: mentionsAny("database", "model", "schema"), format: dataModelAnswer},
	{name: "frontend", matches: mentionsAny("component", "ui", "frontend"), format: frontendAnswer},
	{name: "generic", matches: func(string) bool { return true }, format: genericAnswer},
}

// Synthesize turns ranked, mode-filtered results into an answer. Every
// answer carries the distinct paths it drew from and evidence for the
// top results; the mode's depth shapes the final text.
func Synthesize(question string, results []domain.SearchResult, mode domain.Mode) domain.Answer {
	if len(results) == 0 {
		return domain.Answer{
			Text:       notFoundAnswer,
			Confidence: 0,
		}
	}

	lowered := strings.ToLower(question)
	var text string
	var confidence float64
	for _, in := range intents {
		if !in.matches(lowered) {
			continue
		}
		logger.Debug("Synthesizing %s answer from %d results", in.name, len(results))
		text, confidence = in.format(question, results)
		break
	}

	return domain.Answer{
		Text:       applyDepth(text, results, mode),
		Confidence: confidence,
		TopFiles:   distinctPaths(results, maxTopFiles),
		Evidence:   collectEvidence(results),
	}
}

// mentionsAny builds a matcher for questions containing any keyword.
func mentionsAny(keywords ...string) func(string) bool {
	return func(question string) bool {
		for _, kw := range keywords {
			if strings.Contains(question, kw) {
				return true
			}
		}
		return false
	}
}

func mentionsPasswordReset(question string) bool {
	if strings.Contains(question, "password") && strings.Contains(question, "reset") {
		return true
	}
	return strings.Contains(question, "forgot")
}

func languagesAnswer(_ string, results []domain.SearchResult) (string, float64) {
	var langs []string
	seen := make(map[string]bool)
	for _, r := range results {
		if r.DocumentLanguage == "" || seen[r.DocumentLanguage] {
			continue
		}
		seen[r.DocumentLanguage] = true
		langs = append(langs, r.DocumentLanguage)
	}

	var text string
	switch len(langs) {
	case 0:
		text = "The matched files carry no language labels, so the language mix cannot be determined."
	case 1:
		text = fmt.Sprintf("The matched files are written in %s.", langs[0])
	default:
		text = fmt.Sprintf("The codebase spans %d languages: %s.", len(langs), strings.Join(langs, ", "))
	}
	text += "\n" + sourcesTrailer(results)
	return text, languagesConfidence
}

func passwordResetAnswer(_ string, results []domain.SearchResult) (string, float64) {
	matched := matchingPaths(results, "auth", "password", "reset", "login")
	if len(matched) == 0 {
		text := "I couldn't find a password reset flow in the indexed code, so the feature may not exist " +
			"in this codebase. The closest matches are listed below.\n" + sourcesTrailer(results)
		return text, scoreConfidence(results)
	}

	primary := matched[0]
	text := fmt.Sprintf("Password reset is handled in %s (lines %s). "+
		"The flow validates the account, issues a time-limited reset token and stores the new "+
		"credential once the token is confirmed.",
		primary.DocumentPath, primary.Lines)
	text += "\n" + sourcesTrailer(matched)
	return text, scoreConfidence(results)
}

func authAnswer(_ string, results []domain.SearchResult) (string, float64) {
	preferred := preferPaths(results, "auth", "login")
	primary := preferred[0]

	text := fmt.Sprintf("Authentication is implemented in %s (lines %s).", primary.DocumentPath, primary.Lines)
	if scheme := tokenScheme(results); scheme != "" {
		text += fmt.Sprintf(" The implementation uses %s.", scheme)
	}
	text += "\n" + sourcesTrailer(preferred)
	return text, scoreConfidence(results)
}

// tokenScheme names the token mechanism when the top results mention one.
func tokenScheme(results []domain.SearchResult) string {
	top := results
	if len(top) > maxEvidence {
		top = top[:maxEvidence]
	}
	var b strings.Builder
	for _, r := range top {
		b.WriteString(strings.ToLower(r.FullContent))
		b.WriteByte('\n')
	}
	content := b.String()

	hasJWT := strings.Contains(content, "jwt")
	hasOAuth := strings.Contains(content, "oauth")
	switch {
	case hasJWT && hasOAuth:
		return "JWT tokens and OAuth"
	case hasJWT:
		return "JWT tokens"
	case hasOAuth:
		return "OAuth"
	}
	return ""
}

func apiAnswer(_ string, results []domain.SearchResult) (string, float64) {
	preferred := preferPaths(results, "api", "route", "controller")
	primary := preferred[0]

	text := fmt.Sprintf("API endpoints are defined in %s (lines %s).", primary.DocumentPath, primary.Lines)
	if rest := distinctPaths(preferred[1:], maxTopFiles-1); len(rest) > 0 {
		text += fmt.Sprintf(" Related handler code lives in %s.", strings.Join(rest, ", "))
	}
	text += "\n" + sourcesTrailer(preferred)
	return text, scoreConfidence(results)
}

func dataModelAnswer(_ string, results []domain.SearchResult) (string, float64) {
	preferred := preferPaths(results, "model", "schema", "database", "entity")
	primary := preferred[0]

	text := fmt.Sprintf("The data model is defined in %s (lines %s).", primary.DocumentPath, primary.Lines)
	if rest := distinctPaths(preferred[1:], maxTopFiles-1); len(rest) > 0 {
		text += fmt.Sprintf(" Related definitions: %s.", strings.Join(rest, ", "))
	}
	text += "\n" + sourcesTrailer(preferred)
	return text, scoreConfidence(results)
}

func frontendAnswer(_ string, results []domain.SearchResult) (string, float64) {
	preferred := preferPaths(results, "component", "view", "page", ".tsx", ".jsx")
	primary := preferred[0]

	text := fmt.Sprintf("UI components live in %s (lines %s).", primary.DocumentPath, primary.Lines)
	if rest := distinctPaths(preferred[1:], maxTopFiles-1); len(rest) > 0 {
		text += fmt.Sprintf(" Other frontend files: %s.", strings.Join(rest, ", "))
	}
	text += "\n" + sourcesTrailer(preferred)
	return text, scoreConfidence(results)
}

func genericAnswer(question string, results []domain.SearchResult) (string, float64) {
	var b strings.Builder
	fmt.Fprintf(&b, "Here is what the codebase shows for %q:\n", question)

	for _, snippet := range answerSnippets(results) {
		fmt.Fprintf(&b, "\n  %s\n", snippet)
	}

	b.WriteString("\n" + sourcesTrailer(results))
	if hint := extensionHint(results); hint != "" {
		b.WriteString("\n" + hint)
	}
	return b.String(), scoreConfidence(results)
}

// answerSnippets collects quotable snippets across results, skipping
// short fragments and near-duplicates.
func answerSnippets(results []domain.SearchResult) []string {
	var out []string
	for _, r := range results {
		for _, s := range r.Snippets {
			if len(s) <= minSnippetLen || hasSnippet(out, s) {
				continue
			}
			out = append(out, s)
			if len(out) == maxAnswerSnippets {
				return out
			}
		}
	}
	return out
}

// extensionHint describes the dominant file extension among the
// results. Extension ties break alphabetically so the hint is stable.
func extensionHint(results []domain.SearchResult) string {
	counts := make(map[string]int)
	for _, r := range results {
		if ext := path.Ext(r.DocumentPath); ext != "" {
			counts[ext]++
		}
	}

	best := ""
	for ext, n := range counts {
		if best == "" || n > counts[best] || (n == counts[best] && ext < best) {
			best = ext
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("Most of the matching code is in %s files.", best)
}

// scoreConfidence derives confidence from the top result's score.
func scoreConfidence(results []domain.SearchResult) float64 {
	confidence := float64(results[0].Score) / confidenceDivisor
	if confidence > 1 {
		return 1
	}
	return confidence
}

// matchingPaths returns the results whose lowercased path contains any
// token, keeping ranked order.
func matchingPaths(results []domain.SearchResult, tokens ...string) []domain.SearchResult {
	var out []domain.SearchResult
	for _, r := range results {
		if pathContainsAny(r.DocumentPath, tokens) {
			out = append(out, r)
		}
	}
	return out
}

// preferPaths moves results whose path contains any token ahead of the
// rest, keeping ranked order within both groups.
func preferPaths(results []domain.SearchResult, tokens ...string) []domain.SearchResult {
	var matched, rest []domain.SearchResult
	for _, r := range results {
		if pathContainsAny(r.DocumentPath, tokens) {
			matched = append(matched, r)
		} else {
			rest = append(rest, r)
		}
	}
	return append(matched, rest...)
}

func pathContainsAny(p string, tokens []string) bool {
	lower := strings.ToLower(p)
	for _, t := range tokens {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// distinctPaths lists up to max distinct document paths in ranked order.
func distinctPaths(results []domain.SearchResult, max int) []string {
	seen := make(map[string]bool, max)
	var out []string
	for _, r := range results {
		if seen[r.DocumentPath] {
			continue
		}
		seen[r.DocumentPath] = true
		out = append(out, r.DocumentPath)
		if len(out) == max {
			break
		}
	}
	return out
}

// sourcesTrailer renders the backing-file line appended to every
// answer body and stripped again for low-depth readers.
func sourcesTrailer(results []domain.SearchResult) string {
	return sourcesPrefix + " " + strings.Join(distinctPaths(results, maxTopFiles), ", ")
}

// collectEvidence points the reader at the chunks behind the answer.
func collectEvidence(results []domain.SearchResult) []domain.Evidence {
	top := results
	if len(top) > maxEvidence {
		top = top[:maxEvidence]
	}

	evidence := make([]domain.Evidence, 0, len(top))
	for _, r := range top {
		context := r.Preview
		if len(r.Snippets) > 0 {
			context = r.Snippets[0]
		}
		evidence = append(evidence, domain.Evidence{
			File:    r.DocumentPath,
			Lines:   r.Lines,
			Context: context,
		})
	}
	return evidence
}

var fencedCode = regexp.MustCompile("(?s)```.*?```")

// applyDepth shapes the answer body for the mode's audience. Low depth
// drops code and the sources trailer, medium depth appends code
// excerpts, high depth passes the body through untouched.
func applyDepth(text string, results []domain.SearchResult, mode domain.Mode) string {
	switch mode.Depth {
	case domain.DepthLow:
		return stripTechnicalDetail(text)
	case domain.DepthMedium:
		return appendCodeExcerpts(text, results)
	default:
		return text
	}
}

func stripTechnicalDetail(text string) string {
	text = fencedCode.ReplaceAllString(text, "[code example omitted]")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, sourcesPrefix) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func appendCodeExcerpts(text string, results []domain.SearchResult) string {
	var b strings.Builder
	b.WriteString(text)

	added := 0
	for _, r := range results {
		if added == maxCodeExcerpts {
			break
		}
		if strings.TrimSpace(r.FullContent) == "" {
			continue
		}
		fmt.Fprintf(&b, "\n\n%s:\n```%s\n%s\n```",
			r.DocumentPath, strings.ToLower(r.DocumentLanguage), firstLines(r.FullContent, codeExcerptLines))
		added++
	}
	return b.String()
}

// firstLines returns up to n leading lines of content.
func firstLines(content string, n int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
