package orchestrator

import (
	"regexp"
	"strings"

	"github.com/ckeeney/maestro/pkg/models"
)

// Analyzer classifies a request into capability tags and a complexity
// score. Implementations must be deterministic: the same request always
// yields the same analysis. The planner only depends on this interface,
// so a different classifier can be swapped in without touching it.
type Analyzer interface {
	Analyze(req models.Request) models.Analysis
}

// RequestAnalyzer is the default keyword and pattern based classifier.
type RequestAnalyzer struct {
	codePatterns       []*regexp.Regexp
	dataPatterns       []*regexp.Regexp
	multimodalPatterns []*regexp.Regexp
	reasoningPatterns  []*regexp.Regexp
	thinkingPatterns   []*regexp.Regexp
	toolPatterns       []*regexp.Regexp

	planningMarkers   []*regexp.Regexp
	comparisonMarkers []*regexp.Regexp
	technicalMarkers  []*regexp.Regexp
}

var _ Analyzer = (*RequestAnalyzer)(nil)

// NewRequestAnalyzer creates a new RequestAnalyzer with default patterns.
func NewRequestAnalyzer() *RequestAnalyzer {
	return &RequestAnalyzer{
		codePatterns: compilePatterns([]string{
			"```",
			`\b(func|function|def|class)\s+\w+`,
			`\b(import|package|return|const|var)\s`,
			`\w+\s*\([^)]*\)\s*\{`,
			`[=!<>]=|&&|\|\||->|=>`,
		}),
		dataPatterns: compilePatterns([]string{
			`\b(json|yaml|xml|csv|sql)\b`,
			`\b(schema|database|dataset|serialize|deserialize)\b`,
			`\btable\s+(of|with|schema)\b`,
			`[\[{]\s*"`,
		}),
		multimodalPatterns: compilePatterns([]string{
			`\b(image|picture|photo|photograph|screenshot)\b`,
			`\b(diagram|chart|figure)\b`,
			`\b(audio|video|recording)\b`,
		}),
		reasoningPatterns: compilePatterns([]string{
			`\bwhy\b`,
			`\bbecause\b`,
			`\btherefore\b`,
			`\bcause(s|d)?\b`,
			`\bexplain\b`,
			`\b(prove|proof)\b`,
			`\bjustify\b`,
			`\bimplies\b`,
			`\bconsequence(s)?\b`,
		}),
		thinkingPatterns: compilePatterns([]string{
			`\bshould\s+(we|i|they|one)\b`,
			`\bethic(s|al|ally)?\b`,
			`\bmoral(s|ly|ity)?\b`,
			`\bphilosoph(y|ical|er)\b`,
			`\bcreativ(e|ity)\b`,
			`\bbrainstorm(ing)?\b`,
			`\bimagine\b`,
			`\bstrateg(y|ic|ies)\b`,
			`\blong[- ]term\b`,
			`\btrade[- ]?offs?\b`,
		}),
		toolPatterns: compilePatterns([]string{
			`\bcalculat(e|ion|or)\b`,
			`\bcomput(e|ation)\b`,
			`\bconver(t|sion)\b`,
			`\blook\s*up\b`,
			`\bsearch\s+(for|the)\b`,
			`\bcurrent\s+(price|value|rate|time)\b`,
			`\bexchange\s+rate\b`,
			`\bweather\b`,
			`\bhow\s+(many|much)\b`,
		}),
		planningMarkers: compilePatterns([]string{
			`\bstep[- ]by[- ]step\b`,
			`\bhow\s+(do|can|should|would)\s+i\b`,
			`\bhow\s+to\b`,
			`\bplan(s|ning)?\b`,
			`\borganize\b`,
			`\bprocess\s+for\b`,
			`\broadmap\b`,
		}),
		comparisonMarkers: compilePatterns([]string{
			`\bcompare(d|s)?\b`,
			`\bcomparison\b`,
			`\bvs\.?\b`,
			`\bversus\b`,
			`\bdifference\s+between\b`,
			`\bbetter\s+than\b`,
			`\bpros\s+and\s+cons\b`,
		}),
		technicalMarkers: compilePatterns([]string{
			`\balgorithm(s|ic)?\b`,
			`\bformula(s|e)?\b`,
			`\bequation(s)?\b`,
			`\bcomplexity\b`,
			`\boptimi(ze|se|zation|sation)\b`,
			`\btheorem(s)?\b`,
			`\b(derivative|integral)(s)?\b`,
		}),
	}
}

// compilePatterns compiles a slice of pattern strings into regexps.
func compilePatterns(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if r, err := regexp.Compile("(?i)" + p); err == nil {
			compiled = append(compiled, r)
		}
	}
	return compiled
}

// Analyze classifies a request into capability tags and a 1..10
// complexity score. Every request carries the text tag; the others are
// additive. The method is pure so repeated calls agree.
func (a *RequestAnalyzer) Analyze(req models.Request) models.Analysis {
	lower := strings.ToLower(req.Input)

	tags := []models.Specialization{models.SpecText}
	if anyMatch(lower, a.codePatterns) {
		tags = append(tags, models.SpecCode)
	}
	if anyMatch(lower, a.dataPatterns) {
		tags = append(tags, models.SpecData)
	}
	if len(req.Attachments) > 0 || anyMatch(lower, a.multimodalPatterns) {
		tags = append(tags, models.SpecMultimodal)
	}
	if anyMatch(lower, a.reasoningPatterns) {
		tags = append(tags, models.SpecReasoning)
	}
	if anyMatch(lower, a.thinkingPatterns) {
		tags = append(tags, models.SpecThinking)
	}
	if anyMatch(lower, a.toolPatterns) {
		tags = append(tags, models.SpecTool)
	}

	return models.Analysis{
		Tags:       tags,
		Complexity: a.scoreComplexity(req, lower),
	}
}

// scoreComplexity computes the 1..10 complexity score for a request.
func (a *RequestAnalyzer) scoreComplexity(req models.Request, lower string) int {
	score := 1

	switch {
	case len(req.Input) > 1000:
		score += 2
	case len(req.Input) > 500:
		score++
	}

	questions := strings.Count(req.Input, "?")
	if questions > 0 {
		score++
	}
	if questions > 2 {
		score++
	}

	if anyMatch(lower, a.planningMarkers) {
		score += 2
	}
	if anyMatch(lower, a.comparisonMarkers) {
		score += 2
	}
	if anyMatch(lower, a.technicalMarkers) {
		score += 2
	}
	if len(req.Attachments) > 0 {
		score += 2
	}

	if score > 10 {
		score = 10
	}
	return score
}

// anyMatch reports whether any pattern matches the input.
func anyMatch(input string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(input) {
			return true
		}
	}
	return false
}
