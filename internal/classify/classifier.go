// Package classify implements the deterministic rule stage of the decision
// pipeline: five checks in fixed order with short-circuit rejection, plus
// ambiguity detection for postings the rules cannot resolve either way.
package classify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lpellaton/jobscout/internal/config"
	"github.com/lpellaton/jobscout/internal/jobs"
)

var (
	englishRe = regexp.MustCompile(`(?i)\benglish\b`)
	yearsRe   = regexp.MustCompile(`(\d{1,2})(?:\s*[-–]\s*\d{1,2})?\s*\+?\s*years?`)
)

// Engine evaluates the keyword rules. It is a pure function over a Posting;
// it proposes a decision and never touches storage.
type Engine struct {
	cantons            map[string]bool
	cities             map[string]string
	disciplineKeywords []string
	french             []*regexp.Regexp
	german             []*regexp.Regexp
	senior             []*regexp.Regexp
	entryLevel         []*regexp.Regexp
	enrollment         []*regexp.Regexp
	internship         []*regexp.Regexp
	minDescriptionLen  int
	maxExperienceYears int
}

// NewEngine compiles the configured pattern sets.
func NewEngine(cfg config.FilterConfig) (*Engine, error) {
	e := &Engine{
		cantons:            make(map[string]bool, len(cfg.Cantons)),
		cities:             cfg.Cities,
		minDescriptionLen:  cfg.MinDescriptionLen,
		maxExperienceYears: cfg.MaxExperienceYears,
	}
	for _, canton := range cfg.Cantons {
		e.cantons[strings.ToUpper(canton)] = true
	}
	for _, kws := range cfg.DisciplineKeywords {
		for _, kw := range kws {
			e.disciplineKeywords = append(e.disciplineKeywords, strings.ToLower(kw))
		}
	}

	var err error
	if e.french, err = compileAll("french", cfg.FrenchPatterns); err != nil {
		return nil, err
	}
	if e.german, err = compileAll("german", cfg.GermanPatterns); err != nil {
		return nil, err
	}
	if e.senior, err = compileAll("senior", cfg.SeniorPatterns); err != nil {
		return nil, err
	}
	if e.entryLevel, err = compileAll("entry_level", cfg.EntryLevelPatterns); err != nil {
		return nil, err
	}
	if e.enrollment, err = compileAll("enrollment", cfg.EnrollmentPatterns); err != nil {
		return nil, err
	}
	if e.internship, err = compileAll("internship", cfg.InternshipPatterns); err != nil {
		return nil, err
	}
	return e, nil
}

func compileAll(name string, patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile %s pattern %q: %w", name, p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Classify applies the five checks in fixed order, short-circuiting on the
// first definitive rejection: geography, language, experience, discipline,
// enrollment. When nothing rejects but language or experience produced no
// signal either way, or the description is too short to trust, the posting
// is ambiguous.
func (e *Engine) Classify(p jobs.Posting) jobs.Decision {
	blob := p.Description + " " + p.Qualifications

	// 1. Geographic
	canton := e.resolveCanton(p)
	if canton == "" || !e.cantons[canton] {
		return jobs.Decision{
			Status: jobs.StatusRejected,
			Reason: fmt.Sprintf("location not in Romandie (canton=%s)", orNone(canton)),
		}
	}

	// 2. Language
	langResolved := true
	switch {
	case matchesAny(blob, e.french):
		return jobs.Decision{Status: jobs.StatusRejected, Reason: "French requirement detected"}
	case matchesAny(blob, e.german):
		return jobs.Decision{Status: jobs.StatusRejected, Reason: "German requirement detected"}
	case p.LanguageRequirements == "" && !englishRe.MatchString(blob):
		langResolved = false
	}

	// 3. Experience
	expText := p.Title + " " + blob + " " + p.ExperienceLevel
	expResolved := true
	switch {
	case matchesAny(expText, e.senior):
		return jobs.Decision{Status: jobs.StatusRejected, Reason: "exceeds entry-level (senior role)"}
	case e.yearsAtOrAbove(expText):
		return jobs.Decision{
			Status: jobs.StatusRejected,
			Reason: fmt.Sprintf("exceeds entry-level (%d+ years required)", e.maxExperienceYears),
		}
	case p.ExperienceLevel == "" && !matchesAny(expText, e.entryLevel):
		expResolved = false
	}

	// 4. Discipline: keyword absence is a reliable negative, never deferred.
	if !e.hasDisciplineKeyword(p.Title, p.Description) {
		return jobs.Decision{Status: jobs.StatusRejected, Reason: "no discipline match"}
	}

	// 5. Enrollment
	titleAndBlob := p.Title + " " + blob
	if matchesAny(titleAndBlob, e.internship) && matchesAny(blob, e.enrollment) {
		return jobs.Decision{Status: jobs.StatusRejected, Reason: "requires active enrollment"}
	}

	if len(p.Description) < e.minDescriptionLen {
		return jobs.Decision{Status: jobs.StatusAmbiguous, Reason: "description too short to classify"}
	}
	if !expResolved {
		return jobs.Decision{Status: jobs.StatusAmbiguous, Reason: "experience level unclear"}
	}
	if !langResolved {
		return jobs.Decision{Status: jobs.StatusAmbiguous, Reason: "language requirement unclear"}
	}

	return jobs.Decision{Status: jobs.StatusPassed, Reason: ""}
}

func (e *Engine) resolveCanton(p jobs.Posting) string {
	if p.Canton != "" {
		return strings.ToUpper(p.Canton)
	}
	if canton, ok := e.cities[p.City]; ok {
		return strings.ToUpper(canton)
	}
	for city, canton := range e.cities {
		if strings.EqualFold(city, p.City) {
			return strings.ToUpper(canton)
		}
	}
	return ""
}

// yearsAtOrAbove reports whether the text demands experience at or above the
// configured cutoff. Ranges like "0-2 years" are judged on their lower
// bound, so entry-level brackets never trip the check.
func (e *Engine) yearsAtOrAbove(text string) bool {
	for _, m := range yearsRe.FindAllStringSubmatch(text, -1) {
		years, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if years >= e.maxExperienceYears {
			return true
		}
	}
	return false
}

func (e *Engine) hasDisciplineKeyword(title, description string) bool {
	combined := strings.ToLower(title + " " + description)
	for _, kw := range e.disciplineKeywords {
		if strings.Contains(combined, kw) {
			return true
		}
	}
	return false
}

func orNone(canton string) string {
	if canton == "" {
		return "unknown"
	}
	return canton
}
