package shift

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/cmlabs-hris/shift-engine-go/internal/domain/shift"
)

// keywordRule maps operator shorthand to the synonym tokens a template
// name or code is expected to contain. Rules are ordered; new synonyms
// are additive. A hit at this stage is lower confidence than any exact
// or substring hit.
type keywordRule struct {
	pattern  *regexp.Regexp
	synonyms []string
}

var keywordRules = []keywordRule{
	{regexp.MustCompile(`^(day|morning|a)$`), []string{"day", "morning", "pagi"}},
	{regexp.MustCompile(`^(night|evening|b)$`), []string{"night", "evening", "malam"}},
	{regexp.MustCompile(`^swing$`), []string{"swing", "siang"}},
	{regexp.MustCompile(`^line$`), []string{"line"}},
}

var spaceRegex = regexp.MustCompile(`\s+`)

func canonicalizeLabel(label string) string {
	return spaceRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(label)), " ")
}

// ResolveShiftTemplate finds the active template an operator-entered
// label refers to. Stages run in order, stopping at the first hit:
// exact name, exact code, substring on name or code, then the keyword
// heuristic. A miss returns ErrNoTemplateMatched so callers can apply
// their own default policy.
func (s *shiftTemplateService) ResolveShiftTemplate(ctx context.Context, companyID string, label string, asOf time.Time) (shift.ResolveShiftResponse, error) {
	needle := canonicalizeLabel(label)
	if needle == "" {
		return shift.ResolveShiftResponse{}, shift.ErrNoTemplateMatched
	}

	templates, err := s.repo.ListActiveByCompany(ctx, companyID)
	if err != nil {
		return shift.ResolveShiftResponse{}, err
	}

	if !asOf.IsZero() {
		applicable := templates[:0]
		for _, tpl := range templates {
			if tpl.AppliesOn(asOf) {
				applicable = append(applicable, tpl)
			}
		}
		templates = applicable
	}

	if tpl, ok := matchExactName(templates, needle); ok {
		return resolved(tpl, shift.MatchExactName), nil
	}
	if tpl, ok := matchExactCode(templates, needle); ok {
		return resolved(tpl, shift.MatchExactCode), nil
	}
	// Very short labels ("a", "b") skip the substring stage; they only
	// carry meaning through the keyword table.
	if len(needle) >= 3 {
		if tpl, ok := matchSubstring(templates, []string{needle}); ok {
			return resolved(tpl, shift.MatchSubstring), nil
		}
	}
	if tpl, ok := matchKeyword(templates, needle); ok {
		return resolved(tpl, shift.MatchKeyword), nil
	}

	return shift.ResolveShiftResponse{}, shift.ErrNoTemplateMatched
}

func resolved(tpl shift.ShiftTemplate, stage shift.MatchStage) shift.ResolveShiftResponse {
	return shift.ResolveShiftResponse{
		Template:   toTemplateResponse(tpl),
		MatchStage: stage,
		Confident:  stage != shift.MatchKeyword,
	}
}

func matchExactName(templates []shift.ShiftTemplate, needle string) (shift.ShiftTemplate, bool) {
	for _, tpl := range templates {
		if strings.ToLower(tpl.Name) == needle {
			return tpl, true
		}
	}
	return shift.ShiftTemplate{}, false
}

func matchExactCode(templates []shift.ShiftTemplate, needle string) (shift.ShiftTemplate, bool) {
	for _, tpl := range templates {
		if tpl.Code != nil && strings.ToLower(*tpl.Code) == needle {
			return tpl, true
		}
	}
	return shift.ShiftTemplate{}, false
}

// matchSubstring returns the first template whose name or code contains
// any of the given tokens, or is itself contained in one.
func matchSubstring(templates []shift.ShiftTemplate, tokens []string) (shift.ShiftTemplate, bool) {
	for _, tpl := range templates {
		name := strings.ToLower(tpl.Name)
		code := ""
		if tpl.Code != nil {
			code = strings.ToLower(*tpl.Code)
		}
		for _, token := range tokens {
			if token == "" {
				continue
			}
			if strings.Contains(name, token) || strings.Contains(token, name) {
				return tpl, true
			}
			if code != "" && (strings.Contains(code, token) || strings.Contains(token, code)) {
				return tpl, true
			}
		}
	}
	return shift.ShiftTemplate{}, false
}

func matchKeyword(templates []shift.ShiftTemplate, needle string) (shift.ShiftTemplate, bool) {
	for _, token := range strings.Fields(needle) {
		for _, rule := range keywordRules {
			if !rule.pattern.MatchString(token) {
				continue
			}
			if tpl, ok := matchSubstring(templates, rule.synonyms); ok {
				return tpl, true
			}
		}
	}
	return shift.ShiftTemplate{}, false
}
