package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	MinContentLength = 2
	MaxContentLength = 1000
)

var (
	scriptBlock = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	whitespace  = regexp.MustCompile(`\s+`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("meaningful", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		}) >= 0
	})
	return v
}

type contentRule struct {
	tag     string
	message string
}

// rules after the first apply only to non-empty text
var contentRules = []contentRule{
	{tag: "required", message: "text must not be empty"},
	{tag: fmt.Sprintf("max=%d", MaxContentLength), message: fmt.Sprintf("text must not exceed %d characters", MaxContentLength)},
	{tag: fmt.Sprintf("min=%d", MinContentLength), message: fmt.Sprintf("text must contain at least %d characters", MinContentLength)},
	{tag: "meaningful", message: "text must contain letters or digits"},
}

// SanitizeContent trims s, collapses whitespace runs and drops <script> blocks.
func SanitizeContent(s string) string {
	s = whitespace.ReplaceAllString(strings.TrimSpace(s), " ")
	s = scriptBlock.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// ValidateContent sanitizes content and checks it against every text rule.
// The returned error is a *ContentError listing all failures.
func ValidateContent(content string) (string, error) {
	content = SanitizeContent(content)

	var problems []string
	for i, rule := range contentRules {
		if err := validate.Var(content, rule.tag); err != nil {
			problems = append(problems, rule.message)
			if i == 0 {
				break
			}
		}
	}
	if len(problems) > 0 {
		return "", &ContentError{Problems: problems}
	}
	return content, nil
}
