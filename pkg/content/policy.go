package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitization bases.
const (
	PolicyUGC    = "ugc"
	PolicyBasic  = "basic"
	PolicyStrict = "strict"
)

// classPattern restricts class attribute values to plain identifiers.
var classPattern = regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)

// Policy is the HTML allow-list applied to every rendered projection.
//
// Scripts, event handler attributes and javascript: URLs are removed by all
// bases; extra elements never bring attributes with them.
type Policy struct {
	// Base is one of "ugc", "basic" or "strict".
	Base string `yaml:"base" json:"base"`
	// AllowElements adds attribute-free elements on top of the base.
	AllowElements []string `yaml:"allow_elements" json:"allow_elements,omitempty"`
	// AllowClasses lists elements that may carry a class attribute.
	AllowClasses []string `yaml:"allow_classes" json:"allow_classes,omitempty"`
}

// DefaultPolicy is the user-generated-content base with classes allowed on
// the elements the code highlighter emits.
func DefaultPolicy() Policy {
	return Policy{
		Base:         PolicyUGC,
		AllowClasses: []string{"pre", "code", "span"},
	}
}

// Build compiles the policy into a bluemonday sanitizer.
func (p Policy) Build() (*bluemonday.Policy, error) {
	var bp *bluemonday.Policy

	switch strings.ToLower(strings.TrimSpace(p.Base)) {
	case "", PolicyUGC:
		bp = bluemonday.UGCPolicy()
	case PolicyBasic:
		bp = basicPolicy()
	case PolicyStrict:
		bp = bluemonday.StrictPolicy()
	default:
		return nil, fmt.Errorf("unknown sanitize policy %q", p.Base)
	}

	if len(p.AllowElements) > 0 {
		bp.AllowElements(p.AllowElements...)
	}
	if len(p.AllowClasses) > 0 {
		bp.AllowAttrs("class").Matching(classPattern).OnElements(p.AllowClasses...)
	}
	return bp, nil
}

// basicPolicy keeps text structure and links, nothing else.
func basicPolicy() *bluemonday.Policy {
	bp := bluemonday.NewPolicy()
	bp.AllowStandardURLs()
	bp.AllowAttrs("href").OnElements("a")
	bp.RequireNoFollowOnLinks(true)
	bp.AllowElements(
		"p", "br", "hr", "strong", "b", "em", "i", "del", "s",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "blockquote", "pre", "code",
	)
	return bp
}
