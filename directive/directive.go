// Package directive parses the changelog instructions that contributors fill
// in on the pull request template: an opt-in checkbox plus significance,
// type, and optional message and comment sections.
package directive

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/releasekit/changefile/stringhelper"
)

// ErrDirectiveParse reports that automation was requested but the directive
// fields could not be extracted from the PR body.
var ErrDirectiveParse = errors.New("changelog directive is malformed")

type Significance string

const (
	SignificancePatch Significance = "patch"
	SignificanceMinor Significance = "minor"
	SignificanceMajor Significance = "major"
)

type Type string

const (
	TypeSecurity   Type = "security"
	TypeAdded      Type = "added"
	TypeChanged    Type = "changed"
	TypeDeprecated Type = "deprecated"
	TypeRemoved    Type = "removed"
	TypeFixed      Type = "fixed"
	TypeOther      Type = "other"
)

type Directive struct {
	AutomationRequested bool
	Significance        Significance
	Type                Type
	Message             string
	Comment             string
}

var (
	markerRgx  = regexp.MustCompile(`(?im)^\s*[-*]\s*\[[xX]\]\s*automatically create a changelog entry`)
	headingRgx = regexp.MustCompile(`^#{2,6}\s+(.+?)\s*$`)
	checkedRgx = regexp.MustCompile(`^\s*[-*]\s*\[[xX]\]\s*(.+?)\s*$`)
	commentRgx = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// Parse extracts the changelog directive from a PR body. A body without the
// opt-in checkbox (missing or unchecked) is a normal outcome: the returned
// directive has AutomationRequested false and the remaining fields are not
// meaningful. A checked box with missing or unrecognized significance or type
// is an error.
func Parse(body string) (*Directive, error) {
	if !markerRgx.MatchString(body) {
		return &Directive{}, nil
	}
	sections := splitSections(body)

	sig, err := checkedOption(sections["significance"], "significance")
	if err != nil {
		return nil, err
	}
	significance, err := parseSignificance(sig)
	if err != nil {
		return nil, err
	}

	typ, err := checkedOption(sections["type"], "type")
	if err != nil {
		return nil, err
	}
	changeType, err := parseType(typ)
	if err != nil {
		return nil, err
	}

	return &Directive{
		AutomationRequested: true,
		Significance:        significance,
		Type:                changeType,
		Message:             sectionText(sections["message"]),
		Comment:             sectionText(sections["comment"]),
	}, nil
}

// splitSections buckets body lines under the markdown heading that precedes
// them, keyed by the lowercased heading text. Lines before the first heading
// are dropped.
func splitSections(body string) map[string][]string {
	sections := map[string][]string{}
	var current string
	for _, line := range strings.Split(body, "\n") {
		if m := headingRgx.FindStringSubmatch(line); m != nil {
			current = strings.ToLower(strings.TrimSpace(m[1]))
			continue
		}
		if current == "" {
			continue
		}
		sections[current] = append(sections[current], line)
	}
	return sections
}

// checkedOption returns the label of the single checked checkbox in a
// section. Zero or more than one checked box is a parse error.
func checkedOption(lines []string, section string) (string, error) {
	var labels []string
	for _, line := range lines {
		if m := checkedRgx.FindStringSubmatch(line); m != nil {
			labels = append(labels, m[1])
		}
	}
	switch len(labels) {
	case 0:
		return "", fmt.Errorf("no %s selected: %w", section, ErrDirectiveParse)
	case 1:
		return labels[0], nil
	default:
		return "", fmt.Errorf("more than one %s selected: %w", section, ErrDirectiveParse)
	}
}

func sectionText(lines []string) string {
	text := strings.Join(lines, "\n")
	text = commentRgx.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func parseSignificance(label string) (Significance, error) {
	// Template labels look like "Patch: backwards-compatible bug fixes", so
	// only the leading word identifies the choice.
	switch word := stringhelper.FirstWord(label); Significance(word) {
	case SignificancePatch, SignificanceMinor, SignificanceMajor:
		return Significance(word), nil
	default:
		return "", fmt.Errorf("unknown significance %q: %w", label, ErrDirectiveParse)
	}
}

func parseType(label string) (Type, error) {
	switch word := stringhelper.FirstWord(label); Type(word) {
	case TypeSecurity, TypeAdded, TypeChanged, TypeDeprecated, TypeRemoved, TypeFixed, TypeOther:
		return Type(word), nil
	default:
		return "", fmt.Errorf("unknown change type %q: %w", label, ErrDirectiveParse)
	}
}
