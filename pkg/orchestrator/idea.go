package orchestrator

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	slateItemPattern  = regexp.MustCompile(`(?i)^\s*(?:#{1,6}\s*)?(?:\*\*)?(?:idea\s*)?(\d{1,2})[.):]\s*(.+)$`)
	boldNamePattern   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	pickNumberPattern = regexp.MustCompile(`(?:#\s*|\b(?:idea|option|number|no\.?|pick|choose|go with)\s*#?\s*)(\d{1,2})\b`)
	bareNumberPattern = regexp.MustCompile(`^\s*#?(\d{1,2})\s*[.!]?\s*$`)
	ordinalPattern    = regexp.MustCompile(`\b(first|second|third|fourth|fifth|1st|2nd|3rd|4th|5th|last)\s+(?:one|idea|option)\b`)
)

var ordinals = map[string]int{
	"first": 1, "1st": 1,
	"second": 2, "2nd": 2,
	"third": 3, "3rd": 3,
	"fourth": 4, "4th": 4,
	"fifth": 5, "5th": 5,
}

type slateItem struct {
	number int
	name   string // bold name, if any
	text   string
}

// ResolveIdea returns the idea to validate: the recorded startup idea, else
// the slate item the founder's message picks ("#2", "the second one", a
// bold idea name), else the message itself.
func ResolveIdea(startupIdea, slate, message string) string {
	if idea := strings.TrimSpace(startupIdea); idea != "" {
		return idea
	}
	message = strings.TrimSpace(message)
	if item, ok := pickSlateItem(parseSlate(slate), message); ok {
		return item.text
	}
	return message
}

func parseSlate(slate string) []slateItem {
	var items []slateItem
	for _, line := range strings.Split(slate, "\n") {
		m := slateItemPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		item := slateItem{number: n, text: cleanMarkdown(m[2])}
		if b := boldNamePattern.FindStringSubmatch(line); b != nil {
			item.name = strings.TrimSpace(b[1])
		}
		if item.text != "" {
			items = append(items, item)
		}
	}
	return items
}

func pickSlateItem(items []slateItem, message string) (slateItem, bool) {
	if len(items) == 0 {
		return slateItem{}, false
	}
	text := strings.ToLower(message)

	number := 0
	switch {
	case bareNumberPattern.MatchString(text):
		number, _ = strconv.Atoi(bareNumberPattern.FindStringSubmatch(text)[1])
	case pickNumberPattern.MatchString(text):
		number, _ = strconv.Atoi(pickNumberPattern.FindStringSubmatch(text)[1])
	case ordinalPattern.MatchString(text):
		word := ordinalPattern.FindStringSubmatch(text)[1]
		if word == "last" {
			return items[len(items)-1], true
		}
		number = ordinals[word]
	}
	if number > 0 {
		for _, item := range items {
			if item.number == number {
				return item, true
			}
		}
		return slateItem{}, false
	}

	for _, item := range items {
		if item.name != "" && strings.Contains(text, strings.ToLower(item.name)) {
			return item, true
		}
	}
	if len(items) == 1 {
		return items[0], true
	}
	return slateItem{}, false
}

func cleanMarkdown(s string) string {
	s = strings.NewReplacer("**", "", "__", "", "`", "").Replace(s)
	return strings.TrimSpace(s)
}
