package interview

import "sort"

// DefaultCategory is used whenever the requested category is unknown.
const DefaultCategory = "General"

var catalog = map[string][]string{
	"Technical": {
		"Explain a complex technical problem you solved recently.",
		"How do you approach debugging a difficult issue?",
		"Describe your experience with system design.",
		"What programming languages are you most comfortable with?",
		"How do you ensure code quality in your projects?",
	},
	"Behavioral": {
		"Tell me about yourself and your background.",
		"Describe a challenging situation you faced at work and how you handled it.",
		"What are your greatest strengths and how do they apply to this role?",
		"Where do you see yourself in 5 years?",
		"Why do you want to work for our company?",
	},
	"General": {
		"What motivates you in your work?",
		"How do you handle stress and pressure?",
		"Describe a time when you had to work with a difficult team member.",
		"What is your biggest professional achievement?",
		"What is your biggest weakness and how are you working to improve it?",
	},
}

// SelectQuestions picks questions for a session. A caller-supplied custom
// list wins over the catalog. Selection is purely positional: the first
// count entries, fewer when the source list is shorter. Never errors.
func SelectQuestions(category string, count int, custom []string) []string {
	if count < 0 {
		count = 0
	}
	src := custom
	if len(src) == 0 {
		var ok bool
		src, ok = catalog[category]
		if !ok {
			src = catalog[DefaultCategory]
		}
	}
	if count > len(src) {
		count = len(src)
	}
	out := make([]string, count)
	copy(out, src[:count])
	return out
}

// Categories lists the catalog categories in a stable order.
func Categories() []string {
	out := make([]string, 0, len(catalog))
	for k := range catalog {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
