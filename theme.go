package wenyan

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme. A negative index means no color.
type Theme struct {
	Keyword  int // Emphasized query word
	Flash    int // Quick answer text
	Thinking int // Deep-thought text
	Answer   int // Parsed answers
	Textbook int // Textbook note marker
	Error    int // Error messages
	Success  int // Success indicators
	Muted    int // Status bar, placeholders
	Accent   int // Headings, links
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Keyword:  3,
		Flash:    -1,
		Thinking: 8,
		Answer:   2,
		Textbook: 6,
		Error:    1,
		Success:  2,
		Muted:    8,
		Accent:   5,
	}
}
