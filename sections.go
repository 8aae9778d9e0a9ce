package wenyan

import "strings"

// SectionParser splits a streamed text blob into sections delimited by tag
// lines. A line starting with "<tag>" opens a section and a line ending with
// "</tag>" closes the open one after contributing its text, so markers may
// share a line with content. Lines outside any section are dropped. A
// section opened but never closed runs to the end of the blob, which keeps
// partial streams readable.
type SectionParser struct {
	// Tags are the recognized tag names, matched in order.
	Tags []string
	// ListTag names the tag whose content is split on Separator into a list
	// instead of being accumulated as text.
	ListTag   string
	Separator string
}

// Sections is the result of SectionParser.Parse.
type Sections struct {
	// Fields maps every non-list tag to its text. Each contributing line is
	// terminated with a newline.
	Fields map[string]string
	// List holds the entries of the list tag.
	List []string
}

// Parse scans text line by line.
func (p SectionParser) Parse(text string) Sections {
	fields := make(map[string]*strings.Builder, len(p.Tags))
	for _, tag := range p.Tags {
		if tag != p.ListTag {
			fields[tag] = &strings.Builder{}
		}
	}
	list := []string{}

	var open string
	for _, line := range strings.Split(text, "\n") {
		start, end := 0, len(line)
		for _, tag := range p.Tags {
			if opener := "<" + tag + ">"; strings.HasPrefix(line, opener) {
				open = tag
				start = len(opener)
				break
			}
		}
		closed := false
		for _, tag := range p.Tags {
			if strings.HasSuffix(line, "</"+tag+">") {
				end = strings.LastIndexByte(line, '<')
				closed = true
				break
			}
		}

		if open != "" {
			var content string
			if start <= end {
				content = line[start:end]
			}
			if open == p.ListTag {
				list = append(list, p.splitList(content)...)
			} else {
				fields[open].WriteString(content)
				fields[open].WriteByte('\n')
			}
		}
		if closed {
			open = ""
		}
	}

	out := Sections{Fields: make(map[string]string, len(fields)), List: list}
	for tag, b := range fields {
		out.Fields[tag] = b.String()
	}
	return out
}

func (p SectionParser) splitList(content string) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	var entries []string
	for _, entry := range strings.Split(content, p.Separator) {
		if entry = strings.TrimSpace(entry); entry != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}

// ThoughtParser recognizes the sections of a deep-thought answer. Answers
// are separated by a full-width semicolon.
var ThoughtParser = SectionParser{
	Tags:      []string{"think", "explain", "answers"},
	ListTag:   "answers",
	Separator: "；",
}

// Thought is the structured form of a deep-thought answer.
type Thought struct {
	Think   string
	Explain string
	Answers []string
}

// ParseThought parses a (possibly partial) deep-thought answer.
func ParseThought(text string) Thought {
	s := ThoughtParser.Parse(text)
	return Thought{
		Think:   s.Fields["think"],
		Explain: s.Fields["explain"],
		Answers: s.List,
	}
}
