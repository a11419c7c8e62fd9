package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
)

// ParseError is a syntax error located in a feature file.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// gherkin reports every error as "(line:column): message", one per line.
var errorLine = regexp.MustCompile(`^\((\d+):(\d+)\): (.*)$`)

// Parse parses a .feature file into a Gherkin document. The document is
// returned even when errors were found; it then holds what could be parsed.
func Parse(filename string, content []byte) (*messages.GherkinDocument, []ParseError) {
	doc, err := gherkin.ParseGherkinDocument(bytes.NewReader(content), (&messages.Incrementing{}).NewId)
	if doc != nil {
		doc.Uri = filename
	}
	if err == nil {
		return doc, nil
	}

	var errors []ParseError
	for _, line := range strings.Split(err.Error(), "\n") {
		m := errorLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		l, _ := strconv.Atoi(m[1])
		c, _ := strconv.Atoi(m[2])
		errors = append(errors, ParseError{Line: l, Column: c, Message: m[3]})
	}
	if len(errors) == 0 {
		errors = append(errors, ParseError{Message: err.Error()})
	}
	return doc, errors
}
