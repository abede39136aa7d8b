package corpus

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Section is one titled block of body text inside a publication.
type Section struct {
	Title string
	Body  string
}

// Document is a single scraped publication after section normalization.
// Sections keep the order in which titles first appeared in the source record.
type Document struct {
	Name         string
	Link         string
	SectionNames []string
	Sections     []Section
	Error        string
}

// Corpus is the ordered collection of documents read from one data file.
type Corpus []Document

// Text flattens the document into one retrievable blob, "title: body" per section.
func (d Document) Text() string {
	lines := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		lines = append(lines, s.Title+": "+s.Body)
	}
	return strings.Join(lines, "\n")
}

// Metadata is attached to every retrievable blob produced from the document.
func (d Document) Metadata() map[string]string {
	return map[string]string{
		"title": d.Name,
		"link":  d.Link,
	}
}

// Bodies returns every section body in order.
func (d Document) Bodies() []string {
	bodies := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		bodies = append(bodies, s.Body)
	}
	return bodies
}

// SetSection adds a section, or replaces the body of an existing title in place.
func (d *Document) SetSection(title, body string) {
	for i := range d.Sections {
		if d.Sections[i].Title == title {
			d.Sections[i].Body = body
			return
		}
	}
	d.Sections = append(d.Sections, Section{Title: title, Body: body})
}

// MarshalJSON writes the document in the scraper's on-disk shape, with
// sections as a title->body object in section order.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	writeField := func(key string, v any, first bool) error {
		if !first {
			buf.WriteByte(',')
		}
		if err := enc.Encode(key); err != nil {
			return err
		}
		trimNewline(&buf)
		buf.WriteByte(':')
		if err := enc.Encode(v); err != nil {
			return err
		}
		trimNewline(&buf)
		return nil
	}

	names := d.SectionNames
	if names == nil {
		names = []string{}
	}

	buf.WriteByte('{')
	if err := writeField("name", d.Name, true); err != nil {
		return nil, err
	}
	if err := writeField("link", d.Link, false); err != nil {
		return nil, err
	}
	if err := writeField("sectionNames", names, false); err != nil {
		return nil, err
	}

	buf.WriteString(`,"sections":{`)
	for i, s := range d.Sections {
		if err := writeField(s.Title, s.Body, i == 0); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')

	if d.Error != "" {
		if err := writeField("error", d.Error, false); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON accepts any of the legacy record shapes and normalizes them.
func (d *Document) UnmarshalJSON(data []byte) error {
	doc, err := normalizeEntry(data)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

func trimNewline(buf *bytes.Buffer) {
	if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] == '\n' {
		buf.Truncate(buf.Len() - 1)
	}
}
