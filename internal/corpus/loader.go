package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
)

// Load reads the data file at path and normalizes every record in it.
func Load(path string) (Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: data file not found at %s", ErrCorpusUnavailable, path)
		}
		return nil, fmt.Errorf("failed to open data file %s: %w", path, err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode parses a JSON array of publication records. Elements that are not
// objects are skipped; a top-level value other than an array is an error.
func Decode(r io.Reader) (Corpus, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrCorpusFormat)
	}
	if kind := firstByte(data); kind != '[' {
		return nil, fmt.Errorf("%w: expected a list of records, got %s", ErrCorpusFormat, kindName(kind))
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpusFormat, err)
	}

	docs := make(Corpus, 0, len(entries))
	for _, entry := range entries {
		doc, err := normalizeEntry(entry)
		if errors.Is(err, errNotObject) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorpusFormat, err)
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// normalizeEntry turns one raw record into a Document. Every shape tolerance
// of legacy producers is handled here and nowhere else.
func normalizeEntry(raw json.RawMessage) (Document, error) {
	if firstByte(raw) != '{' {
		return Document{}, errNotObject
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Document{}, err
	}

	doc := Document{
		Name:         stringField(fields["name"]),
		Link:         stringField(fields["link"]),
		Error:        stringField(fields["error"]),
		SectionNames: stringList(fields["sectionNames"]),
	}

	rawSections := fields["sections"]
	switch firstByte(rawSections) {
	case '{':
		pairs, err := orderedObject(rawSections)
		if err != nil {
			return Document{}, err
		}
		for _, p := range pairs {
			doc.SetSection(p.key, stringify(p.value))
		}

		if len(doc.Sections) == 0 && len(doc.SectionNames) > 0 {
			lookup := make(map[string]json.RawMessage, len(pairs))
			for _, p := range pairs {
				lookup[p.key] = p.value
			}
			for _, title := range doc.SectionNames {
				doc.SetSection(title, stringify(lookup[title]))
			}
		}

	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(rawSections, &items); err != nil {
			return Document{}, err
		}
		for _, item := range items {
			switch firstByte(item) {
			case '{':
				var sec map[string]json.RawMessage
				if err := json.Unmarshal(item, &sec); err != nil {
					return Document{}, err
				}
				title := "section"
				if v, ok := firstTruthy(sec["title"], sec["name"]); ok {
					title = stringify(v)
				}
				body := ""
				if v, ok := firstTruthy(sec["text"], sec["body"]); ok {
					body = stringify(v)
				}
				doc.SetSection(title, body)
			case '"':
				doc.SetSection(stringify(item), "")
			}
		}
	}

	return doc, nil
}

type keyValue struct {
	key   string
	value json.RawMessage
}

// orderedObject decodes a JSON object keeping its key order.
func orderedObject(raw json.RawMessage) ([]keyValue, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var pairs []keyValue
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		pairs = append(pairs, keyValue{key: key, value: value})
	}
	return pairs, nil
}

// stringify coerces any JSON value to a string: null and missing values
// become "", strings are unquoted, everything else keeps its compact JSON text.
func stringify(raw json.RawMessage) string {
	switch firstByte(raw) {
	case 0, 'n':
		return ""
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// stringField keeps string values only.
func stringField(raw json.RawMessage) string {
	if firstByte(raw) != '"' {
		return ""
	}
	return stringify(raw)
}

func stringList(raw json.RawMessage) []string {
	if firstByte(raw) != '[' {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	list := make([]string, 0, len(items))
	for _, item := range items {
		if firstByte(item) == '"' {
			list = append(list, stringify(item))
		}
	}
	return list
}

// firstTruthy returns the first value that is present and not empty, zero or false.
func firstTruthy(values ...json.RawMessage) (json.RawMessage, bool) {
	for _, v := range values {
		switch string(bytes.TrimSpace(v)) {
		case "", "null", `""`, "false", "[]", "{}":
			continue
		}
		if isZeroNumber(v) {
			continue
		}
		return v, true
	}
	return nil, false
}

// isZeroNumber reports whether raw is a JSON number equal to zero, in any
// spelling: 0, -0, 0.0, 0e0.
func isZeroNumber(raw json.RawMessage) bool {
	b := firstByte(raw)
	if b != '-' && (b < '0' || b > '9') {
		return false
	}
	f, err := strconv.ParseFloat(string(bytes.TrimSpace(raw)), 64)
	return err == nil && f == 0
}

func firstByte(raw []byte) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func kindName(b byte) string {
	switch b {
	case '{':
		return "object"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	case 0:
		return "nothing"
	default:
		return "number"
	}
}
