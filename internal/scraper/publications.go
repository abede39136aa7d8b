package scraper

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// Publication is one (name, link) row of the input CSV.
type Publication struct {
	Name string
	Link string
}

// LoadPublications reads the publication list from a CSV file.
func LoadPublications(path string) ([]Publication, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open publication list: %w", err)
	}
	defer f.Close()

	return ReadPublications(f)
}

// ReadPublications skips the header row and keeps rows with at least two
// columns. A repeated name keeps its first position and takes the last link.
func ReadPublications(r io.Reader) ([]Publication, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []Publication{}, nil
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	publications := []Publication{}
	index := make(map[string]int)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		if len(row) < 2 {
			continue
		}

		if i, ok := index[row[0]]; ok {
			publications[i].Link = row[1]
			continue
		}
		index[row[0]] = len(publications)
		publications = append(publications, Publication{Name: row[0], Link: row[1]})
	}

	return publications, nil
}
