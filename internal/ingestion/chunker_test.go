package ingestion

import (
	"reflect"
	"testing"
)

func TestChunker_ChunkText(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		overlap  int
		text     string
		expected []string
	}{
		{name: "overlapping windows", size: 4, overlap: 1, text: "abcdefghij", expected: []string{"abcd", "defg", "ghij"}},
		{name: "no overlap", size: 5, overlap: 0, text: "abcdefghij", expected: []string{"abcde", "fghij"}},
		{name: "short tail", size: 4, overlap: 0, text: "abcdefghij", expected: []string{"abcd", "efgh", "ij"}},
		{name: "text shorter than window", size: 100, overlap: 10, text: "dust", expected: []string{"dust"}},
		{name: "counts characters", size: 2, overlap: 0, text: "ééééé", expected: []string{"éé", "éé", "é"}},
		{name: "empty text", size: 4, overlap: 1, text: "", expected: []string{}},
		{name: "overlap not smaller than size", size: 4, overlap: 4, text: "abcdefgh", expected: []string{}},
		{name: "zero size", size: 0, overlap: 0, text: "abc", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := NewChunker(tt.size, tt.overlap).ChunkText(tt.text)

			got := make([]string, 0, len(chunks))
			for i, c := range chunks {
				if c.Index != i {
					t.Errorf("chunk %d has index %d", i, c.Index)
				}
				got = append(got, c.Content)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestChunker_Offsets(t *testing.T) {
	chunks := NewChunker(4, 1).ChunkText("abcdefghij")

	expected := []Chunk{
		{Index: 0, Start: 0, End: 4, Content: "abcd"},
		{Index: 1, Start: 3, End: 7, Content: "defg"},
		{Index: 2, Start: 6, End: 10, Content: "ghij"},
	}
	if !reflect.DeepEqual(chunks, expected) {
		t.Errorf("Expected %+v, got %+v", expected, chunks)
	}
}
