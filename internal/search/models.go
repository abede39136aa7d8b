package search

type HitType string

const (
	HitTitle   HitType = "title"
	HitLink    HitType = "link"
	HitSection HitType = "section"
	HitExcerpt HitType = "excerpt"
)

// Hit is one place in a document where the query was found.
type Hit struct {
	Type    HitType `json:"type"`
	Title   string  `json:"title"`
	Excerpt string  `json:"excerpt"`
}

type SectionMatch struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Matched bool   `json:"matched"`
	Content string `json:"content"`
}

type MatchResult struct {
	Name            string         `json:"name"`
	Link            string         `json:"link"`
	Matches         []Hit          `json:"matches"`
	Sections        []SectionMatch `json:"sections"`
	MatchCount      int            `json:"match_count" description:"Number of sections that matched"`
	OccurrenceCount int            `json:"occurrence_count" description:"Non-overlapping occurrences of the whole query"`
	WordMatchCount  int            `json:"word_match_count" description:"Distinct query words found when the phrase is absent"`
}

type SearchRequest struct {
	Query string `json:"query"`
	Exact bool   `json:"exact,omitempty" description:"Only return whole-phrase matches (default: false)"`
}

type SearchResponse struct {
	Query  string        `json:"query"`
	Exact  bool          `json:"exact"`
	Result []MatchResult `json:"result"`
	Count  int           `json:"count"`
}
