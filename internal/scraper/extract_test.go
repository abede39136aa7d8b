package scraper

import (
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/pub-search/internal/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articlePage = `<html><body>
<section class="front-matter"><h2>Ignored</h2><p>not in body</p></section>
<section class="body main-article-body">
  <section id="abs">
    <h2>Abstract</h2>
    <p>Mice were flown <b>for 30 days</b>.</p>
    <p>  Bone density dropped. </p>
  </section>
  <section id="methods">
    <h2>Methods</h2>
    <h3>Animals</h3>
    <p>Twenty mice.</p>
  </section>
  <section id="noheading"><p>orphan paragraph</p></section>
  <section id="refs">
    <h2>References</h2>
    <ul><li>Smith 2020</li><li>Doe 2021</li></ul>
  </section>
</section>
</body></html>`

func TestExtractSections(t *testing.T) {
	doc := corpus.Document{Name: "Mice", Link: "https://example.org/mice"}

	require.NoError(t, ExtractSections(strings.NewReader(articlePage), &doc))

	assert.Equal(t, []string{"Abstract", "Methods", "References"}, doc.SectionNames)
	assert.Equal(t, []corpus.Section{
		{Title: "Abstract", Body: "Mice were flownfor 30 days.\nBone density dropped.\n"},
		{Title: "Methods", Body: "Animals\nTwenty mice.\n"},
		{Title: "References", Body: "Smith 2020Doe 2021"},
	}, doc.Sections)
}

func TestExtractSections_RepeatedTitleOverwrites(t *testing.T) {
	page := `<section class="main-article-body">
		<section><h2>Results</h2><p>first</p></section>
		<section><h2>Results</h2><p>second</p></section>
	</section>`
	doc := corpus.Document{}

	require.NoError(t, ExtractSections(strings.NewReader(page), &doc))

	assert.Equal(t, []string{"Results", "Results"}, doc.SectionNames)
	assert.Equal(t, []corpus.Section{{Title: "Results", Body: "second\n"}}, doc.Sections)
}

func TestExtractSections_NoArticleBody(t *testing.T) {
	doc := corpus.Document{}

	require.NoError(t, ExtractSections(strings.NewReader("<html><body><p>hi</p></body></html>"), &doc))

	assert.Empty(t, doc.Sections)
	assert.NotNil(t, doc.SectionNames)
}
