package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/single"
	"github.com/blevesearch/bleve/v2/mapping"
)

// titleKeyAnalyzer indexes a whole title as one lowercased token.
const titleKeyAnalyzer = "title_key"

// buildIndexMapping creates the Bleve index mapping for title documents.
//
//   - title: full text, standard analyzer (stop words removed, no stemming)
//   - title_key: the full title as a single case-folded term, for exact hits
//   - row: catalog row of the first book carrying the title
func buildIndexMapping() (mapping.IndexMapping, error) {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = standard.Name

	if err := indexMapping.AddCustomAnalyzer(titleKeyAnalyzer, map[string]any{
		"type":          custom.Name,
		"tokenizer":     single.Name,
		"token_filters": []string{lowercase.Name},
	}); err != nil {
		return nil, err
	}

	docMapping := bleve.NewDocumentMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = standard.Name
	titleFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	keyFieldMapping := bleve.NewTextFieldMapping()
	keyFieldMapping.Analyzer = titleKeyAnalyzer
	keyFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("title_key", keyFieldMapping)

	rowFieldMapping := bleve.NewNumericFieldMapping()
	rowFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("row", rowFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping, nil
}
