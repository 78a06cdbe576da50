package nlp

import (
	"strings"

	"github.com/hangraph/hangraph/core"
)

// categoryByTag is the fixed tag-to-category mapping.
// It is a static table rather than runtime configuration so classification is
// total, exhaustive over the analyzer's tag vocabulary, and testable in
// isolation. Tags absent from the table classify as Discard.
var categoryByTag = map[core.Tag]core.Category{
	// Noun-like: common noun, proper noun, numeral, pronoun.
	TagNNG: core.CategoryNoun,
	TagNNP: core.CategoryNoun,
	TagNR:  core.CategoryNoun,
	TagNP:  core.CategoryNoun,

	// Verb and adjective stems.
	TagVV: core.CategoryVerb,
	TagVA: core.CategoryVerb,

	// Determiners.
	TagMM: core.CategoryModifier,

	// Endings (final, connective, nominalizing) and all punctuation/symbols.
	// These mark sentence or clause boundaries and never originate a relation.
	TagEP:  core.CategoryBoundary,
	TagEF:  core.CategoryBoundary,
	TagEC:  core.CategoryBoundary,
	TagETN: core.CategoryBoundary,
	TagETM: core.CategoryBoundary,
	TagSF:  core.CategoryBoundary,
	TagSP:  core.CategoryBoundary,
	TagSS:  core.CategoryBoundary,
	TagSSO: core.CategoryBoundary,
	TagSSC: core.CategoryBoundary,
	TagSE:  core.CategoryBoundary,
	TagSO:  core.CategoryBoundary,
	TagSW:  core.CategoryBoundary,
	TagSB:  core.CategoryBoundary,
}

// Classify maps a raw POS tag to its coarse category.
// Pure and total: any tag outside the table classifies as Discard.
// Tag comparison is case-insensitive; analyzers differ in tag casing.
func Classify(tag core.Tag) core.Category {
	if category, ok := categoryByTag[core.Tag(strings.ToUpper(string(tag)))]; ok {
		return category
	}
	return core.CategoryDiscard
}

// ClassifyTokens classifies a token sequence, dropping tokens whose tag maps
// to Discard. Order and surface forms of the remaining tokens are preserved;
// every retained token produces exactly one ClassifiedToken.
func ClassifyTokens(tokens []core.Token) []core.ClassifiedToken {
	classified := make([]core.ClassifiedToken, 0, len(tokens))
	for _, token := range tokens {
		category := Classify(token.Tag)
		if category == core.CategoryDiscard {
			continue
		}
		classified = append(classified, core.ClassifiedToken{
			Form:     token.Form,
			Category: category,
			Tag:      token.Tag,
		})
	}
	return classified
}
