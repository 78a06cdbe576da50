package nlp

import "github.com/hangraph/hangraph/core"

// POS tags of the Sejong tagset as emitted by Kiwi-compatible analyzers.
// Only a subset participates in classification; the remainder is listed so
// adapters and tests can refer to tags by name.
const (
	TagNNG core.Tag = "NNG" // common noun
	TagNNP core.Tag = "NNP" // proper noun
	TagNNB core.Tag = "NNB" // bound noun
	TagNR  core.Tag = "NR"  // numeral
	TagNP  core.Tag = "NP"  // pronoun

	TagVV core.Tag = "VV" // verb stem
	TagVA core.Tag = "VA" // adjective stem
	TagVX core.Tag = "VX" // auxiliary predicate

	TagMM  core.Tag = "MM"  // determiner/modifier
	TagMAG core.Tag = "MAG" // general adverb
	TagMAJ core.Tag = "MAJ" // conjunctive adverb
	TagIC  core.Tag = "IC"  // interjection

	TagJKS core.Tag = "JKS" // subject particle
	TagJKO core.Tag = "JKO" // object particle
	TagJKB core.Tag = "JKB" // adverbial particle
	TagJKG core.Tag = "JKG" // adnominal particle
	TagJX  core.Tag = "JX"  // auxiliary particle

	TagEP  core.Tag = "EP"  // pre-final ending
	TagEF  core.Tag = "EF"  // final ending
	TagEC  core.Tag = "EC"  // connective ending
	TagETN core.Tag = "ETN" // nominalizing ending
	TagETM core.Tag = "ETM" // adnominalizing ending

	TagSF  core.Tag = "SF"  // sentence-final punctuation
	TagSP  core.Tag = "SP"  // separator punctuation
	TagSS  core.Tag = "SS"  // quote/bracket
	TagSSO core.Tag = "SSO" // opening bracket
	TagSSC core.Tag = "SSC" // closing bracket
	TagSE  core.Tag = "SE"  // ellipsis
	TagSO  core.Tag = "SO"  // hyphen/dash
	TagSW  core.Tag = "SW"  // other symbol
	TagSB  core.Tag = "SB"  // list marker

	TagSL core.Tag = "SL" // foreign word
	TagSH core.Tag = "SH" // hanja
	TagSN core.Tag = "SN" // number
)
