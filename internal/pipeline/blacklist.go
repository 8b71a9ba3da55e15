package pipeline

import (
	"strings"

	"trendscout/internal/models"
)

// Blacklist reason codes.
const (
	ReasonOffensive   = "offensive_content"
	ReasonMedicalRisk = "medical_claim_risk"
	reasonBrandPrefix = "brand_violation:"
)

// Known brand names and copyrighted terms. Scoring these wastes API calls
// and any resulting design is an IP risk.
var brandBlacklist = []string{
	"nike", "adidas", "puma", "reebok", "under armour",
	"disney", "marvel", "dc comics", "star wars", "harry potter",
	"netflix", "spotify", "amazon", "apple", "google",
	"coca cola", "pepsi", "starbucks", "mcdonalds", "mcdonald's",
	"gucci", "prada", "louis vuitton", "chanel",
	"fortnite", "minecraft", "pokemon", "roblox",
	"playstation", "xbox", "nintendo",
	"supreme", "rolex", "ferrari", "porsche",
	"coca-cola", "red bull", "monster energy",
}

// Profanity and offensive terms, extended via config as encountered.
var offensiveBlacklist = []string{}

// Medical and legal claim phrases.
var medicalBlacklist = []string{
	"cure", "treat", "diagnose", "medical", "doctor",
	"prescription", "medicine", "drug", "therapy",
	"lose weight fast", "guaranteed results", "miracle cure",
	"fda approved", "clinical", "pharmaceutical",
}

// Blacklist rejects keywords that would waste classification spend or carry
// IP, offensive-content, or medical-claim risk. Matching is case-insensitive
// substring, checked brand first, then offensive, then medical.
type Blacklist struct {
	brands    []string
	offensive []string
	medical   []string
}

// NewBlacklist builds the default rule sets, plus any extra terms supplied
// from configuration. Extra terms land in the offensive set.
func NewBlacklist(extraTerms ...string) *Blacklist {
	return &Blacklist{
		brands:    brandBlacklist,
		offensive: append(append([]string{}, offensiveBlacklist...), extraTerms...),
		medical:   medicalBlacklist,
	}
}

// Check reports whether a keyword is blocked and, if so, the reason code
// from the first matching rule set.
func (b *Blacklist) Check(keyword string) (bool, string) {
	lower := strings.ToLower(keyword)

	for _, brand := range b.brands {
		if strings.Contains(lower, brand) {
			return true, reasonBrandPrefix + brand
		}
	}
	for _, term := range b.offensive {
		if strings.Contains(lower, strings.ToLower(term)) {
			return true, ReasonOffensive
		}
	}
	for _, term := range b.medical {
		if strings.Contains(lower, term) {
			return true, ReasonMedicalRisk
		}
	}
	return false, ""
}

// FilterBatch partitions candidates into clean and blocked, preserving the
// relative order of the clean sublist.
func (b *Blacklist) FilterBatch(candidates []Candidate) ([]Candidate, []models.BlockedKeyword) {
	var clean []Candidate
	var blocked []models.BlockedKeyword

	for _, c := range candidates {
		if isBlocked, reason := b.Check(c.Term); isBlocked {
			blocked = append(blocked, models.BlockedKeyword{Keyword: c.Term, Reason: reason})
		} else {
			clean = append(clean, c)
		}
	}
	return clean, blocked
}
