package pipeline

import (
	"fmt"
	"strings"
	"time"

	"trendscout/internal/models"
)

// Holiday associates trigger phrases with a holiday id and the calendar
// months during which that holiday's tag implies plan-ahead urgency.
type Holiday struct {
	ID              string
	Triggers        []string
	PlanAheadMonths []time.Month
}

// Holiday table. A keyword may match several holidays. Plan-ahead windows
// are the one-to-two months leading up to the observed date.
var holidays = []Holiday{
	{"valentine", []string{"valentine", "love day", "couple goals", "relationship"}, []time.Month{time.January}},
	{"mothers_day", []string{"mom", "mother", "mama", "mommy"}, []time.Month{time.March, time.April}},
	{"fathers_day", []string{"dad", "father", "papa", "daddy"}, []time.Month{time.April, time.May}},
	{"christmas", []string{"christmas", "xmas", "santa", "holiday gift"}, []time.Month{time.September, time.October, time.November}},
	{"halloween", []string{"halloween", "spooky", "witch", "pumpkin"}, []time.Month{time.August, time.September}},
	{"thanksgiving", []string{"thanksgiving", "grateful", "turkey"}, []time.Month{time.September, time.October}},
	{"easter", []string{"easter", "bunny", "egg hunt"}, []time.Month{time.February, time.March}},
	{"back_to_school", []string{"school", "teacher", "student", "college"}, []time.Month{time.June, time.July}},
	{"new_year", []string{"new year", "resolution", "2026", "2027"}, []time.Month{time.November, time.December}},
	{"summer", []string{"summer", "beach", "vacation", "poolside"}, []time.Month{time.April, time.May}},
	// Lunar calendar, no fixed lead window.
	{"ramadan", []string{"ramadan", "eid", "iftar"}, nil},
}

// Category rule groups for the display tag, checked in priority order.
var categoryRules = []struct {
	tag      string
	triggers []string
}{
	{"💪 Motivational", []string{"motivat", "stoic", "mindset", "discipline", "success"}},
	{"😂 Humor", []string{"funny", "humor", "meme", "joke", "sarcastic"}},
	{"🐾 Animals", []string{"dog", "cat", "pet", "animal", "puppy", "kitten"}},
	{"❤️ Love", []string{"love", "couple", "relationship", "valentine"}},
	{"🏋️ Fitness", []string{"gym", "workout", "fitness", "muscle", "lift"}},
	{"☕ Food & Drink", []string{"coffee", "food", "wine", "beer", "pizza"}},
	{"👕 Fashion", []string{"fashion", "style", "aesthetic", "streetwear"}},
}

var holidayCategories = map[string]string{
	"christmas": "🎄 Christmas",
	"halloween": "🎃 Halloween",
	"valentine": "💝 Valentine",
}

const categoryFallback = "🔍 General"

// EvergreenScrapeCount is how many sightings across runs mark a keyword as
// perennially relevant.
const EvergreenScrapeCount = 3

// DetectTemporalTags derives the temporal context for a keyword: matching
// holiday ids, the season and quarter of the scrape date, and "evergreen"
// once the keyword has been seen enough times.
func DetectTemporalTags(keyword string, scrapedAt time.Time, scrapeCount int) []string {
	var tags []string
	lower := strings.ToLower(keyword)

	for _, h := range holidays {
		for _, trigger := range h.Triggers {
			if strings.Contains(lower, trigger) {
				tags = append(tags, h.ID)
				break
			}
		}
	}

	switch scrapedAt.Month() {
	case time.December, time.January, time.February:
		tags = append(tags, "winter")
	case time.March, time.April, time.May:
		tags = append(tags, "spring")
	case time.June, time.July, time.August:
		tags = append(tags, "summer")
	default:
		tags = append(tags, "fall")
	}

	quarter := (int(scrapedAt.Month())-1)/3 + 1
	tags = append(tags, fmt.Sprintf("Q%d", quarter))

	if scrapeCount >= EvergreenScrapeCount {
		tags = append(tags, "evergreen")
	}

	return tags
}

// DetectUrgency derives how soon the keyword's opportunity window closes.
// First matching rule wins: hot momentum, then holiday lead window, then
// evergreen, then standard.
func DetectUrgency(tags []string, avgInterest int, velocity string, now time.Time) string {
	if avgInterest >= 60 && velocity == models.VelocityRising {
		return models.UrgencyUrgent
	}

	month := now.Month()
	for _, h := range holidays {
		if !hasTag(tags, h.ID) {
			continue
		}
		for _, m := range h.PlanAheadMonths {
			if m == month {
				return models.UrgencyPlanAhead
			}
		}
	}

	if hasTag(tags, "evergreen") {
		return models.UrgencyEvergreen
	}
	return models.UrgencyStandard
}

// AssignCategory picks the display category for a keyword: keyword
// substring groups first, then any matched holiday, else the generic
// fallback. Callers assign it once and never overwrite it.
func AssignCategory(keyword string, tags []string) string {
	lower := strings.ToLower(keyword)

	for _, rule := range categoryRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(lower, trigger) {
				return rule.tag
			}
		}
	}

	for _, id := range []string{"christmas", "halloween", "valentine"} {
		if hasTag(tags, id) {
			return holidayCategories[id]
		}
	}

	return categoryFallback
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
