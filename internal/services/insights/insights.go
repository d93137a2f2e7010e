// Package insights derives summary metrics from a set of interactions.
// Everything here is pure computation over already-fetched rows; both
// dashboards used to recompute these figures in the browser.
package insights

import (
	"sort"
	"unicode/utf8"

	"talktracker/internal/models"
)

type TypeShare struct {
	Type    string  `json:"type"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type PersonCount struct {
	Person string `json:"person"`
	Count  int    `json:"count"`
}

type Report struct {
	Total                    int           `json:"total"`
	Distribution             []TypeShare   `json:"distribution"`
	TopPeople                []PersonCount `json:"top_people"`
	ConfrontationRate        float64       `json:"confrontation_rate"`
	TopConfrontationPartner  string        `json:"top_confrontation_partner,omitempty"`
	ReflectionCompletionRate float64       `json:"reflection_completion_rate"`
	AvgReflectionLength      float64       `json:"avg_reflection_length"`
}

const topPeopleLimit = 5

// Compute builds a Report from rows. Percentages are 0..100 rounded to one
// decimal; an empty input yields an all-zero report.
func Compute(rows []models.Interaction) Report {
	rep := Report{Distribution: []TypeShare{}, TopPeople: []PersonCount{}}
	rep.Total = len(rows)
	if rep.Total == 0 {
		for _, t := range models.InteractionTypes {
			rep.Distribution = append(rep.Distribution, TypeShare{Type: t})
		}
		return rep
	}

	byType := map[string]int{}
	byPerson := map[string]int{}
	confrontationsByPerson := map[string]int{}
	confrontations := 0
	reflected := 0
	reflectionRunes := 0

	for _, row := range rows {
		byType[row.InteractionType]++
		byPerson[row.Person]++
		if row.InteractionType == "Confrontation" {
			confrontations++
			confrontationsByPerson[row.Person]++
		}
		if row.Reflection != "" {
			reflected++
			reflectionRunes += utf8.RuneCountInString(row.Reflection)
		}
	}

	for _, t := range models.InteractionTypes {
		rep.Distribution = append(rep.Distribution, TypeShare{
			Type:    t,
			Count:   byType[t],
			Percent: round1(float64(byType[t]) / float64(rep.Total) * 100),
		})
	}

	rep.TopPeople = topCounts(byPerson, topPeopleLimit)
	rep.ConfrontationRate = round1(float64(confrontations) / float64(rep.Total) * 100)
	if top := topCounts(confrontationsByPerson, 1); len(top) > 0 {
		rep.TopConfrontationPartner = top[0].Person
	}
	rep.ReflectionCompletionRate = round1(float64(reflected) / float64(rep.Total) * 100)
	if reflected > 0 {
		rep.AvgReflectionLength = round1(float64(reflectionRunes) / float64(reflected))
	}
	return rep
}

// topCounts orders by count descending, then name ascending for stable output.
func topCounts(m map[string]int, limit int) []PersonCount {
	out := make([]PersonCount, 0, len(m))
	for p, n := range m {
		out = append(out, PersonCount{Person: p, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Person < out[j].Person
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}
