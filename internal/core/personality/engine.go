// Package personality turns aggregated listening metadata into a four-letter
// MBTI-style type code. Infer is a pure function: it keeps no state, performs
// no I/O and may be called concurrently without coordination.
package personality

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"

	"github.com/ewilliams-labs/typetune/internal/core/domain"
)

const (
	topGenreLimit = 3

	// Tracks shorter than the expected duration lean towards Sensing.
	expectedDurationMs = 215000.0
	durationSpreadMs   = 120000.0

	extravertBoost = 0.03
	acousticBoost  = 0.02
	thinkingNudge  = 0.04
	judgingStep    = 0.05

	threshold = 0.5
)

var (
	extravertGenres  = tagSet("dance pop", "pop rap", "edm")
	thinkingGenres   = tagSet("rap", "trap", "metal")
	feelingGenres    = tagSet("r&b", "soul", "neo mellow", "ballad", "k-ballad")
	judgingGenres    = tagSet("classical", "k-pop", "j-pop", "indie pop", "broadway", "neo mellow", "dance pop", "pop")
	perceivingGenres = tagSet("lo-fi", "alt z", "trap", "vaporwave", "indie rock", "psychedelic rock")
)

const (
	reasonEI = "based on popularity + extroverted genre boost"
	reasonSN = "based on duration + acoustic influence"
	reasonTF = "based on artist popularity + genre edge/emotion"
	reasonJP = "based on genre structure vs improvisation"
)

// Infer scores the four axes for the given records. It never fails: empty or
// all-null input yields zero averages, no genres and the code ISFJ.
func Infer(features []domain.FeatureRecord) domain.InferenceResult {
	trackPopularity := mean(features, func(f domain.FeatureRecord) *float64 { return f.Popularity })
	durationMs := mean(features, func(f domain.FeatureRecord) *float64 { return f.DurationMs })
	artistPopularity := mean(features, func(f domain.FeatureRecord) *float64 { return f.ArtistPopularity })
	genres := TopGenres(features, topGenreLimit)

	ei := trackPopularity / 100
	if anyIn(genres, extravertGenres) {
		ei += extravertBoost
	}

	sn := (expectedDurationMs-durationMs)/durationSpreadMs + 0.5
	if slices.Contains(genres, "acoustic") {
		sn += acousticBoost
	}

	tf := artistPopularity / 100
	switch {
	case anyIn(genres, thinkingGenres):
		tf += thinkingNudge
	case anyIn(genres, feelingGenres):
		tf -= thinkingNudge
	}

	jp := 0.5
	for _, g := range genres {
		switch {
		case judgingGenres[g]:
			jp += judgingStep
		case perceivingGenres[g]:
			jp -= judgingStep
		}
	}

	verdicts := []struct {
		axis      string
		score     float64
		high, low string
		reason    string
	}{
		{domain.AxisEI, clamp(ei), "E", "I", reasonEI},
		{domain.AxisSN, clamp(sn), "S", "N", reasonSN},
		{domain.AxisTF, clamp(tf), "T", "F", reasonTF},
		{domain.AxisJP, clamp(jp), "J", "P", reasonJP},
	}

	code := ""
	logic := make(map[string]domain.TraitVerdict, len(verdicts))
	for _, v := range verdicts {
		direction := v.low
		if v.score >= threshold {
			direction = v.high
		}
		code += direction
		logic[v.axis] = domain.TraitVerdict{
			Direction: direction,
			Value:     round2(v.score * 100),
			Reason:    v.reason,
		}
	}

	return domain.InferenceResult{
		TypeCode: code,
		Breakdown: domain.Breakdown{
			AvgTrackPopularity:  round2(trackPopularity),
			AvgDurationMs:       round2(durationMs),
			AvgArtistPopularity: round2(artistPopularity),
			TopGenres:           genres,
			MBTILogic:           logic,
		},
		Summary: Summarize(code),
	}
}

// Summarize renders the one-sentence summary for a type code.
func Summarize(code string) string {
	return fmt.Sprintf("Based on your music metadata, you're %s — %s", code, Explain(code))
}

// TopGenres returns up to limit tags ordered by occurrence count across all
// records. Equal counts keep the order in which tags were first seen.
func TopGenres(features []domain.FeatureRecord, limit int) []string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, f := range features {
		for _, g := range f.ArtistGenres {
			if _, seen := counts[g]; !seen {
				order = append(order, g)
			}
			counts[g]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

func mean(features []domain.FeatureRecord, field func(domain.FeatureRecord) *float64) float64 {
	var sum float64
	var n int
	for _, f := range features {
		if v := field(f); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func clamp(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

// round2 rounds the exact binary value to 2 decimals, ties to even.
func round2(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}

func tagSet(tags ...string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return set
}

func anyIn(genres []string, set map[string]bool) bool {
	for _, g := range genres {
		if set[g] {
			return true
		}
	}
	return false
}
