package personality

import "sort"

const fallbackGloss = "a unique vibe all your own"

var glosses = map[string]string{
	"INFP": "a soulful daydreamer drawn to heartfelt lyrics and mellow vibes",
	"INFJ": "a thoughtful curator with a taste for introspective and layered sounds",
	"INTP": "a sonic explorer who digs into the abstract and experimental",
	"INTJ": "a visionary listener crafting playlists with purpose and depth",
	"ISFP": "a chill vibe-seeker who lets emotion guide their soundscape",
	"ISFJ": "a nostalgic heart who finds comfort in familiar, warm melodies",
	"ISTP": "a hands-on tinkerer with a love for clean beats and sonic precision",
	"ISTJ": "a no-nonsense listener who sticks to structure and timeless tracks",
	"ENFP": "a vibrant sound-chaser always chasing new rhythms and genres",
	"ENFJ": "a playlist architect who uplifts and connects through music",
	"ENTP": "a genre-bender who thrives on unpredictability and bold drops",
	"ENTJ": "a confident selector who curates with drive and big-picture flow",
	"ESFP": "a born performer with a playlist made to move the crowd",
	"ESFJ": "a feel-good DJ who tunes into everyone's vibe",
	"ESTP": "an energy junkie spinning bold, high-tempo bangers",
	"ESTJ": "a playlist planner with a love for structure and classics",
}

// Explain returns the listener gloss for a type code, or a generic phrase
// for codes outside the table.
func Explain(code string) string {
	if g, ok := glosses[code]; ok {
		return g
	}
	return fallbackGloss
}

// Codes lists every code with a dedicated gloss, sorted.
func Codes() []string {
	codes := make([]string, 0, len(glosses))
	for c := range glosses {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
