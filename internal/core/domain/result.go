package domain

// Axis names used as keys of Breakdown.MBTILogic.
const (
	AxisEI = "E vs I"
	AxisSN = "S vs N"
	AxisTF = "T vs F"
	AxisJP = "J vs P"
)

// TraitVerdict is the outcome of a single binary axis.
type TraitVerdict struct {
	Direction string  `json:"direction" bson:"direction"`
	Value     float64 `json:"value" bson:"value"` // confidence, 0-100
	Reason    string  `json:"reason" bson:"reason"`
}

// Breakdown exposes the aggregates and per-axis verdicts behind a type code.
type Breakdown struct {
	AvgTrackPopularity  float64                 `json:"avg_track_popularity" bson:"avg_track_popularity"`
	AvgDurationMs       float64                 `json:"avg_duration_ms" bson:"avg_duration_ms"`
	AvgArtistPopularity float64                 `json:"avg_artist_popularity" bson:"avg_artist_popularity"`
	TopGenres           []string                `json:"top_genres" bson:"top_genres"`
	MBTILogic           map[string]TraitVerdict `json:"mbti_logic" bson:"mbti_logic"`
}

// InferenceResult is the engine output. It is never mutated after Infer returns it.
type InferenceResult struct {
	TypeCode  string    `json:"mbti"`
	Breakdown Breakdown `json:"breakdown"`
	Summary   string    `json:"summary"`
}
