package ports

import "github.com/ewilliams-labs/typetune/internal/core/domain"

// InsightCache holds generated artist insights keyed by track id.
type InsightCache interface {
	Get(trackID string) (domain.ArtistInsight, bool)
	Set(trackID string, insight domain.ArtistInsight)
}
