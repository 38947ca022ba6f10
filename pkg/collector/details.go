package collector

import (
	"context"
	"log/slog"

	"github.com/hysterresis/garmin-exercises/pkg/garmin"
)

// DetailRecord is the resolved per-exercise detail data. Found=false is a
// first-class value meaning "no richer data available", never an error.
type DetailRecord struct {
	Found            bool
	URL              string
	Difficulty       string
	Description      string
	ImageURL         string
	PrimaryMuscles   []string
	SecondaryMuscles []string
}

// DetailSource resolves detail records for exercise identities.
type DetailSource interface {
	Resolve(ctx context.Context, category, exerciseKey string) DetailRecord
}

// DetailResolver fetches detail documents from Garmin Connect and degrades
// every failure to the not-found sentinel.
type DetailResolver struct {
	client *garmin.Client
	logger *slog.Logger
}

func NewDetailResolver(client *garmin.Client, logger *slog.Logger) *DetailResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailResolver{client: client, logger: logger}
}

// Resolve fetches the detail document for one exercise. On any retrieval or
// parse failure it returns the absent sentinel. Image resolution precedence:
// hero image if reachable, else first video thumbnail if reachable, else
// absent; a failed probe never fails the resolution.
func (r *DetailResolver) Resolve(ctx context.Context, category, exerciseKey string) DetailRecord {
	doc, err := r.client.FetchDetail(ctx, category, exerciseKey)
	if err != nil {
		r.logger.Warn("Could not fetch detailed data", "category", category, "exercise", exerciseKey, "error", err)
		return DetailRecord{}
	}

	rec := DetailRecord{
		Found:            true,
		URL:              r.client.DetailPageURL(category, exerciseKey),
		Difficulty:       doc.Difficulty,
		Description:      doc.Description,
		PrimaryMuscles:   doc.PrimaryMuscles,
		SecondaryMuscles: doc.SecondaryMuscles,
	}

	if doc.HeroImage != "" {
		if url := r.client.HeroImageURL(doc.HeroImage); r.client.ProbeURL(ctx, url) {
			rec.ImageURL = url
		}
	}
	if rec.ImageURL == "" && len(doc.Videos) > 0 && doc.Videos[0].Thumbnail != "" {
		if url := r.client.VideoThumbnailURL(doc.Videos[0].Thumbnail); r.client.ProbeURL(ctx, url) {
			rec.ImageURL = url
		}
	}

	return rec
}
