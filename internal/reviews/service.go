package reviews

import (
	"context"
	"strconv"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/weaveai/weaveai-backend/pkg/logger"
	"github.com/weaveai/weaveai-backend/pkg/tabular"
)

// ScoredReview pairs a review text with its lexicon sentiment and the 1..5
// rating bucket.
type ScoredReview struct {
	Rating     int     `json:"rating"`
	ReviewText string  `json:"review_text"`
	Sentiment  float64 `json:"sentiment"`
}

// Result is the sentiment-path output for one uploaded review table.
type Result struct {
	Reviews          []ScoredReview `json:"reviews"`
	AverageSentiment float64        `json:"average_sentiment"`
}

// Service scores free-text reviews with the VADER polarity lexicon.
type Service interface {
	Analyze(ctx context.Context, table *tabular.Table) (*Result, error)
}

type service struct {
	analyzer *govader.SentimentIntensityAnalyzer
	logg     *logger.Logger
}

// NewService builds the sentiment service. The analyzer is stateless and
// shared across requests.
func NewService(logg *logger.Logger) Service {
	return &service{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
		logg:     logg,
	}
}

func (s *service) Analyze(ctx context.Context, table *tabular.Table) (*Result, error) {
	column, err := FindReviewColumn(table)
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{"review_column": column, "rows": table.Len()})
		s.logg.Info(logCtx, "reviews.column_selected")
	}

	ratings := table.Col("rating")
	hasRatings := table.HasColumn("rating")

	result := &Result{Reviews: make([]ScoredReview, 0, table.Len())}
	total := 0.0
	for i, text := range table.Col(column) {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || trimmed == "None" {
			continue
		}

		compound := s.analyzer.PolarityScores(trimmed).Compound
		rating := SentimentToRating(compound)
		if hasRatings {
			if parsed, ok := parseRating(ratings[i]); ok {
				rating = parsed
			}
		}

		result.Reviews = append(result.Reviews, ScoredReview{
			Rating:     rating,
			ReviewText: trimmed,
			Sentiment:  compound,
		})
		total += compound
	}

	if len(result.Reviews) > 0 {
		result.AverageSentiment = total / float64(len(result.Reviews))
	}
	return result, nil
}

// SentimentToRating buckets a VADER compound score (-1..1) into a 1..5 star
// rating using the product's shipped thresholds.
func SentimentToRating(sentiment float64) int {
	switch {
	case sentiment >= 0.5:
		return 5
	case sentiment >= 0.05:
		return 4
	case sentiment > -0.05:
		return 3
	case sentiment > -0.5:
		return 2
	default:
		return 1
	}
}

func parseRating(raw string) (int, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	rating := int(f)
	if rating < 1 || rating > 5 {
		return 0, false
	}
	return rating, true
}
