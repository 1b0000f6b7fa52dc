package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/domain"
	pkgkafka "github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/kafka"
)

// Kafka topic constants for review domain events.
const (
	TopicReviewSubmitted = "policyhub.review.submitted"
	TopicReviewRetracted = "policyhub.review.retracted"
)

// Aggregate type constant.
const AggregateTypePolicy = "policy"

// Source identifier for events originating from this server.
const SourcePolicyHub = "policyhub-server"

// ReviewSubmittedData is the payload for a review.submitted event. It carries
// the post-commit aggregate so consumers never need to recompute it.
type ReviewSubmittedData struct {
	PolicyID    int64    `json:"policy_id"`
	AuthorID    string   `json:"author_id"`
	ReviewID    int64    `json:"review_id"`
	Rating      int      `json:"rating"`
	RatingCount int      `json:"rating_count"`
	RatingAvg   *float64 `json:"rating_avg"`
}

// ReviewRetractedData is the payload for a review.retracted event.
type ReviewRetractedData struct {
	PolicyID    int64    `json:"policy_id"`
	AuthorID    string   `json:"author_id"`
	RatingCount int      `json:"rating_count"`
	RatingAvg   *float64 `json:"rating_avg"`
}

// Producer publishes review domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for review events.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishReviewSubmitted publishes a review.submitted event.
func (p *Producer) PublishReviewSubmitted(ctx context.Context, review *domain.Review, rating int, summary domain.RatingSummary) error {
	data := ReviewSubmittedData{
		PolicyID:    review.PolicyID,
		AuthorID:    review.AuthorID.String(),
		ReviewID:    review.ID,
		Rating:      rating,
		RatingCount: summary.Count,
		RatingAvg:   summary.Average,
	}

	aggregateID := strconv.FormatInt(review.PolicyID, 10)
	event, err := pkgkafka.NewEvent(TopicReviewSubmitted, aggregateID, AggregateTypePolicy, SourcePolicyHub, data)
	if err != nil {
		return fmt.Errorf("create review.submitted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewSubmitted, event); err != nil {
		return fmt.Errorf("publish review.submitted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.submitted event",
		slog.Int64("policy_id", review.PolicyID),
		slog.String("author_id", review.AuthorID.String()),
	)

	return nil
}

// PublishReviewRetracted publishes a review.retracted event.
func (p *Producer) PublishReviewRetracted(ctx context.Context, policyID int64, authorID uuid.UUID, summary domain.RatingSummary) error {
	data := ReviewRetractedData{
		PolicyID:    policyID,
		AuthorID:    authorID.String(),
		RatingCount: summary.Count,
		RatingAvg:   summary.Average,
	}

	aggregateID := strconv.FormatInt(policyID, 10)
	event, err := pkgkafka.NewEvent(TopicReviewRetracted, aggregateID, AggregateTypePolicy, SourcePolicyHub, data)
	if err != nil {
		return fmt.Errorf("create review.retracted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewRetracted, event); err != nil {
		return fmt.Errorf("publish review.retracted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.retracted event",
		slog.Int64("policy_id", policyID),
		slog.String("author_id", authorID.String()),
	)

	return nil
}
