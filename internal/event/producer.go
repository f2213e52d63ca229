// Package event publishes catalog domain events to Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shoply/shoply-api/internal/domain"
	pkgkafka "github.com/shoply/shoply-api/pkg/kafka"
)

// Kafka topics for catalog domain events.
const (
	TopicProductCreated = "shoply.product.created"
	TopicProductUpdated = "shoply.product.updated"
	TopicProductDeleted = "shoply.product.deleted"
)

const (
	aggregateTypeProduct = "product"
	sourceAPI            = "shoply-api"
)

// ProductData is the payload carried by product.created and product.updated.
type ProductData struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Brand    string `json:"brand,omitempty"`
	Category string `json:"category,omitempty"`
	Price    int64  `json:"price"`
	Stock    int    `json:"stock"`
}

// ProductDeletedData is the payload for product.deleted.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// Producer publishes catalog events. A Producer constructed with a nil Kafka
// producer silently drops events, which is how the service runs when no
// brokers are configured.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID string, data any) error {
	if p.kafka == nil {
		return nil
	}

	evt, err := pkgkafka.NewEvent(topic, aggregateID, aggregateTypeProduct, sourceAPI, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if err := p.kafka.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published catalog event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)
	return nil
}

func productData(product *domain.Product) ProductData {
	return ProductData{
		ID:       product.ID,
		Title:    product.Title,
		Slug:     product.Slug,
		Brand:    product.Brand,
		Category: product.Category,
		Price:    product.Price,
		Stock:    product.Stock,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, product.ID, productData(product))
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, product.ID, productData(product))
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicProductDeleted, id, ProductDeletedData{ID: id})
}
