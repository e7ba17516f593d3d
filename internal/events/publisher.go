package events

import (
	model "auction-marketplace/internal/models"
	"auction-marketplace/utils"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// BidPlacedType is the event type emitted after a bid is accepted
const BidPlacedType = "bid.placed"

// BidPlaced describes an accepted bid and the auction state it produced
type BidPlaced struct {
	Type         string       `json:"type"`
	BidID        int64        `json:"bidId"`
	AuctionID    int64        `json:"auctionId"`
	UserID       int64        `json:"userId"`
	Amount       float64      `json:"amount"`
	CurrentPrice float64      `json:"currentPrice"`
	BidCount     int          `json:"bidCount"`
	Status       model.Status `json:"status"`
	OccurredAt   time.Time    `json:"occurredAt"`
}

// NewBidPlaced builds the event for an accepted bid
func NewBidPlaced(bid model.Bid, auction model.Auction) BidPlaced {
	return BidPlaced{
		Type:         BidPlacedType,
		BidID:        bid.ID,
		AuctionID:    auction.ID,
		UserID:       bid.UserID,
		Amount:       bid.Amount,
		CurrentPrice: auction.CurrentPrice,
		BidCount:     auction.BidCount,
		Status:       auction.Status,
		OccurredAt:   bid.CreatedAt,
	}
}

// Publisher delivers bid events to downstream consumers such as notifications
type Publisher interface {
	PublishBidPlaced(ctx context.Context, event BidPlaced) error
}

// LogPublisher writes events to the application log. Used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) PublishBidPlaced(ctx context.Context, event BidPlaced) error {
	utils.Info("bid placed", map[string]any{
		"bid_id":        event.BidID,
		"auction_id":    event.AuctionID,
		"user_id":       event.UserID,
		"amount":        event.Amount,
		"current_price": event.CurrentPrice,
		"bid_count":     event.BidCount,
	})
	return nil
}

// KafkaPublisher sends events to a Kafka topic, keyed by auction id so each
// auction's events stay ordered within a partition
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher writing to topic on broker
func NewKafkaPublisher(broker, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// EncodeBidPlaced turns an event into the Kafka message sent for it
func EncodeBidPlaced(event BidPlaced) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s event: %w", event.Type, err)
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(event.AuctionID, 10)),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}, nil
}

func (p *KafkaPublisher) PublishBidPlaced(ctx context.Context, event BidPlaced) error {
	msg, err := EncodeBidPlaced(event)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		return fmt.Errorf("kafka write failed: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
