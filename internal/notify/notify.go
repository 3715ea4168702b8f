// Package notify formats and dispatches order paperwork: the customer's
// bill over WhatsApp and the kitchen order ticket (KOT). The core only
// produces fully-formed messages; rendering and actual delivery belong to
// the downstream consumer of the sink.
package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/dineflow/api/internal/models"
	"github.com/segmentio/kafka-go"
)

const (
	TopicBills   = "dineflow.bills"
	TopicTickets = "dineflow.kitchen-tickets"
)

// Sink receives a formatted message for a topic. Dispatch is
// fire-and-forget from the pipeline's point of view; a failed dispatch
// never fails the order.
type Sink interface {
	Dispatch(ctx context.Context, topic, key string, payload []byte) error
}

// KafkaSink publishes messages to the configured broker, one topic per
// message kind.
type KafkaSink struct {
	writer *kafka.Writer
}

// NewKafkaSink wraps a kafka writer. The writer's Topic must be unset;
// the sink sets it per message.
func NewKafkaSink(writer *kafka.Writer) *KafkaSink {
	return &KafkaSink{writer: writer}
}

func (s *KafkaSink) Dispatch(ctx context.Context, topic, key string, payload []byte) error {
	return s.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	})
}

// LogSink is the no-broker fallback: messages land in the server log.
type LogSink struct{}

func (LogSink) Dispatch(ctx context.Context, topic, key string, payload []byte) error {
	log.Printf("notify [%s] %s: %s", topic, key, payload)
	return nil
}

// Notifier produces bill and kitchen-ticket messages for placed orders.
type Notifier struct {
	sink           Sink
	restaurantName string
	currencySymbol string
}

// NewNotifier creates a Notifier that dispatches through sink.
func NewNotifier(sink Sink, restaurantName, currencySymbol string) *Notifier {
	return &Notifier{sink: sink, restaurantName: restaurantName, currencySymbol: currencySymbol}
}

type billMessage struct {
	To          string `json:"to"`
	WhatsAppURL string `json:"whatsapp_url"`
	Body        string `json:"body"`
}

// SendBill formats the customer's bill and dispatches it to the bill
// topic keyed by order number.
func (n *Notifier) SendBill(ctx context.Context, order models.Order) error {
	if order.Contact == "" {
		return nil
	}
	body := BillText(order, n.restaurantName, n.currencySymbol)
	payload, err := json.Marshal(billMessage{
		To:          FormatContact(order.Contact),
		WhatsAppURL: WhatsAppURL(order.Contact, body),
		Body:        body,
	})
	if err != nil {
		return err
	}
	return n.sink.Dispatch(ctx, TopicBills, order.OrderNumber, payload)
}

type ticketMessage struct {
	OrderNumber string `json:"order_number"`
	Body        string `json:"body"`
}

// SendKOT formats the kitchen order ticket and dispatches it to the
// ticket topic keyed by order number.
func (n *Notifier) SendKOT(ctx context.Context, order models.Order) error {
	payload, err := json.Marshal(ticketMessage{
		OrderNumber: order.OrderNumber,
		Body:        KOTText(order),
	})
	if err != nil {
		return err
	}
	return n.sink.Dispatch(ctx, TopicTickets, order.OrderNumber, payload)
}
