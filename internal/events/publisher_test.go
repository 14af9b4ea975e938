package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishJSON(t *testing.T) {
	rec := &Recorder{}
	ev := OrderPlaced{
		OrderID:   "ORD1",
		Email:     "a@b.c",
		Total:     decimal.RequireFromString("12.34"),
		ItemCount: 2,
		PlacedAt:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	require.NoError(t, PublishJSON(context.Background(), rec, TypeOrderPlaced, ev.OrderID, ev))
	require.Len(t, rec.Events, 1)
	assert.Equal(t, TypeOrderPlaced, rec.Events[0].Type)
	assert.Equal(t, "ORD1", rec.Events[0].Key)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Events[0].Payload, &got))
	assert.Equal(t, "12.34", got["total"])
	assert.Equal(t, float64(2), got["item_count"])
}

func TestNewKafkaPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(nil, nil)
	assert.Error(t, err)

	p, err := NewKafkaPublisher([]string{"localhost:9092"}, map[string]string{TypeOrderPlaced: "shop.orders"})
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}
