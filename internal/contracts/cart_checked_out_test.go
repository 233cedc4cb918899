package contracts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
)

func TestBuildCartCheckedOutEvent(t *testing.T) {
	now := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	c := &cart.Cart{
		ID: cart.DefaultCartID,
		Items: []cart.Item{
			{ID: "3", Name: "Organic Cotton T-Shirt", Quantity: 2, Price: 3.5},
		},
	}
	c.Recalculate()

	env := BuildCartCheckedOutEvent(c, EnvelopeOptions{
		PartitionKey:  c.ID,
		Sequence:      42,
		Producer:      StorefrontProducer,
		SchemaPath:    CartCheckedOutEnvelopedSchemaPath,
		CorrelationID: "53b0fd3e-8d6b-49af-8c1f-12cf4182c2f7",
		CausationID:   "63b0fd3e-8d6b-49af-8c1f-12cf4182c2f7",
		EventID:       "73b0fd3e-8d6b-49af-8c1f-12cf4182c2f7",
		OccurredAt:    now,
	})

	assert.Equal(t, CartCheckedOutEventName, env.EventName)
	assert.Equal(t, CartCheckedOutEventVersion, env.EventVersion)
	assert.Equal(t, "73b0fd3e-8d6b-49af-8c1f-12cf4182c2f7", env.EventID)
	assert.Equal(t, c.ID, env.PartitionKey)
	assert.Equal(t, int64(42), env.Sequence)
	assert.Equal(t, "53b0fd3e-8d6b-49af-8c1f-12cf4182c2f7", env.CorrelationID)
	assert.Equal(t, "63b0fd3e-8d6b-49af-8c1f-12cf4182c2f7", env.CausationID)
	assert.Equal(t, CartCheckedOutEnvelopedSchemaPath, env.Schema)
	assert.Equal(t, now, env.Payload.Timestamp, "payload timestamp mirrors occurredAt")
	assert.Equal(t, 7.0, env.Payload.TotalAmount)
	assert.Equal(t, 2, env.Payload.ItemCount)
	require.Len(t, env.Payload.Items, 1)
	assert.Equal(t, CartCheckedOutItem{ProductID: "3", Name: "Organic Cotton T-Shirt", Quantity: 2, Price: 3.5}, env.Payload.Items[0])
}

func TestBuildCartCheckedOutEventDefaults(t *testing.T) {
	c := cart.New(cart.DefaultCartID)

	env := BuildCartCheckedOutEvent(c, EnvelopeOptions{})

	_, err := uuid.Parse(env.EventID)
	require.NoError(t, err)
	assert.False(t, env.OccurredAt.IsZero())
	assert.Equal(t, StorefrontProducer, env.Producer)
	assert.Equal(t, cart.DefaultCartID, env.PartitionKey)
	assert.NotNil(t, env.Payload.Items)
}

func TestCartCheckedOutEnvelopeJSON(t *testing.T) {
	c := cart.New(cart.DefaultCartID)
	c.Items = []cart.Item{{ID: "1", Name: "Headphones", Price: 99.99, Quantity: 1}}
	c.Recalculate()
	env := BuildCartCheckedOutEvent(c, EnvelopeOptions{Sequence: 1})

	raw, err := json.Marshal(env)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, key := range []string{"eventName", "eventVersion", "eventId", "producer", "partitionKey", "sequence", "occurredAt", "schema", "payload"} {
		assert.Contains(t, doc, key)
	}
	assert.NotContains(t, doc, "correlationId", "empty correlation id is omitted")

	payload := doc["payload"].(map[string]any)
	for _, key := range []string{"cartId", "items", "totalAmount", "itemCount", "timestamp"} {
		assert.Contains(t, payload, key)
	}
}
