//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart/carttest"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog/catalogtest"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/contracts"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
)

func TestPostgresBackends(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pgC, dsn := startPostgres(ctx, t)
	defer terminateContainer(t, pgC)

	require.NoError(t, db.RunMigrations(dsn, zerolog.Nop()))
	// Second run is a no-op.
	require.NoError(t, db.RunMigrations(dsn, zerolog.Nop()))

	pool, err := db.NewPool(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	truncate := func(t *testing.T, tables string) {
		t.Helper()
		_, err := pool.Exec(context.Background(), "TRUNCATE "+tables+" CASCADE")
		require.NoError(t, err)
	}

	t.Run("cart store", func(t *testing.T) {
		carttest.RunStoreSuite(t, func(t *testing.T) cart.Store {
			truncate(t, "carts, cart_items")
			return cart.NewPostgresStore(pool)
		})
	})

	t.Run("catalog repository", func(t *testing.T) {
		catalogtest.RunRepositorySuite(t, func(t *testing.T) catalog.Repository {
			truncate(t, "products")
			return catalog.NewPostgresRepository(pool)
		})
	})

	t.Run("sequencer", func(t *testing.T) {
		truncate(t, "event_sequences")
		seq := events.NewPostgresSequencer(pool)

		for want := int64(1); want <= 3; want++ {
			got, err := seq.NextSequence(ctx, "default")
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
		got, err := seq.NextSequence(ctx, "other")
		require.NoError(t, err)
		assert.EqualValues(t, 1, got)
	})
}

func TestMongoBackends(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mongoC, uri := startMongo(ctx, t)
	defer terminateContainer(t, mongoC)

	client, err := db.ConnectMongo(ctx, uri)
	require.NoError(t, err)
	defer client.Disconnect(context.Background())
	database := client.Database("storefront_test")

	reset := func(t *testing.T, collection string) {
		t.Helper()
		_, err := database.Collection(collection).DeleteMany(context.Background(), bson.M{})
		require.NoError(t, err)
	}

	t.Run("cart store", func(t *testing.T) {
		carttest.RunStoreSuite(t, func(t *testing.T) cart.Store {
			reset(t, "carts")
			return cart.NewMongoStore(database)
		})
	})

	t.Run("catalog repository", func(t *testing.T) {
		catalogtest.RunRepositorySuite(t, func(t *testing.T) catalog.Repository {
			reset(t, "products")
			return catalog.NewMongoRepository(database)
		})
	})
}

func TestCheckoutPublishesToRabbit(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rabbitC, rabbitURL := startRabbitMQ(ctx, t)
	defer terminateContainer(t, rabbitC)

	conn, err := events.Dial(rabbitURL)
	require.NoError(t, err)
	defer conn.Close()

	pub, err := events.NewRabbitPublisher(conn, events.NewMemorySequencer(), zerolog.Nop())
	require.NoError(t, err)
	defer pub.Close()

	deliveries := bindQueue(t, conn)

	svc := cart.NewService(cart.NewMemoryStore(), pub, zerolog.Nop())
	_, err = svc.Add(ctx, cart.Item{ID: "1", Name: "Wireless Bluetooth Headphones", Price: 99.99, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.Checkout(ctx, cart.CheckoutMeta{CorrelationID: "it-corr"})
	require.NoError(t, err)

	select {
	case d := <-deliveries:
		var env contracts.EventEnvelope
		require.NoError(t, json.Unmarshal(d.Body, &env))
		assert.Equal(t, "CartCheckedOut", env.EventName)
		assert.Equal(t, "it-corr", env.CorrelationID)
		assert.EqualValues(t, 1, env.Sequence)
		assert.Equal(t, 199.98, env.Payload.TotalAmount)
		assert.Equal(t, cart.DefaultCartID, env.Payload.CartID)
		assert.Equal(t, amqp.Persistent, d.DeliveryMode)
	case <-ctx.Done():
		t.Fatal("no CartCheckedOut delivery")
	}
}

func bindQueue(t *testing.T, conn *amqp.Connection) <-chan amqp.Delivery {
	t.Helper()
	ch, err := conn.Channel()
	require.NoError(t, err)
	t.Cleanup(func() { _ = ch.Close() })

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, events.CartCheckedOutRoutingKey, events.EventsExchange, false, nil))

	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	require.NoError(t, err)
	return deliveries
}

func startPostgres(ctx context.Context, t *testing.T) (testcontainers.Container, string) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16",
		Env:          map[string]string{"POSTGRES_PASSWORD": "postgres", "POSTGRES_USER": "postgres", "POSTGRES_DB": "storefront"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return container, fmt.Sprintf("postgres://postgres:postgres@%s:%s/storefront?sslmode=disable", host, mappedPort.Port())
}

func startMongo(ctx context.Context, t *testing.T) (testcontainers.Container, string) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := container.MappedPort(ctx, "27017/tcp")
	require.NoError(t, err)

	return container, fmt.Sprintf("mongodb://%s:%s", host, mappedPort.Port())
}

func startRabbitMQ(ctx context.Context, t *testing.T) (testcontainers.Container, string) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "rabbitmq:3-management",
		ExposedPorts: []string{"5672/tcp", "15672/tcp"},
		WaitingFor:   wait.ForListeningPort("5672/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := container.MappedPort(ctx, "5672/tcp")
	require.NoError(t, err)

	return container, fmt.Sprintf("amqp://guest:guest@%s:%s/", host, mappedPort.Port())
}

func terminateContainer(t *testing.T, c testcontainers.Container) {
	t.Helper()
	terminateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, c.Terminate(terminateCtx))
}
