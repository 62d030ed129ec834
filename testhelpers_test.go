//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/outdoor-rental/service-rental/internal/application"
	"github.com/outdoor-rental/service-rental/internal/common/cache"
	"github.com/outdoor-rental/service-rental/internal/common/database"
	"github.com/outdoor-rental/service-rental/internal/common/kafka"
	bookingDomain "github.com/outdoor-rental/service-rental/internal/domain/booking"
	productDomain "github.com/outdoor-rental/service-rental/internal/domain/product"
	rentalEvents "github.com/outdoor-rental/service-rental/internal/events"
	"github.com/outdoor-rental/service-rental/internal/repository"
)

const testTopic = "rental.booking.events"

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	Redis        *redis.Client
	KafkaBrokers []string
}

// rentalStack holds wired-up rental service components.
type rentalStack struct {
	Products    *application.ProductService
	Bookings    *application.BookingService
	Stats       *application.StatsService
	Activity    *application.ActivityService
	ProductRepo productDomain.ProductRepository
	BookingRepo *repository.GormBookingRepository
	Consumer    *rentalEvents.BookingActivityConsumer
}

// setupContainers starts PostgreSQL, Redis and Kafka and applies the SQL migrations.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("test_rental"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	})

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dbConfig := database.PostgresConfig{
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_rental",
		SSLMode:  "disable",
	}

	// Poll until the database accepts connections.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		conn, connErr := database.Connect(dbConfig, logger)
		if connErr != nil {
			return false
		}
		db = conn
		return true
	}, 30*time.Second, time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, database.RunMigrations(dbConfig.DatabaseURL(), "migrations", logger))

	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "failed to start Redis container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Logf("failed to terminate Redis container: %v", err)
		}
	})

	redisAddr, err := redisContainer.Endpoint(ctx, "")
	require.NoError(t, err)
	rdb, err := cache.Connect(redisAddr, "", 0)
	require.NoError(t, err, "failed to connect to Redis")
	t.Cleanup(func() { _ = rdb.Close() })

	// confluent-local runs KRaft natively.
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(kafkaContainer); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
	})

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, testTopic)

	return &testInfra{
		DB:           db,
		Redis:        rdb,
		KafkaBrokers: kafkaBrokers,
	}
}

// setupRentalStack wires the services the same way cmd/server does.
func setupRentalStack(t *testing.T, infra *testInfra) *rentalStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	userRepo := repository.NewGormUserRepository(infra.DB)
	bookingRepo := repository.NewGormBookingRepository(infra.DB)
	activityRepo := repository.NewGormActivityRepository(infra.DB)
	productRepo := repository.NewCachedProductRepository(
		repository.NewGormProductRepository(infra.DB), infra.Redis, logger)

	producer := kafka.NewProducer(infra.KafkaBrokers, logger)
	t.Cleanup(func() { _ = producer.Close() })

	activitySvc := application.NewActivityService(activityRepo, logger)
	bookingSvc := application.NewBookingService(
		bookingRepo,
		productRepo,
		userRepo,
		bookingDomain.NewDailyRatePricing(productRepo),
		producer,
		testTopic,
		logger,
	)

	groupID := fmt.Sprintf("test-activity-%s", uuid.New().String()[:8])
	consumer := rentalEvents.NewBookingActivityConsumer(infra.KafkaBrokers, groupID, testTopic, activitySvc, logger)
	t.Cleanup(func() { _ = consumer.Close() })

	return &rentalStack{
		Products:    application.NewProductService(productRepo, logger),
		Bookings:    bookingSvc,
		Stats:       application.NewStatsService(bookingRepo, productRepo, userRepo, logger),
		Activity:    activitySvc,
		ProductRepo: productRepo,
		BookingRepo: bookingRepo,
		Consumer:    consumer,
	}
}

// seedRenter registers a renter account directly through the repository.
func seedRenter(t *testing.T, db *gorm.DB, email string) uuid.UUID {
	t.Helper()
	now := time.Now().UTC()
	model := repository.UserModel{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "x",
		Name:         "Integration Renter",
		Role:         "user",
		CreatedAt:    now,
	}
	require.NoError(t, db.Create(&model).Error, "failed to seed user")
	return model.ID
}

// seedProduct creates a product through the service layer.
func seedProduct(t *testing.T, svc *application.ProductService, name string, price int64, stock int) *application.ProductDTO {
	t.Helper()
	p, err := svc.CreateProduct(context.Background(), application.ProductRequest{
		Name:        name,
		Category:    "tenda",
		PricePerDay: decimal.NewFromInt(price),
		Stock:       stock,
		Images:      []string{"https://img.example.com/" + uuid.NewString() + ".jpg"},
	})
	require.NoError(t, err, "failed to seed product")
	return p
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the
// expected type for the given subject.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType, subject string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType && ce.Subject == subject {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	require.NoError(t, controllerConn.CreateTopics(topicConfigs...), "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(time.Second)
}
