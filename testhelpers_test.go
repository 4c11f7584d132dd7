//go:build integration

package main_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/fleetdash/service-fleet/internal/application"
	fleetEvents "github.com/fleetdash/service-fleet/internal/events"
	"github.com/fleetdash/service-fleet/internal/kafka"
	"github.com/fleetdash/service-fleet/internal/live"
	"github.com/fleetdash/service-fleet/internal/metrics"
	"github.com/fleetdash/service-fleet/internal/repository"
	"github.com/fleetdash/service-fleet/pkg/osrm"
)

const (
	topicLocations      = "fleet.locations"
	topicRouteEvents    = "fleet.route.events"
	topicScheduleEvents = "fleet.schedule.events"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// fleetStack holds wired-up fleet service components.
type fleetStack struct {
	Routes    *application.RouteService
	Buses     *application.BusService
	Schedules *application.ScheduleService
	Students  *application.StudentService
	RouteRepo *repository.GormRouteRepository
	Cleanup   func()
}

// setupContainers starts PostgreSQL and Kafka testcontainers and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_fleet",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_fleet sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(
		&repository.RouteModel{},
		&repository.StopModel{},
		&repository.BusModel{},
		&repository.ScheduleModel{},
		&repository.ScheduleStopModel{},
		&repository.StudentModel{},
	))

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, topicLocations, topicRouteEvents, topicScheduleEvents)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// stubOSRM serves nearest/route responses that echo the requested point back
// as the snapped location.
func stubOSRM(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/nearest/v1/driving/", func(w http.ResponseWriter, r *http.Request) {
		var lng, lat float64
		coords := r.URL.Path[len("/nearest/v1/driving/"):]
		_, err := fmt.Sscanf(coords, "%f,%f", &lng, &lat)
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"code":"Ok","waypoints":[{"location":[%f,%f]}]}`, lng, lat)
	})
	mux.HandleFunc("/route/v1/driving/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"Ok","routes":[{"geometry":{"coordinates":[]}}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// setupFleetStack wires up the full fleet service stack against a stub road network.
func setupFleetStack(t *testing.T, db *gorm.DB, brokers []string) *fleetStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	roads := osrm.New(stubOSRM(t).URL)
	producer := kafka.NewProducer(brokers, logger)

	routeRepo := repository.NewGormRouteRepository(db)
	busRepo := repository.NewGormBusRepository(db)
	scheduleRepo := repository.NewGormScheduleRepository(db)
	studentRepo := repository.NewGormStudentRepository(db)

	return &fleetStack{
		Routes:    application.NewRouteService(routeRepo, roads, producer, topicRouteEvents, 30, nil, logger),
		Buses:     application.NewBusService(busRepo, logger),
		Schedules: application.NewScheduleService(scheduleRepo, routeRepo, busRepo, producer, topicScheduleEvents, nil, logger),
		Students:  application.NewStudentService(studentRepo, logger),
		RouteRepo: routeRepo,
		Cleanup:   func() { _ = producer.Close() },
	}
}

// startLocationFeed wires a live store, hub and consumer against the brokers.
func startLocationFeed(t *testing.T, ctx context.Context, brokers []string) (*live.Store, *live.Hub, *fleetEvents.LocationConsumer) {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	store := live.NewStore(5 * time.Minute)
	hub := live.NewHub(logger)
	go hub.Run(ctx)

	groupID := fmt.Sprintf("test-fleet-%s", uuid.New().String()[:8])
	consumer := fleetEvents.NewLocationConsumer(
		brokers, groupID, topicLocations,
		store, hub, nil, metrics.NewCollector(), logger,
	)
	go func() { _ = consumer.Start(ctx) }()
	return store, hub, consumer
}

// publishLocation writes a raw location payload to the location topic.
func publishLocation(t *testing.T, brokers []string, loc fleetEvents.BusLocation) {
	t.Helper()
	data, err := json.Marshal(loc)
	require.NoError(t, err)

	writer := &kafkago.Writer{
		Addr:     kafkago.TCP(brokers...),
		Topic:    topicLocations,
		Balancer: &kafkago.Hash{},
	}
	defer func() { _ = writer.Close() }()

	err = writer.WriteMessages(context.Background(), kafkago.Message{
		Key:   []byte(loc.BusNumber),
		Value: data,
	})
	require.NoError(t, err, "failed to publish location")
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
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
		if ce.Type == expectedType {
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
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
