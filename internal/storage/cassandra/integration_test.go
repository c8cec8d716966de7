//go:build integration

package cassandra

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"vicharcha/internal/config"
	"vicharcha/internal/domain"
	"vicharcha/internal/service"
	"vicharcha/internal/storage/storetest"
)

const testKeyspace = "stories_test"

type CassandraIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container testcontainers.Container
	session   *gocql.Session
}

func (s *CassandraIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "cassandra:4.1",
			ExposedPorts: []string{"9042/tcp"},
			Env: map[string]string{
				"MAX_HEAP_SIZE": "512M",
				"HEAP_NEWSIZE":  "128M",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("9042/tcp"),
				wait.ForLog("Starting listening for CQL clients"),
			).WithDeadline(3 * time.Minute),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(s.ctx, "9042/tcp")
	s.Require().NoError(err)

	session, err := Connect(s.ctx, config.CassandraConfig{
		Hosts:        []string{fmt.Sprintf("%s:%s", host, port.Port())},
		Keyspace:     testKeyspace,
		Datacenter:   "datacenter1",
		Consistency:  "one",
		Timeout:      30 * time.Second,
		CreateSchema: true,
	})
	s.Require().NoError(err)
	s.session = session
}

func (s *CassandraIntegrationSuite) TearDownSuite() {
	if s.session != nil {
		s.session.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *CassandraIntegrationSuite) SetupTest() {
	s.truncate()
}

func (s *CassandraIntegrationSuite) truncate() {
	_ = s.session.Query("TRUNCATE stories").Exec()
	_ = s.session.Query("TRUNCATE story_views").Exec()
}

func (s *CassandraIntegrationSuite) newStore() *StoryStore {
	// Long grace keeps already-expired fixtures alive for the whole test.
	return NewStoryStore(s.session, 72*time.Hour)
}

func TestCassandraIntegrationSuite(t *testing.T) {
	suite.Run(t, new(CassandraIntegrationSuite))
}

func (s *CassandraIntegrationSuite) TestStoryStoreContract() {
	suite.Run(s.T(), &storetest.StoryStoreSuite{
		NewStore: func() service.StoryStore {
			s.truncate()
			return s.newStore()
		},
	})
}

func (s *CassandraIntegrationSuite) TestCreate_WritesTTL() {
	store := NewStoryStore(s.session, time.Hour)
	now := time.Now().UTC().Truncate(time.Millisecond)

	s.Require().NoError(store.Create(s.ctx, &domain.Story{
		ID: "s1", UserID: "alice", MediaURL: "/x.jpg", Type: domain.MediaImage,
		CreatedAt: now, ExpiresAt: domain.NewExpiry(now),
	}))

	var ttl int
	err := s.session.Query("SELECT TTL(media_url) FROM stories WHERE id = ?", "s1").Scan(&ttl)
	s.Require().NoError(err)
	s.InDelta(int((25 * time.Hour).Seconds()), ttl, 60)
}

func (s *CassandraIntegrationSuite) TestDeleteExpired_ConcurrentSweepsReportOnce() {
	store := s.newStore()
	created := time.Now().UTC().Add(-30 * time.Hour).Truncate(time.Millisecond)

	for _, id := range []string{"a", "b", "c"} {
		s.Require().NoError(store.Create(s.ctx, &domain.Story{
			ID: id, UserID: "alice", MediaURL: "/" + id + ".jpg", Type: domain.MediaImage,
			CreatedAt: created, ExpiresAt: domain.NewExpiry(created),
		}))
	}

	results := make(chan int, 2)
	for i := 0; i < 2; i++ {
		go func() {
			removed, err := store.DeleteExpired(s.ctx, time.Now())
			s.NoError(err)
			results <- len(removed)
		}()
	}

	s.Equal(3, <-results+<-results)
}
