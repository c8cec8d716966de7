// Package cassandra stores stories in a Cassandra keyspace.
package cassandra

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/gocql/gocql"

	"vicharcha/internal/config"
)

var keyspacePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,47}$`)

// Connect opens a session on the configured keyspace, creating the schema
// first when cfg.CreateSchema is set.
func Connect(ctx context.Context, cfg config.CassandraConfig) (*gocql.Session, error) {
	if !keyspacePattern.MatchString(cfg.Keyspace) {
		return nil, fmt.Errorf("invalid keyspace name %q", cfg.Keyspace)
	}

	if cfg.CreateSchema {
		cluster, err := newCluster(cfg, "")
		if err != nil {
			return nil, err
		}
		session, err := cluster.CreateSession()
		if err != nil {
			return nil, fmt.Errorf("connect to cassandra: %w", err)
		}
		err = EnsureSchema(ctx, session, cfg.Keyspace)
		session.Close()
		if err != nil {
			return nil, err
		}
	}

	cluster, err := newCluster(cfg, cfg.Keyspace)
	if err != nil {
		return nil, err
	}
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("connect to cassandra: %w", err)
	}
	return session, nil
}

func newCluster(cfg config.CassandraConfig, keyspace string) (*gocql.ClusterConfig, error) {
	consistency, err := gocql.ParseConsistencyWrapper(cfg.Consistency)
	if err != nil {
		return nil, fmt.Errorf("cassandra consistency: %w", err)
	}

	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = keyspace
	cluster.Consistency = consistency
	cluster.SerialConsistency = gocql.LocalSerial
	cluster.Timeout = cfg.Timeout
	cluster.ConnectTimeout = cfg.Timeout
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(
		gocql.DCAwareRoundRobinPolicy(cfg.Datacenter),
	)
	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}
	return cluster, nil
}

var schema = []string{
	`CREATE KEYSPACE IF NOT EXISTS %[1]s
		WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 1}`,
	`CREATE TABLE IF NOT EXISTS %[1]s.stories (
		id           text PRIMARY KEY,
		user_id      text,
		username     text,
		user_image   text,
		media_url    text,
		type         text,
		duration     int,
		viewed       boolean,
		is_premium   boolean,
		downloadable boolean,
		is_adult     boolean,
		category     text,
		items        text,
		created_at   timestamp,
		expires_at   timestamp
	)`,
	`CREATE INDEX IF NOT EXISTS stories_user_id_idx ON %[1]s.stories (user_id)`,
	`CREATE TABLE IF NOT EXISTS %[1]s.story_views (
		story_id  text,
		viewer_id text,
		viewed_at timestamp,
		PRIMARY KEY (story_id, viewer_id)
	)`,
}

// EnsureSchema creates the keyspace and tables if they do not exist.
func EnsureSchema(ctx context.Context, session *gocql.Session, keyspace string) error {
	if !keyspacePattern.MatchString(keyspace) {
		return fmt.Errorf("invalid keyspace name %q", keyspace)
	}
	for _, stmt := range schema {
		if err := session.Query(fmt.Sprintf(stmt, keyspace)).WithContext(ctx).Exec(); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return session.AwaitSchemaAgreement(ctx)
}

// ttlSeconds is the lifetime of a cell that must disappear grace after expiresAt.
func ttlSeconds(expiresAt time.Time, grace time.Duration) int {
	secs := int(time.Until(expiresAt.Add(grace)).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}
