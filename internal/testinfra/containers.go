// Package testinfra runs the PostgreSQL server that the store, loader and
// validation integration tests share. One server per test binary; every test
// carves its own database out of it (see internal/testing).
package testinfra

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// ImageEnv selects a different server image, e.g. to test against an older
// PostgreSQL release.
const ImageEnv = "NBAETL_TEST_POSTGRES_IMAGE"

const (
	DefaultImage = "postgres:17-alpine"

	adminUser     = "nbaetl"
	adminPassword = "nbaetl"
	adminDatabase = "nbaetl_admin"

	startupTimeout   = 90 * time.Second
	terminateTimeout = 30 * time.Second
)

// Postgres is a running server container.
type Postgres struct {
	container *postgres.PostgresContainer

	// AdminDSN connects to the maintenance database. Tests create and drop
	// their own databases through it and never load into it directly.
	AdminDSN string
	Image    string
}

// StartPostgres starts a server and waits until it accepts connections on
// its mapped port. The returned server lives until Terminate or until the
// testcontainers reaper collects it after the test binary exits.
func StartPostgres(ctx context.Context) (*Postgres, error) {
	image := os.Getenv(ImageEnv)
	if image == "" {
		image = DefaultImage
	}

	// The entrypoint restarts the server once after initdb, so the ready
	// line appears twice.
	ready := wait.ForAll(
		wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(startupTimeout),
		wait.ForListeningPort("5432/tcp").
			WithStartupTimeout(startupTimeout),
	)

	ctr, err := postgres.Run(ctx, image,
		postgres.WithUsername(adminUser),
		postgres.WithPassword(adminPassword),
		postgres.WithDatabase(adminDatabase),
		testcontainers.WithWaitStrategy(ready),
	)
	if err != nil {
		return nil, fmt.Errorf("testinfra: start %s: %w", image, err)
	}

	p := &Postgres{container: ctr, Image: image}
	p.AdminDSN, err = ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = p.Terminate()
		return nil, fmt.Errorf("testinfra: connection string for %s: %w", image, err)
	}
	return p, nil
}

// Terminate stops and removes the container. It uses its own deadline so it
// still works from a cleanup whose test context is already cancelled.
func (p *Postgres) Terminate() error {
	ctx, cancel := context.WithTimeout(context.Background(), terminateTimeout)
	defer cancel()
	return p.container.Terminate(ctx)
}
