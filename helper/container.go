package helper

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// MustStartPostgresContainer starts a disposable PostgreSQL container
// with the pgvector extension for examples and integration tests.
// It returns a teardown function and the mapped host port.
func MustStartPostgresContainer() (func(context.Context) error, string, error) {
	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		"pgvector/pgvector:pg17",
		postgres.WithDatabase("database"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", NewError("start postgres container", err)
	}

	mappedPort, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		terminateErr := container.Terminate(ctx)
		if terminateErr != nil {
			return nil, "", NewError("map container port", fmt.Errorf("%v (cleanup error: %v)", err, terminateErr))
		}
		return nil, "", NewError("map container port", err)
	}

	terminate := func(ctx context.Context) error {
		return container.Terminate(ctx)
	}
	return terminate, mappedPort.Port(), nil
}
