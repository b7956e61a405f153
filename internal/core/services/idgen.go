package services

import (
	"context"
	"errors"

	"memberhub/internal/adapters/persistence/repositories"
	"memberhub/internal/pkg/idgen"
	"memberhub/internal/pkg/logger"

	"gorm.io/gorm"
)

// maxIDAttempts bounds inserts retried after a generated identifier collides
const maxIDAttempts = 3

// createWithGeneratedID assigns a fresh identifier and runs insert, retrying
// on a duplicate key. Each attempt runs in its own (nested) transaction so a
// failed insert does not poison an outer transaction on Postgres.
func createWithGeneratedID(ctx context.Context, store *repositories.Store, prefix string, assign func(id string), insert func(tx *repositories.Store) error) error {
	var err error
	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		assign(idgen.Generate(prefix))
		err = store.Transaction(ctx, insert)
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		logger.Warn("Generated identifier collided, retrying", "prefix", prefix, "attempt", attempt)
	}
	return err
}
