package posts

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// RegisterModels registers the many-to-many join model so bun can resolve
// post/tag relations. Call before issuing queries against a fresh DB handle.
func RegisterModels(db *bun.DB) {
	db.RegisterModel((*PostTag)(nil))
}

// EnsureSchema creates the post tables when they do not exist yet. Hosts with
// managed migrations can skip this and own the DDL themselves.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	RegisterModels(db)
	models := []any{
		(*Post)(nil),
		(*Tag)(nil),
		(*PostTag)(nil),
		(*PostRevision)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("posts schema: %w", err)
		}
	}
	return nil
}
