package model

import (
	"context"
	"errors"

	"github.com/strataorm/strata/pkg/builder"
)

// ErrMixinNotApplied is returned when a capability method is called on an
// enhanced model that was composed without the corresponding mixin.
var ErrMixinNotApplied = errors.New("mixin not applied")

// Mixin is a function that takes an enhanced model and returns a new
// enhanced model with an additional capability. Mixins never mutate their
// input; each application returns a fresh value, so partially composed
// models stay usable.
type Mixin[T any] func(*Enhanced[T]) *Enhanced[T]

// Enhanced is a base model plus the capabilities attached by mixins.
// Base model methods are promoted; capability methods report
// ErrMixinNotApplied when their mixin is missing.
type Enhanced[T any] struct {
	*Model[T]
	slug  *slugConfig
	gid   *globalIDConfig[T]
	idgen IDStrategy
}

// Enhance wraps a base model so mixins can be applied to it.
func Enhance[T any](base *Model[T]) *Enhanced[T] {
	return &Enhanced[T]{Model: base}
}

// Apply threads base through the given mixins left to right and returns the
// composite model.
//
//	articles, _ := model.New[Article](db)
//	m := model.Apply(articles,
//	    model.WithSlug[Article](model.SlugOptions{Field: "slug", Sources: []string{"title"}}),
//	    model.WithGlobalID(model.GlobalIDOptions[Article]{Type: "Article"}),
//	)
func Apply[T any](base *Model[T], mixins ...Mixin[T]) *Enhanced[T] {
	e := Enhance(base)
	for _, mixin := range mixins {
		e = mixin(e)
	}
	return e
}

// Pipe combines mixins into one, applied left to right.
func Pipe[T any](mixins ...Mixin[T]) Mixin[T] {
	return func(e *Enhanced[T]) *Enhanced[T] {
		for _, mixin := range mixins {
			e = mixin(e)
		}
		return e
	}
}

// Compose combines mixins into one, applied right to left.
func Compose[T any](mixins ...Mixin[T]) Mixin[T] {
	return func(e *Enhanced[T]) *Enhanced[T] {
		for i := len(mixins) - 1; i >= 0; i-- {
			e = mixins[i](e)
		}
		return e
	}
}

// clone returns a shallow copy; mixins modify the copy and leave the
// original composition intact.
func (e *Enhanced[T]) clone() *Enhanced[T] {
	c := *e
	return &c
}

// Transaction runs fn with a transaction-scoped variant of the enhanced
// model, preserving all applied mixins. Commit and rollback semantics match
// Model.Transaction.
func (e *Enhanced[T]) Transaction(ctx context.Context, fn func(tx *Enhanced[T]) error) error {
	return e.db.WithinTransaction(ctx, func(txdb *builder.DB) error {
		tx := e.clone()
		tx.Model = e.Model.withDB(txdb)
		return fn(tx)
	})
}
