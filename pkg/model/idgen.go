package model

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/strataorm/strata/pkg/builder"
)

// ModelRef carries the table context an ID strategy needs to inspect
// existing identifiers.
type ModelRef struct {
	Table      string
	PrimaryKey string
	DB         *builder.DB
}

// IDStrategy produces primary-key values for new records.
type IDStrategy interface {
	Generate(ctx context.Context, ref ModelRef) (interface{}, error)
}

// WithIDGenerator returns a mixin that generates primary keys on insert
// using the given strategy.
func WithIDGenerator[T any](strategy IDStrategy) Mixin[T] {
	return func(e *Enhanced[T]) *Enhanced[T] {
		c := e.clone()
		c.idgen = strategy
		return c
	}
}

// ApplyIDGenerator is the direct, two-argument form of WithIDGenerator.
func ApplyIDGenerator[T any](e *Enhanced[T], strategy IDStrategy) *Enhanced[T] {
	return WithIDGenerator[T](strategy)(e)
}

// GenerateID produces the next primary-key value for this model without
// inserting anything.
func (e *Enhanced[T]) GenerateID(ctx context.Context) (interface{}, error) {
	if e.idgen == nil {
		return nil, fmt.Errorf("id generator: %w", ErrMixinNotApplied)
	}
	return e.idgen.Generate(ctx, ModelRef{Table: e.table.Name, PrimaryKey: e.pk, DB: e.db})
}

// applyGeneratedID fills the record's primary key from the configured
// strategy. A record that already carries a key is returned unchanged, as is
// one on a model without the ID-generator mixin.
func (e *Enhanced[T]) applyGeneratedID(ctx context.Context, rec T) (T, error) {
	if e.idgen == nil || !e.columnIsZero(rec, e.pk) {
		return rec, nil
	}
	id, err := e.GenerateID(ctx)
	if err != nil {
		return rec, err
	}
	if err := e.setColumn(&rec, e.pk, id); err != nil {
		return rec, err
	}
	return rec, nil
}

// InsertWithGeneratedID inserts the record, generating its primary key
// first unless the record already carries one.
func (e *Enhanced[T]) InsertWithGeneratedID(ctx context.Context, rec T) (*T, error) {
	if e.idgen == nil {
		return nil, fmt.Errorf("id generator: %w", ErrMixinNotApplied)
	}
	rec, err := e.applyGeneratedID(ctx, rec)
	if err != nil {
		return nil, err
	}

	if e.slug != nil {
		rec, err = e.applySlug(rec)
		if err != nil {
			return nil, err
		}
	}

	stored, err := e.insertReturning(ctx, rec)
	if err != nil {
		return nil, err
	}
	return e.attachGlobalID(stored)
}

// NumericStrategy issues sequential integer identifiers by scanning the
// current maximum. Start seeds an empty table; Increment defaults to 1.
type NumericStrategy struct {
	Start     int64
	Increment int64
}

func (s NumericStrategy) Generate(ctx context.Context, ref ModelRef) (interface{}, error) {
	increment := s.Increment
	if increment <= 0 {
		increment = 1
	}

	var max *int64
	row := ref.DB.QueryRow(ctx, fmt.Sprintf("SELECT MAX(%s) FROM %s", ref.PrimaryKey, ref.Table))
	if err := row.Scan(&max); err != nil {
		return nil, fmt.Errorf("generate numeric id: %w", err)
	}
	if max == nil {
		if s.Start > 0 {
			return s.Start, nil
		}
		return int64(1), nil
	}
	return *max + increment, nil
}

// UUIDStrategy issues random version-4 UUIDs.
type UUIDStrategy struct{}

func (UUIDStrategy) Generate(ctx context.Context, ref ModelRef) (interface{}, error) {
	return uuid.NewString(), nil
}

// PrefixedStrategy issues identifiers like USER-0042: a fixed prefix, a
// separator, and a zero-padded sequence number. The numeric part grows past
// Padding digits rather than overflowing it.
type PrefixedStrategy struct {
	Prefix    string
	Separator string
	Padding   int
	Increment int64
}

func (s PrefixedStrategy) Generate(ctx context.Context, ref ModelRef) (interface{}, error) {
	sep := s.Separator
	if sep == "" {
		sep = "-"
	}
	increment := s.Increment
	if increment <= 0 {
		increment = 1
	}

	// Length-then-lexicographic ordering yields the numeric maximum for a
	// shared prefix even when older rows have shorter numbers.
	var current string
	row := ref.DB.QueryRow(ctx, fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY LENGTH(%s) DESC, %s DESC LIMIT 1",
		ref.PrimaryKey, ref.Table, ref.PrimaryKey, ref.PrimaryKey,
	))
	var max int64
	if err := row.Scan(&current); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("generate prefixed id: %w", err)
		}
	} else {
		numeric := strings.TrimPrefix(current, s.Prefix+sep)
		parsed, err := strconv.ParseInt(numeric, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("generate prefixed id: existing id %q is not %s%s<number>", current, s.Prefix, sep)
		}
		max = parsed
	}

	next := max + increment
	number := strconv.FormatInt(next, 10)
	if s.Padding > len(number) {
		number = strings.Repeat("0", s.Padding-len(number)) + number
	}
	return s.Prefix + sep + number, nil
}

// TimestampStrategy issues millisecond-epoch identifiers, optionally with a
// random digit suffix to separate same-millisecond inserts. Without a
// suffix the identifier is an int64; with one it is a string.
type TimestampStrategy struct {
	RandomSuffixDigits int
}

func (s TimestampStrategy) Generate(ctx context.Context, ref ModelRef) (interface{}, error) {
	millis := time.Now().UnixMilli()
	if s.RandomSuffixDigits <= 0 {
		return millis, nil
	}
	suffix := make([]byte, s.RandomSuffixDigits)
	for i := range suffix {
		suffix[i] = byte('0' + rand.IntN(10))
	}
	return strconv.FormatInt(millis, 10) + string(suffix), nil
}

// CustomStrategy adapts a plain function into an IDStrategy.
type CustomStrategy func(ctx context.Context, ref ModelRef) (interface{}, error)

func (f CustomStrategy) Generate(ctx context.Context, ref ModelRef) (interface{}, error) {
	return f(ctx, ref)
}
