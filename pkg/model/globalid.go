package model

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodedGlobalID is the type/ID pair carried inside a global identifier.
type DecodedGlobalID struct {
	Type string
	ID   string
}

// GlobalIDOptions configures the global-ID mixin.
type GlobalIDOptions[T any] struct {
	// Type names the record type embedded in every identifier. Identifiers
	// decoded for this model must carry this type unless
	// SkipTypeValidation is set.
	Type string
	// Encode overrides the default base64 codec.
	Encode func(typ, id string) string
	// Decode overrides the default base64 codec. Return nil for tokens
	// that cannot be decoded.
	Decode func(token string) *DecodedGlobalID
	// SkipTypeValidation accepts identifiers of any type on decode.
	SkipTypeValidation bool
	// AttachField names a struct field (by Go field name) that fetched
	// records get their global ID written into.
	AttachField string
	// Finder overrides the primary-key lookup used by FindByGlobalID.
	Finder func(ctx context.Context, e *Enhanced[T], decoded DecodedGlobalID) (*T, error)
}

type globalIDConfig[T any] struct {
	opts GlobalIDOptions[T]
}

// WithGlobalID returns a mixin that gives records opaque, type-qualified
// identifiers safe to expose in URLs and APIs.
func WithGlobalID[T any](opts GlobalIDOptions[T]) Mixin[T] {
	cfg := &globalIDConfig[T]{opts: opts}
	return func(e *Enhanced[T]) *Enhanced[T] {
		c := e.clone()
		c.gid = cfg
		return c
	}
}

// ApplyGlobalID is the direct, two-argument form of WithGlobalID.
func ApplyGlobalID[T any](e *Enhanced[T], opts GlobalIDOptions[T]) *Enhanced[T] {
	return WithGlobalID[T](opts)(e)
}

// EncodeGlobalID encodes a type/ID pair with the default codec: url-safe
// base64 over "type:id", no padding.
func EncodeGlobalID(typ, id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(typ + ":" + id))
}

// ParseGlobalID decodes a token with the default codec. Returns nil for
// tokens that are not valid base64 or lack the type:id shape.
func ParseGlobalID(token string) *DecodedGlobalID {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil
	}
	typ, id, ok := strings.Cut(string(raw), ":")
	if !ok || typ == "" || id == "" {
		return nil
	}
	return &DecodedGlobalID{Type: typ, ID: id}
}

func (c *globalIDConfig[T]) encode(id string) string {
	if c.opts.Encode != nil {
		return c.opts.Encode(c.opts.Type, id)
	}
	return EncodeGlobalID(c.opts.Type, id)
}

func (c *globalIDConfig[T]) decode(token string) *DecodedGlobalID {
	if c.opts.Decode != nil {
		return c.opts.Decode(token)
	}
	return ParseGlobalID(token)
}

// GetGlobalID returns the global identifier for a record, derived from its
// primary key.
func (e *Enhanced[T]) GetGlobalID(rec T) (string, error) {
	if e.gid == nil {
		return "", fmt.Errorf("global id: %w", ErrMixinNotApplied)
	}
	id := e.columnString(rec, e.pk)
	if id == "" {
		return "", fmt.Errorf("global id: record has no %s value", e.pk)
	}
	return e.gid.encode(id), nil
}

// DecodeGlobalID decodes a global identifier. It returns nil for tokens
// that are malformed or, unless SkipTypeValidation is set, carry a type
// other than this model's.
func (e *Enhanced[T]) DecodeGlobalID(token string) *DecodedGlobalID {
	if e.gid == nil {
		return nil
	}
	decoded := e.gid.decode(token)
	if decoded == nil {
		return nil
	}
	if !e.gid.opts.SkipTypeValidation && decoded.Type != e.gid.opts.Type {
		return nil
	}
	return decoded
}

// FindByGlobalID resolves a global identifier to its record. Malformed and
// type-mismatched identifiers return nil without touching the database, as
// does an identifier whose record no longer exists.
func (e *Enhanced[T]) FindByGlobalID(ctx context.Context, token string) (*T, error) {
	if e.gid == nil {
		return nil, fmt.Errorf("global id: %w", ErrMixinNotApplied)
	}
	decoded := e.DecodeGlobalID(token)
	if decoded == nil {
		return nil, nil
	}
	if e.gid.opts.Finder != nil {
		return e.gid.opts.Finder(ctx, e, *decoded)
	}
	return e.FindByID(ctx, decoded.ID)
}

// attachGlobalID writes the record's global identifier into the configured
// attach field. A nil record, absent mixin, or unset AttachField passes
// through untouched.
func (e *Enhanced[T]) attachGlobalID(rec *T) (*T, error) {
	if rec == nil || e.gid == nil || e.gid.opts.AttachField == "" {
		return rec, nil
	}
	gid, err := e.GetGlobalID(*rec)
	if err != nil {
		return nil, err
	}
	if err := setField(rec, e.gid.opts.AttachField, gid); err != nil {
		return nil, err
	}
	return rec, nil
}

// FindByID fetches a record by primary key and attaches its global ID when
// the mixin is configured to do so.
func (e *Enhanced[T]) FindByID(ctx context.Context, id interface{}) (*T, error) {
	rec, err := e.Model.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.attachGlobalID(rec)
}

// FindOne fetches the first record matching column = value, attaching the
// global ID when configured.
func (e *Enhanced[T]) FindOne(ctx context.Context, column string, value interface{}) (*T, error) {
	rec, err := e.Model.FindOne(ctx, column, value)
	if err != nil {
		return nil, err
	}
	return e.attachGlobalID(rec)
}

// All fetches every record, attaching global IDs when configured.
func (e *Enhanced[T]) All(ctx context.Context) ([]T, error) {
	records, err := e.Model.All(ctx)
	if err != nil {
		return nil, err
	}
	if e.gid == nil || e.gid.opts.AttachField == "" {
		return records, nil
	}
	for i := range records {
		if _, err := e.attachGlobalID(&records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}
