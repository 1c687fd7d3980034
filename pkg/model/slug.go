package model

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/strataorm/strata/pkg/builder"
)

// SlugCase selects the casing applied before slugification.
type SlugCase string

const (
	// CaseDefault lowercases the slug (the zero value).
	CaseDefault SlugCase = ""
	// CaseNone leaves the casing of the source text untouched.
	CaseNone SlugCase = "none"
	// CaseLower lowercases the whole string.
	CaseLower SlugCase = "lower"
	// CaseUpper uppercases the whole string.
	CaseUpper SlugCase = "upper"
	// CaseCapitalize title-cases each word.
	CaseCapitalize SlugCase = "capitalize"
)

// SlugRule is a dictionary substitution applied before slugification.
// Pattern is a case-insensitive regular expression.
type SlugRule struct {
	Pattern     string
	Replacement string
}

// SlugOptions configures the slug mixin.
type SlugOptions struct {
	// Field is the column the slug is written to and looked up by.
	Field string
	// Sources are the columns the slug is derived from, in order.
	Sources []string
	// Case is the casing operation; the zero value lowercases.
	Case SlugCase
	// Separator replaces runs of non-alphanumeric characters. Default "-".
	Separator string
	// Truncate hard-cuts the slug to this many characters when > 0.
	Truncate int
	// Dictionary substitutions, applied in order before casing.
	Dictionary []SlugRule
}

type slugRule struct {
	re   *regexp.Regexp
	repl string
}

type slugConfig struct {
	opts  SlugOptions
	rules []slugRule
	err   error // first dictionary compile error, surfaced on insert
}

// WithSlug returns a mixin that derives a URL-safe identifier from the
// configured source columns on insert and adds slug-based lookup.
func WithSlug[T any](opts SlugOptions) Mixin[T] {
	cfg := &slugConfig{opts: opts}
	if cfg.opts.Separator == "" {
		cfg.opts.Separator = "-"
	}
	for _, rule := range opts.Dictionary {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			if cfg.err == nil {
				cfg.err = fmt.Errorf("invalid dictionary pattern %q: %w", rule.Pattern, err)
			}
			continue
		}
		cfg.rules = append(cfg.rules, slugRule{re: re, repl: rule.Replacement})
	}

	return func(e *Enhanced[T]) *Enhanced[T] {
		c := e.clone()
		c.slug = cfg
		return c
	}
}

// ApplySlug is the direct, two-argument form of WithSlug.
func ApplySlug[T any](e *Enhanced[T], opts SlugOptions) *Enhanced[T] {
	return WithSlug[T](opts)(e)
}

// DeriveSlug computes the slug for a record. A slug already present in the
// record's slug field is returned verbatim; sources are never consulted.
// The empty string means no slug could be derived.
func (e *Enhanced[T]) DeriveSlug(rec T) string {
	if e.slug == nil {
		return ""
	}
	opts := e.slug.opts

	if existing := e.columnString(rec, opts.Field); existing != "" {
		return existing
	}

	var parts []string
	for _, source := range opts.Sources {
		if v := e.columnString(rec, source); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return ""
	}

	return e.slug.slugify(strings.Join(parts, " "))
}

// slugify runs dictionary substitution, casing, separator collapsing and
// truncation over raw text.
func (c *slugConfig) slugify(text string) string {
	for _, rule := range c.rules {
		text = rule.re.ReplaceAllString(text, rule.repl)
	}

	switch c.opts.Case {
	case CaseNone:
		// leave as-is
	case CaseUpper:
		text = strings.ToUpper(text)
	case CaseCapitalize:
		text = capitalizeWords(text)
	default: // CaseDefault, CaseLower
		text = strings.ToLower(text)
	}

	sep := c.opts.Separator
	text = nonAlphanumeric.ReplaceAllString(text, sep)
	text = collapseSeparators(text, sep)
	text = strings.Trim(text, sep)

	if c.opts.Truncate > 0 {
		runes := []rune(text)
		if len(runes) > c.opts.Truncate {
			// Hard character cut; a trailing separator is preserved as-is.
			text = string(runes[:c.opts.Truncate])
		}
	}

	return text
}

// Slugify applies the full slugification pipeline to raw text using the
// given options. Exposed for callers that derive slugs outside a model.
func Slugify(text string, opts SlugOptions) string {
	cfg := &slugConfig{opts: opts}
	if cfg.opts.Separator == "" {
		cfg.opts.Separator = "-"
	}
	for _, rule := range opts.Dictionary {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			continue
		}
		cfg.rules = append(cfg.rules, slugRule{re: re, repl: rule.Replacement})
	}
	return cfg.slugify(text)
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func collapseSeparators(text, sep string) string {
	if sep == "" {
		return text
	}
	double := sep + sep
	for strings.Contains(text, double) {
		text = strings.ReplaceAll(text, double, sep)
	}
	return text
}

func capitalizeWords(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		if len(runes) > 0 {
			runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// FindBySlug returns the record whose slug field equals slug, or nil when
// no record matches.
func (e *Enhanced[T]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	if e.slug == nil {
		return nil, fmt.Errorf("slug: %w", ErrMixinNotApplied)
	}
	return e.FindOne(ctx, e.slug.opts.Field, slug)
}

// InsertWithSlug derives a slug for the record when absent and inserts it,
// returning the stored row. A record that yields no slug is inserted
// without one; no fallback value is invented. When the ID-generator mixin
// is also applied, a missing primary key is generated before the insert.
func (e *Enhanced[T]) InsertWithSlug(ctx context.Context, rec T) (*T, error) {
	if e.slug == nil {
		return nil, fmt.Errorf("slug: %w", ErrMixinNotApplied)
	}
	if e.slug.err != nil {
		return nil, e.slug.err
	}

	rec, err := e.prepareSlugInsert(ctx, rec)
	if err != nil {
		return nil, err
	}

	stored, err := e.insertReturning(ctx, rec)
	if err != nil {
		return nil, err
	}
	return e.attachGlobalID(stored)
}

// InsertIfNotExistsWithSlug derives a slug and inserts the record, skipping
// the insert when a record with the same slug already exists. Returns nil
// when the insert was skipped.
func (e *Enhanced[T]) InsertIfNotExistsWithSlug(ctx context.Context, rec T) (*T, error) {
	if e.slug == nil {
		return nil, fmt.Errorf("slug: %w", ErrMixinNotApplied)
	}
	if e.slug.err != nil {
		return nil, e.slug.err
	}

	rec, err := e.prepareSlugInsert(ctx, rec)
	if err != nil {
		return nil, err
	}

	rows, err := builder.Insert[T](e.db).
		Values(rec).
		OnConflictDoNothing(e.slug.opts.Field).
		ExecReturning(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return e.attachGlobalID(&rows[0])
}

// UpsertWithSlug derives a slug and inserts the record, overwriting the
// existing record when one with the same slug exists.
func (e *Enhanced[T]) UpsertWithSlug(ctx context.Context, rec T) (*T, error) {
	if e.slug == nil {
		return nil, fmt.Errorf("slug: %w", ErrMixinNotApplied)
	}
	if e.slug.err != nil {
		return nil, e.slug.err
	}

	rec, err := e.prepareSlugInsert(ctx, rec)
	if err != nil {
		return nil, err
	}

	rows, err := builder.Insert[T](e.db).
		Values(rec).
		OnConflictDoUpdate([]string{e.slug.opts.Field}, e.conflictUpdates(rec)).
		ExecReturning(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return e.attachGlobalID(&rows[0])
}

// ProcessDataBeforeInsert applies slug derivation to each record,
// preserving any pre-supplied slug per record. Records are returned in
// input order.
func (e *Enhanced[T]) ProcessDataBeforeInsert(records ...T) ([]T, error) {
	if e.slug == nil {
		return nil, fmt.Errorf("slug: %w", ErrMixinNotApplied)
	}

	out := make([]T, 0, len(records))
	for _, rec := range records {
		rec, err := e.applySlug(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// prepareSlugInsert runs the pre-insert steps shared by the slug insert
// family: slug derivation, then primary-key generation when the
// ID-generator mixin is stacked and the record has no key. Without the
// generated key an upsert against a defaultless primary key would fail on
// the NOT NULL constraint before its conflict clause could fire.
func (e *Enhanced[T]) prepareSlugInsert(ctx context.Context, rec T) (T, error) {
	rec, err := e.applySlug(rec)
	if err != nil {
		return rec, err
	}
	return e.applyGeneratedID(ctx, rec)
}

// applySlug writes the derived slug into the record's slug field when one
// could be derived.
func (e *Enhanced[T]) applySlug(rec T) (T, error) {
	slug := e.DeriveSlug(rec)
	if slug == "" {
		return rec, nil
	}
	if err := e.setColumn(&rec, e.slug.opts.Field, slug); err != nil {
		return rec, err
	}
	return rec, nil
}

// conflictUpdates builds the DO UPDATE SET map for upserts: every column
// from the record except the primary key and the slug field.
func (e *Enhanced[T]) conflictUpdates(rec T) map[string]interface{} {
	updates := make(map[string]interface{})
	for _, col := range e.table.Columns {
		if col.PrimaryKey || col.Name == e.slug.opts.Field {
			continue
		}
		if e.columnIsZero(rec, col.Name) {
			continue
		}
		field, ok := e.columnField(reflect.ValueOf(rec), col.Name)
		if !ok {
			continue
		}
		updates[col.Name] = field.Interface()
	}
	return updates
}
