package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	goerrors "github.com/goliatone/go-errors"
	gorepo "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SelectCriteria narrows a select query
type SelectCriteria = gorepo.SelectCriteria

// Validator is implemented by managers that can check their wiring
type Validator interface {
	Validate() error
	MustValidate()
}

// TransactionManager runs a function inside a database transaction
type TransactionManager interface {
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
}

// Repository is a generic CRUD store for bun models keyed by a numeric id
type Repository[T any] interface {
	Get(ctx context.Context, id int64, criteria ...SelectCriteria) (T, error)
	GetTx(ctx context.Context, tx bun.IDB, id int64, criteria ...SelectCriteria) (T, error)
	GetBy(ctx context.Context, column string, value any) (T, error)
	GetByTx(ctx context.Context, tx bun.IDB, column string, value any, criteria ...SelectCriteria) (T, error)
	List(ctx context.Context, criteria ...SelectCriteria) ([]T, error)
	ListTx(ctx context.Context, tx bun.IDB, criteria ...SelectCriteria) ([]T, error)
	Count(ctx context.Context, criteria ...SelectCriteria) (int, error)
	CountTx(ctx context.Context, tx bun.IDB, criteria ...SelectCriteria) (int, error)
	CountPrefixTx(ctx context.Context, tx bun.IDB, column, prefix string) (int, error)
	Create(ctx context.Context, record T) (T, error)
	CreateTx(ctx context.Context, tx bun.IDB, record T) (T, error)
	Update(ctx context.Context, record T) (T, error)
	UpdateTx(ctx context.Context, tx bun.IDB, record T) (T, error)
	Patch(ctx context.Context, id int64, patch map[string]any) (T, error)
	PatchTx(ctx context.Context, tx bun.IDB, id int64, patch map[string]any) (T, error)
	Delete(ctx context.Context, id int64) error
	DeleteTx(ctx context.Context, tx bun.IDB, id int64) error
	Base() gorepo.Repository[T]
	DB() *bun.DB
}

// ModelHandlers tells the repository how to build and describe records
type ModelHandlers[T any] struct {
	// Entity is the display name used in error messages
	Entity    string
	NewRecord func() T
	// Immutable lists JSON keys that Patch never writes
	Immutable []string
}

type repo[T any] struct {
	db       *bun.DB
	base     gorepo.Repository[T]
	handlers ModelHandlers[T]
}

// NewRepository creates a repository backed by go-repository-bun. Records
// use database assigned integer ids so the uuid handlers are inert.
func NewRepository[T any](db *bun.DB, handlers ModelHandlers[T]) Repository[T] {
	if handlers.Entity == "" {
		handlers.Entity = "Record"
	}

	base := gorepo.NewRepository(db, gorepo.ModelHandlers[T]{
		NewRecord: handlers.NewRecord,
		GetID: func(T) uuid.UUID {
			return uuid.Nil
		},
		SetID: func(T, uuid.UUID) {},
		GetIdentifier: func() string {
			return "id"
		},
	})

	return &repo[T]{db: db, base: base, handlers: handlers}
}

func (r *repo[T]) DB() *bun.DB {
	return r.db
}

func (r *repo[T]) Base() gorepo.Repository[T] {
	return r.base
}

func (r *repo[T]) Get(ctx context.Context, id int64, criteria ...SelectCriteria) (T, error) {
	return r.GetTx(ctx, r.db, id, criteria...)
}

func (r *repo[T]) GetTx(ctx context.Context, tx bun.IDB, id int64, criteria ...SelectCriteria) (T, error) {
	record, err := r.base.GetByIDTx(ctx, tx, strconv.FormatInt(id, 10), criteria...)
	if err != nil {
		var zero T
		return zero, MapStoreError(err, r.handlers.Entity)
	}
	return record, nil
}

func (r *repo[T]) GetBy(ctx context.Context, column string, value any) (T, error) {
	return r.GetByTx(ctx, r.db, column, value)
}

func (r *repo[T]) GetByTx(ctx context.Context, tx bun.IDB, column string, value any, criteria ...SelectCriteria) (T, error) {
	criteria = append([]SelectCriteria{whereColumn(column, "=", value)}, criteria...)

	record, err := r.base.GetTx(ctx, tx, criteria...)
	if err != nil {
		var zero T
		return zero, MapStoreError(err, r.handlers.Entity)
	}
	return record, nil
}

func (r *repo[T]) List(ctx context.Context, criteria ...SelectCriteria) ([]T, error) {
	return r.ListTx(ctx, r.db, criteria...)
}

// ListTx returns every matching record. The base repository pages by
// default so the limit is cleared before the caller criteria run.
func (r *repo[T]) ListTx(ctx context.Context, tx bun.IDB, criteria ...SelectCriteria) ([]T, error) {
	criteria = append([]SelectCriteria{gorepo.Paginate(0, 0)}, criteria...)

	records, _, err := r.base.ListTx(ctx, tx, criteria...)
	if err != nil {
		return nil, MapStoreError(err, r.handlers.Entity)
	}

	if records == nil {
		records = make([]T, 0)
	}
	return records, nil
}

func (r *repo[T]) Count(ctx context.Context, criteria ...SelectCriteria) (int, error) {
	return r.CountTx(ctx, r.db, criteria...)
}

func (r *repo[T]) CountTx(ctx context.Context, tx bun.IDB, criteria ...SelectCriteria) (int, error) {
	paged := append(append([]SelectCriteria{}, criteria...), gorepo.Paginate(1, 0))

	_, total, err := r.base.ListTx(ctx, tx, paged...)
	if err != nil {
		return 0, MapStoreError(err, r.handlers.Entity)
	}
	return total, nil
}

// CountPrefixTx counts rows whose column starts with prefix
func (r *repo[T]) CountPrefixTx(ctx context.Context, tx bun.IDB, column, prefix string) (int, error) {
	return r.CountTx(ctx, tx, whereColumn(column, "LIKE", prefix+"%"))
}

func (r *repo[T]) Create(ctx context.Context, record T) (T, error) {
	return r.CreateTx(ctx, r.db, record)
}

func (r *repo[T]) CreateTx(ctx context.Context, tx bun.IDB, record T) (T, error) {
	created, err := r.base.CreateTx(ctx, tx, record)
	if err != nil {
		var zero T
		return zero, MapStoreError(err, r.handlers.Entity)
	}
	return created, nil
}

func (r *repo[T]) Update(ctx context.Context, record T) (T, error) {
	return r.UpdateTx(ctx, r.db, record)
}

// UpdateTx writes the non zero columns of record
func (r *repo[T]) UpdateTx(ctx context.Context, tx bun.IDB, record T) (T, error) {
	updated, err := r.base.UpdateTx(ctx, tx, record)
	if err != nil {
		var zero T
		return zero, MapStoreError(err, r.handlers.Entity)
	}
	return updated, nil
}

func (r *repo[T]) Patch(ctx context.Context, id int64, patch map[string]any) (T, error) {
	return r.PatchTx(ctx, r.db, id, patch)
}

// PatchTx loads the record, overlays the patch keys and writes every
// column back, so a patch can set a flag to false or a count to zero.
func (r *repo[T]) PatchTx(ctx context.Context, tx bun.IDB, id int64, patch map[string]any) (T, error) {
	var zero T

	record, err := r.GetTx(ctx, tx, id)
	if err != nil {
		return zero, err
	}

	if err := ApplyPatch(record, patch, r.handlers.Immutable...); err != nil {
		return zero, err
	}

	res, err := tx.NewUpdate().Model(record).WherePK().Returning("*").Exec(ctx)
	if err == nil {
		err = gorepo.SQLExpectedCount(res, 1)
	}

	if err != nil {
		return zero, MapStoreError(err, r.handlers.Entity)
	}
	return record, nil
}

func (r *repo[T]) Delete(ctx context.Context, id int64) error {
	return r.DeleteTx(ctx, r.db, id)
}

// DeleteTx removes the record with id. Missing rows are not an error.
func (r *repo[T]) DeleteTx(ctx context.Context, tx bun.IDB, id int64) error {
	err := r.base.DeleteWhereTx(ctx, tx, gorepo.DeleteByID(strconv.FormatInt(id, 10)))
	return MapStoreError(err, r.handlers.Entity)
}

func whereColumn(column, operator string, value any) SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.? "+operator+" ?", bun.Ident(column), value)
	}
}

// ApplyPatch overlays the JSON keys in patch onto record. The id and
// timestamp keys plus any immutable key are ignored.
func ApplyPatch(record any, patch map[string]any, immutable ...string) error {
	if len(patch) == 0 {
		return nil
	}

	clean := make(map[string]any, len(patch))
	for k, v := range patch {
		clean[k] = v
	}

	for _, k := range append([]string{"id", "createdAt", "updatedAt"}, immutable...) {
		delete(clean, k)
	}

	raw, err := json.Marshal(clean)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid update payload").
			WithCode(http.StatusBadRequest)
	}

	if err := json.Unmarshal(raw, record); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid update payload").
			WithCode(http.StatusBadRequest)
	}
	return nil
}
