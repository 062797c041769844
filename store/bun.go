package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/serenoa/go-session"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Credential is the persisted token slot record. One row per named slot.
type Credential struct {
	bun.BaseModel `bun:"table:credentials,alias:cred"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Slot          string     `bun:"slot,notnull,unique" json:"slot,omitempty"`
	Token         string     `bun:"token,notnull" json:"token,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

var _ session.TokenStore = (*BunStore)(nil)

// BunStore keeps the token slot in a credentials table. The slot name maps to
// a deterministic UUID so the same slot always lands on the same row.
type BunStore struct {
	db   *bun.DB
	repo repository.Repository[*Credential]
	slot string
	id   uuid.UUID
}

// OpenSQLite opens a bun handle over a sqlite database at the given DSN
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "unable to open sqlite database")
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// NewBunStore binds a token slot to the credentials table, creating the table
// when it does not exist yet.
func NewBunStore(ctx context.Context, db *bun.DB, slot string) (*BunStore, error) {
	if slot == "" {
		return nil, errors.New("slot name is required", errors.CategoryValidation)
	}

	id, err := hashid.NewUUID(slot)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "unable to derive slot id")
	}

	if _, err := db.NewCreateTable().
		Model((*Credential)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "unable to create credentials table")
	}

	repo := repository.NewRepository[*Credential](db, repository.ModelHandlers[*Credential]{
		NewRecord: func() *Credential { return &Credential{} },
		GetID: func(c *Credential) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Credential, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
	})

	return &BunStore{
		db:   db,
		repo: repo,
		slot: slot,
		id:   id,
	}, nil
}

func (s *BunStore) Get(ctx context.Context) (string, error) {
	record := &Credential{}

	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.slot = ?", s.slot).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return "", nil
		}
		return "", errors.Wrap(err, errors.CategoryOperation, "unable to read token slot")
	}

	return record.Token, nil
}

func (s *BunStore) Set(ctx context.Context, token string) error {
	now := time.Now()
	record := &Credential{
		ID:        s.id,
		Slot:      s.slot,
		Token:     token,
		CreatedAt: &now,
		UpdatedAt: &now,
	}

	// CreatedAt marks when the slot was first written, refreshes only touch
	// UpdatedAt
	existing := &Credential{}
	err := s.db.NewSelect().
		Model(existing).
		Where("?TableAlias.slot = ?", s.slot).
		Limit(1).
		Scan(ctx)
	if err == nil {
		record.CreatedAt = existing.CreatedAt
	} else if !repository.IsRecordNotFound(err) {
		return errors.Wrap(err, errors.CategoryOperation, "unable to read token slot")
	}

	if _, err := s.repo.Upsert(ctx, record); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "unable to persist token slot")
	}

	return nil
}

func (s *BunStore) Clear(ctx context.Context) error {
	if _, err := s.db.NewDelete().
		Model((*Credential)(nil)).
		Where("slot = ?", s.slot).
		Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "unable to erase token slot")
	}

	return nil
}
