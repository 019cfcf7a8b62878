package papertrade

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

const accountTable = "account_state"

// accountRecord is the stored shape: the snapshot travels as an opaque JSON
// document, one record per account id, replaced wholesale on every save.
type accountRecord struct {
	AccountID string    `json:"account_id"`
	Snapshot  string    `json:"snapshot"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SurrealStore persists snapshots in a SurrealDB table keyed by account id.
// Writes are UPSERTs, so delivery is last-write-wins by design.
type SurrealStore struct {
	db *surrealdb.DB
}

// SurrealOptions configures the connection to the remote store.
type SurrealOptions struct {
	Endpoint  string
	Namespace string
	Database  string
	Username  string
	Password  string
}

// NewSurrealStore connects, signs in, selects the namespace and database,
// and ensures the account table exists.
func NewSurrealStore(ctx context.Context, opts SurrealOptions) (*SurrealStore, error) {
	db, err := surrealdb.New(opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("could not connect to surrealdb: %w", err)
	}
	if opts.Username != "" {
		if _, err := db.SignIn(ctx, map[string]interface{}{
			"user": opts.Username,
			"pass": opts.Password,
		}); err != nil {
			return nil, fmt.Errorf("could not sign in to surrealdb: %w", err)
		}
	}
	if err := db.Use(ctx, opts.Namespace, opts.Database); err != nil {
		return nil, fmt.Errorf("could not select namespace/database: %w", err)
	}
	sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", accountTable)
	if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
		return nil, fmt.Errorf("could not define table %s: %w", accountTable, err)
	}
	return &SurrealStore{db: db}, nil
}

// Load fetches the account's record and decodes its snapshot document.
func (s *SurrealStore) Load(ctx context.Context, accountID string) (*State, error) {
	record, err := surrealdb.Select[accountRecord](ctx, s.db, surrealmodels.NewRecordID(accountTable, accountID))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNoState
		}
		return nil, fmt.Errorf("could not select account record: %w", err)
	}
	if record == nil || record.Snapshot == "" {
		return nil, ErrNoState
	}
	return DecodeState(strings.NewReader(record.Snapshot))
}

// Save upserts the account's record with a freshly encoded snapshot.
func (s *SurrealStore) Save(ctx context.Context, accountID string, state *State) error {
	var buf bytes.Buffer
	if err := EncodeState(&buf, state); err != nil {
		return err
	}
	record := accountRecord{
		AccountID: accountID,
		Snapshot:  buf.String(),
		UpdatedAt: time.Now().UTC(),
	}
	vars := map[string]any{
		"rid":    surrealmodels.NewRecordID(accountTable, accountID),
		"record": record,
	}
	if _, err := surrealdb.Query[[]accountRecord](ctx, s.db, "UPSERT $rid CONTENT $record", vars); err != nil {
		return fmt.Errorf("could not upsert account record: %w", err)
	}
	return nil
}

// Close terminates the connection.
func (s *SurrealStore) Close(ctx context.Context) error {
	return s.db.Close(ctx)
}

func isNotFound(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "not found")
}

var _ Store = (*SurrealStore)(nil)
