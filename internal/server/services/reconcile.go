package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophdrive/internal/server/storage"
)

// Reconciler heals drift between the metadata table and the storage
// namespace at read time. Rows whose bytes are gone are deleted, one
// statement per row; nothing is ever recreated.
type Reconciler struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.Store
	logger      logging.Logger
}

func NewReconciler(db *sql.DB, m repomanager.RepositoryManager, store storage.Store, logger logging.Logger) *Reconciler {
	return &Reconciler{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger.With("module", "reconciler"),
	}
}

// Reconcile returns the owner's rows that still have bytes behind them, in
// listing order. An inconclusive existence check keeps the row.
func (r *Reconciler) Reconcile(ctx context.Context, ownerID int64) ([]*models.File, error) {
	if _, err := r.store.Resolve(ctx, ownerID); err != nil {
		return nil, err
	}

	repo := r.repomanager.Files(r.db)
	rows, err := repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	valid := make([]*models.File, 0, len(rows))
	pruned := 0
	for _, f := range rows {
		ok, err := r.store.Exists(ctx, ownerID, f.StoredName)
		if err != nil {
			r.logger.Warn(ctx, "existence check failed, keeping row",
				"owner_id", ownerID, "file_id", f.ID, "stored_name", f.StoredName, "error", err)
			valid = append(valid, f)
			continue
		}
		if ok {
			valid = append(valid, f)
			continue
		}

		r.logger.Warn(ctx, "stored file missing, pruning metadata row",
			"owner_id", ownerID, "file_id", f.ID, "stored_name", f.StoredName)
		if err := repo.DeleteByID(ctx, f.ID); err != nil && !errors.Is(err, common.ErrorNotFound) {
			r.logger.Error(ctx, "prune failed", "file_id", f.ID, "error", err)
			continue
		}
		pruned++
		reconcilePrunedTotal.Inc()
	}

	if pruned > 0 {
		r.logger.Info(ctx, "reconciled listing", "owner_id", ownerID, "pruned", pruned, "kept", len(valid))
	}
	return valid, nil
}
