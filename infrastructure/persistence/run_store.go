package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/helixml/cgc/domain/reconcile"
	"github.com/helixml/cgc/internal/database"
	"gorm.io/gorm"
)

// saveBatchSize bounds the rows per INSERT when storing loci.
const saveBatchSize = 200

// RunStore implements reconcile.RunStore using GORM.
type RunStore struct {
	database.Repository[reconcile.Run, RunModel]
	db database.Database
}

// NewRunStore creates a new RunStore.
func NewRunStore(db database.Database) RunStore {
	return RunStore{
		Repository: database.NewRepository[reconcile.Run, RunModel](db, RunMapper{}, "run"),
		db:         db,
	}
}

// SaveResult stores the run summary and every superset locus with its
// members in a single transaction.
func (s RunStore) SaveResult(ctx context.Context, r reconcile.Result) (reconcile.Run, error) {
	saved, err := database.WithTransactionResult(ctx, s.db, func(tx *gorm.DB) (RunModel, error) {
		run := s.Mapper().ToModel(reconcile.NewRun(r))
		run.CreatedAt = time.Now().UTC()
		if err := tx.Create(&run).Error; err != nil {
			return RunModel{}, fmt.Errorf("save run: %w", err)
		}

		loci := r.Superset()
		if len(loci) == 0 {
			return run, nil
		}
		models := make([]LocusModel, len(loci))
		for i, l := range loci {
			models[i] = locusToModel(run.ID, i, l)
		}
		if err := tx.CreateInBatches(&models, saveBatchSize).Error; err != nil {
			return RunModel{}, fmt.Errorf("save loci: %w", err)
		}
		return run, nil
	})
	if err != nil {
		return reconcile.Run{}, err
	}
	return s.Mapper().ToDomain(saved), nil
}

// LocusStore implements reconcile.LocusStore using GORM.
type LocusStore struct {
	database.Repository[reconcile.StoredLocus, LocusModel]
}

// NewLocusStore creates a new LocusStore. Members are loaded with every locus.
func NewLocusStore(db database.Database) LocusStore {
	return LocusStore{
		Repository: database.NewRepository[reconcile.StoredLocus, LocusModel](db, LocusMapper{}, "locus", "Members"),
	}
}

var (
	_ reconcile.RunStore   = RunStore{}
	_ reconcile.LocusStore = LocusStore{}
)
