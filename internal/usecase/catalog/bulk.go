package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/camvault/dealer-ledger/internal/domain"
)

// BulkUploadLockKey guards against two bulk uploads running at once
const BulkUploadLockKey = "lock:products:bulk-upload"

// Locker hands out a cluster-wide mutex. Obtain returns domain.ErrConflict
// when the lock is already held.
type Locker interface {
	Obtain(ctx context.Context, key string) (domain.Lease, error)
}

// reasonLockLost is reported for rows skipped after the upload lock expired
const reasonLockLost = "bulk upload lock expired, row not processed"

// BulkRow is one parsed upload row. Err is set when the row could not be parsed.
type BulkRow struct {
	Line  int
	Input ProductInput
	Err   error
}

// BulkReport summarizes a bulk upload
type BulkReport struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Created    int      `json:"created"`
	Updated    int      `json:"updated"`
	Errors     []string `json:"errors"`
}

// BulkUpload inserts or updates every row, matching on model number.
// Each row runs in its own transaction so one bad row never aborts the batch.
func (s *Service) BulkUpload(ctx context.Context, rows []BulkRow, actor string) (*BulkReport, error) {
	lease, err := s.locker.Obtain(ctx, BulkUploadLockKey)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.logger.Warn("Bulk upload rejected, another upload is running")
		} else {
			s.logger.Error("Failed to obtain bulk upload lock", err)
		}
		return nil, err
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warnf("Failed to release bulk upload lock: %v", err)
		}
	}()

	report := &BulkReport{
		Total:  len(rows),
		Errors: []string{},
	}

	lockLost := false
	for _, row := range rows {
		// a second upload may start once the lease lapses, so no row is written without it
		if !lockLost {
			if err := lease.Refresh(ctx); err != nil {
				s.logger.Error("Lost bulk upload lock", err)
				lockLost = true
			}
		}
		if lockLost {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("Row %d: %s", row.Line, reasonLockLost))
			continue
		}

		created, err := s.applyRow(ctx, row, actor)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("Row %d: %s", row.Line, rowReason(err)))
			continue
		}

		report.Successful++
		if created {
			report.Created++
		} else {
			report.Updated++
		}
	}

	s.publishEvent(ctx, domain.EventBulkUploadFinished, uuid.Nil, actor, report)

	s.logger.WithFields(map[string]interface{}{
		"total":      report.Total,
		"successful": report.Successful,
		"failed":     report.Failed,
		"actor":      actor,
	}).Info("Bulk upload finished")

	return report, nil
}

func (s *Service) applyRow(ctx context.Context, row BulkRow, actor string) (bool, error) {
	if row.Err != nil {
		return false, row.Err
	}
	if err := row.Input.validate(); err != nil {
		return false, err
	}

	var created bool
	err := s.txRunner.Run(ctx, func(repos domain.Repositories) error {
		current, err := repos.Products.GetByModelNumberForUpdate(ctx, row.Input.ModelNumber)
		if errors.Is(err, domain.ErrNotFound) {
			created = true
			return repos.Products.Create(ctx, row.Input.toProduct())
		}
		if err != nil {
			return err
		}

		next := *current
		row.Input.applyTo(&next)
		_, err = s.save(ctx, repos, current, &next, actor, domain.ChangeTypeBulkUpload)
		return err
	})
	if err != nil && !errors.Is(err, domain.ErrInvalidInput) {
		s.logger.WithFields(map[string]interface{}{
			"line":         row.Line,
			"model_number": row.Input.ModelNumber,
		}).Error("Bulk upload row failed", err)
	}

	return created, err
}

func rowReason(err error) string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, domain.ErrAlreadyExists):
		return "model_number already exists"
	case errors.Is(err, domain.ErrStorage):
		return "storage failure, retry the row"
	default:
		return err.Error()
	}
}
