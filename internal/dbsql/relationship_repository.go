package dbsql

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gofriends/internal/friendsync"
	"gofriends/internal/relationship"
)

const scanBatchSize = 500

type relationshipRepository struct {
	db *gorm.DB
}

func NewRelationshipRepository(db *gorm.DB) friendsync.Store {
	return &relationshipRepository{db: db}
}

func rowTime(at time.Time) time.Time {
	if at.IsZero() {
		return time.Now().UTC()
	}
	return at.UTC()
}

func (r *relationshipRepository) AddRequest(ctx context.Context, from, to relationship.AccountID, at time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req := &RelationshipRequest{
			FromAccountID: int64(from),
			ToAccountID:   int64(to),
			CreatedAt:     rowTime(at),
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(req).Error
	})
	if err != nil {
		return fmt.Errorf("failed to add request %s -> %s: %w", from, to, err)
	}
	return nil
}

func (r *relationshipRepository) ConfirmRequest(ctx context.Context, actor, target relationship.AccountID, at time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created := rowTime(at)
		edges := []RelationshipEdge{
			{AccountID: int64(actor), FriendID: int64(target), CreatedAt: created},
			{AccountID: int64(target), FriendID: int64(actor), CreatedAt: created},
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error; err != nil {
			return err
		}
		return tx.Where("from_account_id = ? AND to_account_id = ?", int64(target), int64(actor)).
			Delete(&RelationshipRequest{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to confirm request %s -> %s: %w", target, actor, err)
	}
	return nil
}

func (r *relationshipRepository) IgnoreRequest(ctx context.Context, actor, target relationship.AccountID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("from_account_id = ? AND to_account_id = ?", int64(target), int64(actor)).
			Delete(&RelationshipRequest{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to ignore request %s -> %s: %w", target, actor, err)
	}
	return nil
}

func (r *relationshipRepository) RemoveRelationship(ctx context.Context, actor, target relationship.AccountID) error {
	a, b := int64(actor), int64(target)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("(account_id = ? AND friend_id = ?) OR (account_id = ? AND friend_id = ?)", a, b, b, a).
			Delete(&RelationshipEdge{}).Error; err != nil {
			return err
		}
		return tx.Where("(from_account_id = ? AND to_account_id = ?) OR (from_account_id = ? AND to_account_id = ?)", a, b, b, a).
			Delete(&RelationshipRequest{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to remove relationship %s <-> %s: %w", actor, target, err)
	}
	return nil
}

func (r *relationshipRepository) ScanFriendEdges(ctx context.Context, scope relationship.Scope, fn func(relationship.FriendEdge) error) error {
	query := r.db.WithContext(ctx).Model(&RelationshipEdge{})
	if !scope.All() {
		query = query.Where("account_id = ? OR friend_id = ?", int64(scope.Account), int64(scope.Account))
	}

	var batch []RelationshipEdge
	result := query.FindInBatches(&batch, scanBatchSize, func(_ *gorm.DB, _ int) error {
		for _, row := range batch {
			edge := relationship.FriendEdge{
				Account:   relationship.AccountID(row.AccountID),
				Friend:    relationship.AccountID(row.FriendID),
				CreatedAt: row.CreatedAt,
			}
			if err := fn(edge); err != nil {
				return err
			}
		}
		return nil
	})
	if result.Error != nil {
		return fmt.Errorf("failed to scan friend edges (%s): %w", scope, result.Error)
	}
	return nil
}

func (r *relationshipRepository) ScanPendingRequests(ctx context.Context, scope relationship.Scope, fn func(relationship.PendingRequest) error) error {
	query := r.db.WithContext(ctx).Model(&RelationshipRequest{})
	if !scope.All() {
		query = query.Where("from_account_id = ? OR to_account_id = ?", int64(scope.Account), int64(scope.Account))
	}

	var batch []RelationshipRequest
	result := query.FindInBatches(&batch, scanBatchSize, func(_ *gorm.DB, _ int) error {
		for _, row := range batch {
			req := relationship.PendingRequest{
				From:      relationship.AccountID(row.FromAccountID),
				To:        relationship.AccountID(row.ToAccountID),
				CreatedAt: row.CreatedAt,
			}
			if err := fn(req); err != nil {
				return err
			}
		}
		return nil
	})
	if result.Error != nil {
		return fmt.Errorf("failed to scan pending requests (%s): %w", scope, result.Error)
	}
	return nil
}
