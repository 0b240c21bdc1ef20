package dbsql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gofriends/internal/common"
	"gofriends/internal/relationship"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

var _ relationship.AccountResolver = (*AccountRepository)(nil)

func (r *AccountRepository) AccountIDForLocalUser(ctx context.Context, localUserID uint64) (relationship.AccountID, error) {
	var link AccountLink
	err := r.db.WithContext(ctx).Where("local_user_id = ?", localUserID).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, common.New(common.ErrCodeNotFound, fmt.Sprintf("no account linked to user %d", localUserID))
		}
		return 0, fmt.Errorf("failed to resolve account for user %d: %w", localUserID, err)
	}
	return relationship.AccountID(link.AccountID), nil
}

func (r *AccountRepository) LocalUserIDForAccount(ctx context.Context, accountID relationship.AccountID) (uint64, error) {
	var link AccountLink
	err := r.db.WithContext(ctx).Where("account_id = ?", int64(accountID)).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, common.New(common.ErrCodeNotFound, fmt.Sprintf("no local user for account %s", accountID))
		}
		return 0, fmt.Errorf("failed to resolve local user for account %s: %w", accountID, err)
	}
	return link.LocalUserID, nil
}

// Link associates a local user with an account. Re-linking the same pair is a no-op.
func (r *AccountRepository) Link(ctx context.Context, localUserID uint64, accountID relationship.AccountID) error {
	if !accountID.Valid() {
		return relationship.ErrInvalidArgument
	}
	link := &AccountLink{LocalUserID: localUserID, AccountID: int64(accountID)}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(link).Error; err != nil {
		return fmt.Errorf("failed to link user %d to account %s: %w", localUserID, accountID, err)
	}
	return nil
}
