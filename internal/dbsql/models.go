package dbsql

import "time"

// RelationshipEdge is one direction of a confirmed friendship. A friendship
// is stored as two rows.
type RelationshipEdge struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID int64     `gorm:"column:account_id;not null;uniqueIndex:idx_relationship_pair" json:"account_id"`
	FriendID  int64     `gorm:"column:friend_id;not null;uniqueIndex:idx_relationship_pair;index" json:"friend_id"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (RelationshipEdge) TableName() string {
	return "user_relationship"
}

type RelationshipRequest struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	FromAccountID int64     `gorm:"column:from_account_id;not null;uniqueIndex:idx_request_pair" json:"from_account_id"`
	ToAccountID   int64     `gorm:"column:to_account_id;not null;uniqueIndex:idx_request_pair;index" json:"to_account_id"`
	CreatedAt     time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (RelationshipRequest) TableName() string {
	return "user_relationship_request"
}

// AccountLink ties a local user to the global account id relationships are
// keyed on.
type AccountLink struct {
	LocalUserID uint64    `gorm:"column:local_user_id;primaryKey;autoIncrement:false" json:"local_user_id"`
	AccountID   int64     `gorm:"column:account_id;not null;uniqueIndex" json:"account_id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AccountLink) TableName() string {
	return "account_links"
}

type Notification struct {
	NotificationID uint64     `gorm:"primaryKey;autoIncrement" json:"notification_id"`
	UserID         uint64     `gorm:"index;not null" json:"user_id"`
	Type           string     `gorm:"size:64;not null" json:"type"`
	ActorAccount   int64      `gorm:"column:actor_account;not null" json:"actor_account"`
	TargetAccount  int64      `gorm:"column:target_account;not null" json:"target_account"`
	Content        string     `gorm:"type:text" json:"content"`
	Status         string     `gorm:"size:16;default:'sent'" json:"status"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
}
