package handler

// PairRequest names the other account; the caller is taken from the token.
type PairRequest struct {
	OtherAccountID int64 `json:"other_account_id"`
}

// AccountRequest selects whose lists to read. Zero means the caller.
type AccountRequest struct {
	AccountID int64 `json:"account_id,omitempty"`
}

type RelationshipReply struct {
	Status string `json:"status"`
}

type AccountsReply struct {
	AccountIDs []int64 `json:"account_ids"`
}

type CountReply struct {
	Count int `json:"count"`
}

type ReceivedRequest struct {
	FromAccountID int64             `json:"from_account_id"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type ReceivedRequestsReply struct {
	Requests []ReceivedRequest `json:"requests"`
}

type AckReply struct {
	OK bool `json:"ok"`
}

// ResyncRequest limits the resync to one account when AccountID is set.
type ResyncRequest struct {
	AccountID int64 `json:"account_id,omitempty"`
	Rebuild   bool  `json:"rebuild,omitempty"`
}

type ResyncReply struct {
	Scope       string `json:"scope"`
	Friendships int    `json:"friendships"`
	Requests    int    `json:"requests"`
	DurationMS  int64  `json:"duration_ms"`
}
