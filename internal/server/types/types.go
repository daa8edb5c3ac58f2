// types package contains the wire types of the webhook HTTP API.
package types

// SyncResponseV1 is returned for accepted notifications. Updated reports
// whether the annotation was rewritten; a notification that matched the
// recorded hash is accepted without a write.
type SyncResponseV1 struct {
	Status  string `json:"status"`
	GitHash string `json:"git_hash"`
	Updated bool   `json:"updated"`
}

// StatusSuccess is the status value for accepted notifications.
const StatusSuccess = "success"
