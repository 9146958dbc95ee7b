package entity

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ReactionKind names a per-user boolean relation to an issue.
type ReactionKind string

const (
	ReactionLike ReactionKind = "like"
	ReactionSave ReactionKind = "save"
)

// Reaction is a like or a saved row. At most one exists per (IssueID, UserEmail).
type Reaction struct {
	ID        string    `json:"_id" firestore:"id"`
	IssueID   string    `json:"issueId" firestore:"issueId"`
	UserEmail string    `json:"userEmail" firestore:"userEmail"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

var reactionNamespace = uuid.MustParse("5b0c3f4e-8d2a-4c61-9e57-3a1f6d2b7c90")

// ReactionID is the document id that makes (issue, user) unique. The issue id
// is length-prefixed so no two pairs share a name, whatever characters they hold.
func ReactionID(issueID, userEmail string) string {
	name := strconv.Itoa(len(issueID)) + ":" + issueID + userEmail
	return uuid.NewSHA1(reactionNamespace, []byte(name)).String()
}

// SavedIssue is a saved row joined with the issue it points to.
type SavedIssue struct {
	*Issue
	SavedAt time.Time `json:"savedAt"`
	SavedID string    `json:"savedId"`
}
