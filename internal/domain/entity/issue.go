package entity

import (
	"time"
)

const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusRejected = "rejected"
)

type Issue struct {
	ID                 string    `json:"_id" firestore:"id"`
	StudentEmail       string    `json:"student_email" firestore:"studentEmail"`
	StudentName        string    `json:"student_name" firestore:"studentName"`
	StudentImage       string    `json:"student_image" firestore:"studentImage"`
	Title              string    `json:"issue_title" firestore:"title"`
	Category           string    `json:"issue_category" firestore:"category"`
	Location           string    `json:"issue_location" firestore:"location"`
	Date               string    `json:"issue_date" firestore:"date"`
	Time               string    `json:"issue_time" firestore:"time"`
	Details            string    `json:"issue_details" firestore:"details"`
	Image              string    `json:"issue_image" firestore:"image"`
	VerificationStatus string    `json:"verification_status" firestore:"verificationStatus"`
	IsSolved           bool      `json:"isSolved" firestore:"isSolved"`
	SubmitDate         time.Time `json:"submit_date" firestore:"submitDate"`
}

type IssueStats struct {
	Total    int64 `json:"total"`
	Verified int64 `json:"verified"`
	Rejected int64 `json:"rejected"`
	Pending  int64 `json:"pending"`
	Solved   int64 `json:"solved"`
}

func IsValidStatus(status string) bool {
	return status == StatusPending || status == StatusVerified || status == StatusRejected
}
