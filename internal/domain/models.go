package domain

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Domain contains core models shared by the wallet client, rendering and sinks.

// Unit is the currency label reported by the node.
const Unit = "NBC"

// Amount is a numeric NBC quantity as reported by the node.
type Amount float64

// String renders the amount without trailing zeros ("55", "12.5").
func (a Amount) String() string {
	return strconv.FormatFloat(float64(a), 'f', -1, 64)
}

// ParseAmount parses node-provided numeric text.
func ParseAmount(s string) (Amount, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("amount %q is not finite", s)
	}
	return Amount(v), nil
}

// TransactionRecord is one row of the wallet history. Index is a display ordinal
// assigned in node order, not an identifier from the node.
type TransactionRecord struct {
	Index  int    `json:"index"`
	FromTo string `json:"fromTo"`
	Node   string `json:"node"`
	Amount Amount `json:"amount"`
}

// TransactionHistory keeps the node's ordering as-is.
type TransactionHistory []TransactionRecord

// TransactionSubmission is a transfer request from the configured sender.
type TransactionSubmission struct {
	SenderID string `json:"sender_id" validate:"required"`
	Receiver string `json:"receiver" validate:"required"`
	Amount   string `json:"amount" validate:"required"`
}

// SubmissionEvent describes the classified outcome of one submission attempt.
type SubmissionEvent struct {
	TraceID     string    `json:"trace_id"`
	SenderID    string    `json:"sender_id"`
	Receiver    string    `json:"receiver"`
	Amount      string    `json:"amount"`
	Outcome     string    `json:"outcome"`
	StatusCode  int       `json:"status_code,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}
