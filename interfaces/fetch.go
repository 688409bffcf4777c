package interfaces

import (
	"context"
	"time"
)

// EmailFetcher runs one ingestion pass over all pollable mailboxes.
type EmailFetcher interface {
	Run(ctx context.Context) RunResult
}

// MailboxReport summarizes one mailbox's share of a run.
type MailboxReport struct {
	MailboxID   string `json:"mailboxId"`
	MailboxName string `json:"mailboxName"`
	Fetched     int    `json:"fetched"`
	Processed   int    `json:"processed"`
	Skipped     int    `json:"skipped"`
	Failed      int    `json:"failed"`
	Error       string `json:"error,omitempty"`
}

// RunResult is the observable outcome of one ingestion run.
type RunResult struct {
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt"`
	Mailboxes  []MailboxReport `json:"mailboxes"`
}

// MailboxFailures counts mailboxes whose run aborted.
func (r RunResult) MailboxFailures() int {
	failures := 0
	for _, m := range r.Mailboxes {
		if m.Error != "" {
			failures++
		}
	}
	return failures
}

// Processed counts messages committed across all mailboxes.
func (r RunResult) Processed() int {
	total := 0
	for _, m := range r.Mailboxes {
		total += m.Processed
	}
	return total
}

// Skipped counts messages flagged seen without a commit.
func (r RunResult) Skipped() int {
	total := 0
	for _, m := range r.Mailboxes {
		total += m.Skipped
	}
	return total
}
