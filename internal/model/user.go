// Package model defines the data structures used throughout the application.
package model

import "time"

// TimestampLayout is ISO-8601 in UTC with millisecond precision,
// e.g. "2024-05-01T09:30:00.000Z".
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// User is one row of the user table.
//
// WHY STRING TIMESTAMPS?
// CreatedAt and UpdatedAt are kept exactly as they appear in the table.
// Parsing them into time.Time and formatting them back would rewrite rows
// produced by other writers, and a read-then-write of the whole table must
// leave the file unchanged.
//
// Password is stored verbatim and never leaves the server in a response.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"-"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
