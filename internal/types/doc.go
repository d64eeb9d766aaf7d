/*
Package types defines records shared between the history store and the
command layer.

HistoryEntry:
  - One analysis request as stored in the local database
  - Kind, text, language and the raw response body
  - Status and error message for failed requests

KindStats:
  - Per-kind request counts, error counts and average duration
*/
package types
