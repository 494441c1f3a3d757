// Package github implements a file source for a single GitHub repository.
//
// The connector fetches the repository tree at a ref using the recursive
// Trees API, downloads each blob, and streams the decoded files with the
// same language and type detection as the filesystem source.
//
// # Authentication
//
// An optional personal access token (classic or fine-grained, created at
// github.com/settings/tokens) raises the API quota from 60 to 5,000
// requests per hour and grants access to private repositories. Without a
// token only public repositories are reachable.
//
// # Rate Limiting
//
// Requests are throttled two ways:
//
//  1. Proactive: a token bucket caps the request rate so a large tree
//     cannot burn the hourly quota in one scan.
//
//  2. Reactive: X-RateLimit-Remaining and X-RateLimit-Reset headers are
//     tracked after every response. When the remaining quota drops below
//     a reserve, the next request waits for the reset.
//
// # Limitations
//
//   - Binary files are skipped (text content only)
//   - Blobs over 1MB are skipped
//   - Watch mode is not supported (no webhook integration)
package github
