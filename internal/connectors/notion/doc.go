// Package notion implements a file source for a Notion page tree.
//
// The connector walks a root page and its child pages through the block
// children API, flattens paragraph, heading, code, list, to-do, quote
// and callout blocks to markdown-like text, and streams one file per
// page. Page paths mirror the page hierarchy ("Root/Guides/Setup").
//
// An integration token is required (notion.so/my-integrations); the
// integration must be granted access to the root page. Requests are
// throttled to the documented 3 requests per second.
package notion
