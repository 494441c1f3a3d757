package notion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jomei/notionapi"
	"golang.org/x/time/rate"

	"github.com/vezlo/src-to-kb/internal/core/domain"
	"github.com/vezlo/src-to-kb/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.FileSource = (*Connector)(nil)

const (
	// requestsPerSecond is the documented Notion API rate limit.
	requestsPerSecond = 3

	// pageSize is the block children page size (API maximum).
	pageSize = 100

	// requestTimeout bounds a single API call.
	requestTimeout = 30 * time.Second
)

// Connector streams pages from a Notion page tree.
type Connector struct {
	pageID string
	token  string

	client  *notionapi.Client
	limiter *rate.Limiter
}

// New creates a Notion connector rooted at pageID. The ID may be the
// dashed UUID form or the 32-character form copied from a page URL.
func New(pageID, token string) *Connector {
	return &Connector{
		pageID: NormalizePageID(pageID),
		token:  token,
		client: notionapi.NewClient(
			notionapi.Token(token),
			notionapi.WithHTTPClient(&http.Client{Timeout: requestTimeout}),
		),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// NormalizePageID converts the 32-character hex form to the dashed UUID
// form the API expects. Anything else passes through unchanged.
func NormalizePageID(id string) string {
	clean := strings.ToLower(strings.TrimSpace(id))
	if len(clean) != 32 {
		return id
	}
	for _, r := range clean {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return id
		}
	}
	return clean[:8] + "-" + clean[8:12] + "-" + clean[12:16] + "-" + clean[16:20] + "-" + clean[20:]
}

// Type returns the source type identifier.
func (c *Connector) Type() domain.SourceType {
	return domain.SourceTypeNotion
}

// ID returns the source identity.
func (c *Connector) ID() string {
	return "notion:" + c.pageID
}

// Capabilities returns what this source supports.
func (c *Connector) Capabilities() domain.SourceCapabilities {
	return domain.SourceCapabilities{
		SupportsWatch: false,
	}
}

// Validate checks the token is set and the root page is reachable.
func (c *Connector) Validate(ctx context.Context) error {
	if c.token == "" {
		return domain.NewConfigError("notion.token", "not set")
	}
	if _, err := c.rootPage(ctx); err != nil {
		return err
	}
	return nil
}

// Scan walks the page tree and streams one file per non-empty page.
// The files channel closes when the walk completes; per-page failures
// arrive on the error channel without stopping the walk.
func (c *Connector) Scan(ctx context.Context) (<-chan domain.SourceFile, <-chan error) {
	files := make(chan domain.SourceFile)
	errs := make(chan error, 1)

	go func() {
		defer close(files)
		defer close(errs)

		page, err := c.rootPage(ctx)
		if err != nil {
			errs <- err
			return
		}

		title := pageTitle(page)
		if title == "" {
			title = "untitled"
		}

		c.walkPage(ctx, notionapi.BlockID(c.pageID), sanitizeTitle(title), files, errs)
	}()

	return files, errs
}

// Watch is not supported; the Notion API has no change feed.
func (c *Connector) Watch(_ context.Context) (<-chan driven.FileChange, error) {
	return nil, domain.ErrWatchUnsupported
}

// Close releases resources. The API client holds none.
func (c *Connector) Close() error {
	return nil
}

// walkPage renders one page into a file and recurses into child pages.
func (c *Connector) walkPage(
	ctx context.Context, blockID notionapi.BlockID, path string,
	files chan<- domain.SourceFile, errs chan<- error,
) {
	blocks, err := c.blockChildren(ctx, blockID)
	if err != nil {
		c.reportErr(ctx, errs, fmt.Errorf("walking page %s: %w", path, err))
		return
	}

	type childPage struct {
		id    notionapi.BlockID
		title string
	}

	var sb strings.Builder
	var children []childPage

	for _, block := range blocks {
		if ctx.Err() != nil {
			return
		}

		if child, ok := block.(*notionapi.ChildPageBlock); ok {
			children = append(children, childPage{
				id:    child.GetID(),
				title: child.ChildPage.Title,
			})
			continue
		}

		text, err := c.renderBlock(ctx, block, 0)
		if err != nil {
			c.reportErr(ctx, errs, fmt.Errorf("rendering block in %s: %w", path, err))
			continue
		}
		if text != "" {
			sb.WriteString(text)
			sb.WriteString("\n")
		}
	}

	content := sb.String()
	if strings.TrimSpace(content) != "" {
		file := domain.SourceFile{
			RelativePath: path,
			Content:      content,
			Size:         int64(len(content)),
			Type:         domain.DocumentTypeDocument,
		}
		select {
		case files <- file:
		case <-ctx.Done():
			return
		}
	}

	for _, child := range children {
		if ctx.Err() != nil {
			return
		}
		c.walkPage(ctx, child.id, path+"/"+sanitizeTitle(child.title), files, errs)
	}
}

// renderBlock flattens one block (and its nested children) to text.
// Unsupported block types render as nothing.
func (c *Connector) renderBlock(ctx context.Context, block notionapi.Block, depth int) (string, error) {
	var text string

	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		text = richText(b.Paragraph.RichText)
	case *notionapi.Heading1Block:
		text = "# " + richText(b.Heading1.RichText)
	case *notionapi.Heading2Block:
		text = "## " + richText(b.Heading2.RichText)
	case *notionapi.Heading3Block:
		text = "### " + richText(b.Heading3.RichText)
	case *notionapi.CodeBlock:
		text = "```" + b.Code.Language + "\n" + richText(b.Code.RichText) + "\n```"
	case *notionapi.BulletedListItemBlock:
		text = "- " + richText(b.BulletedListItem.RichText)
	case *notionapi.NumberedListItemBlock:
		text = "- " + richText(b.NumberedListItem.RichText)
	case *notionapi.ToDoBlock:
		marker := "- [ ] "
		if b.ToDo.Checked {
			marker = "- [x] "
		}
		text = marker + richText(b.ToDo.RichText)
	case *notionapi.QuoteBlock:
		text = "> " + richText(b.Quote.RichText)
	case *notionapi.CalloutBlock:
		text = "> " + richText(b.Callout.RichText)
	default:
		return "", nil
	}

	if text != "" && depth > 0 {
		text = strings.Repeat("  ", depth) + text
	}

	// Child pages are intercepted by walkPage before rendering, so any
	// remaining children are nested content blocks.
	if block.GetHasChildren() {
		nested, err := c.blockChildren(ctx, block.GetID())
		if err != nil {
			return text, err
		}
		for _, child := range nested {
			childText, err := c.renderBlock(ctx, child, depth+1)
			if err != nil {
				return text, err
			}
			if childText != "" {
				text += "\n" + childText
			}
		}
	}

	return text, nil
}

// blockChildren fetches all children of a block across pagination.
func (c *Connector) blockChildren(ctx context.Context, id notionapi.BlockID) ([]notionapi.Block, error) {
	var all []notionapi.Block
	cursor := notionapi.Cursor("")

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.client.Block.GetChildren(ctx, id, &notionapi.Pagination{
			StartCursor: cursor,
			PageSize:    pageSize,
		})
		if err != nil {
			return nil, mapAPIError(err, "get block children")
		}

		all = append(all, resp.Results...)
		if !resp.HasMore {
			break
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}

	return all, nil
}

// rootPage fetches the root page metadata.
func (c *Connector) rootPage(ctx context.Context) (*notionapi.Page, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	page, err := c.client.Page.Get(ctx, notionapi.PageID(c.pageID))
	if err != nil {
		return nil, mapAPIError(err, fmt.Sprintf("get page %s", c.pageID))
	}
	return page, nil
}

// reportErr delivers a per-page error unless the scan was cancelled.
func (c *Connector) reportErr(ctx context.Context, errs chan<- error, err error) {
	select {
	case errs <- err:
	case <-ctx.Done():
	}
}

// mapAPIError translates notionapi errors to domain error types.
func mapAPIError(err error, operation string) error {
	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) && (apiErr.Status == 401 || apiErr.Status == 403) {
		return &domain.AuthError{Status: apiErr.Status}
	}
	return fmt.Errorf("%s: %w", operation, err)
}

// pageTitle extracts the title property from a page.
func pageTitle(page *notionapi.Page) string {
	for _, prop := range page.Properties {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			return richText(title.Title)
		}
	}
	return ""
}

// richText concatenates the plain text of rich text parts.
func richText(parts []notionapi.RichText) string {
	var sb strings.Builder
	for _, part := range parts {
		sb.WriteString(part.PlainText)
	}
	return sb.String()
}

// sanitizeTitle makes a page title safe to use as a path segment.
func sanitizeTitle(title string) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "/", "-"))
	if clean == "" {
		return "untitled"
	}
	return clean
}
