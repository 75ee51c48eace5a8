// Package cli is a line-oriented terminal front end for posting notes.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"geonotes/internal/model"
	"geonotes/internal/service"
	"geonotes/pkg/coords"
	"geonotes/pkg/logger"
	"geonotes/pkg/pagination"

	"github.com/google/uuid"
)

type PostService interface {
	CreatePost(ctx context.Context, req service.CreatePostRequest) (model.Post, error)
	GetPosts(ctx context.Context, in pagination.PageRequest) (pagination.Page[model.Post], error)
	ClearPosts(ctx context.Context) error
	Listen(ctx context.Context) (<-chan model.Post, error)
}

type Locator interface {
	Locate(ctx context.Context) (coords.Coordinate, error)
}

type state int

const (
	stateIdle state = iota
	stateLocating
	stateAwaitingCoordinates
)

type lookupResult struct {
	seq uint64
	pos coords.Coordinate
	err error
}

// Client reads post text from in and writes the timeline to out. Field
// values below the blank line are owned by the Run loop.
type Client struct {
	posts    PostService
	locator  Locator
	in       io.Reader
	out      io.Writer
	pageSize int

	feed       <-chan model.Post
	state      state
	seq        uint64
	pending    string
	pendingCtx context.Context
	cancel     context.CancelFunc
	nextPage   *string
}

func NewClient(posts PostService, locator Locator, in io.Reader, out io.Writer, pageSize int) *Client {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Client{
		posts:    posts,
		locator:  locator,
		in:       in,
		out:      out,
		pageSize: pageSize,
	}
}

// Run processes input until ctx is done, /quit is entered or input ends. A
// lookup still running when input ends is waited for.
func (c *Client) Run(ctx context.Context) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	feed, err := c.posts.Listen(ctx)
	if err != nil {
		return fmt.Errorf("listen for posts: %w", err)
	}
	c.feed = feed
	c.pendingCtx = ctx

	lines := make(chan string)
	readErr := make(chan error, 1)
	go c.readLines(ctx, lines, readErr)

	results := make(chan lookupResult)

	c.prompt()
	for {
		select {
		case <-ctx.Done():
			c.drain(feed)
			return nil

		case line, ok := <-lines:
			if !ok {
				lines = nil
				if err := <-readErr; err != nil {
					return fmt.Errorf("reading input: %w", err)
				}
				break
			}
			if quit := c.handleLine(ctx, line, results); quit {
				c.drain(feed)
				return nil
			}

		case r := <-results:
			c.handleLookup(r)

		case p, ok := <-feed:
			if !ok {
				return nil
			}
			toPostView(p).Render(c.out)
		}

		if lines == nil && c.state != stateLocating {
			c.drain(feed)
			return nil
		}
	}
}

func (c *Client) readLines(ctx context.Context, lines chan<- string, readErr chan<- error) {
	defer close(lines)

	sc := bufio.NewScanner(c.in)
	for sc.Scan() {
		select {
		case lines <- sc.Text():
		case <-ctx.Done():
			readErr <- nil
			return
		}
	}
	readErr <- sc.Err()
}

func (c *Client) handleLine(ctx context.Context, line string, results chan<- lookupResult) bool {
	line = strings.TrimSpace(line)

	if strings.HasPrefix(line, "/") {
		return c.handleCommand(ctx, line)
	}

	switch c.state {
	case stateAwaitingCoordinates:
		c.submitManual(line)
	default:
		if line != "" {
			c.submitText(ctx, line, results)
		}
	}
	c.prompt()
	return false
}

func (c *Client) handleCommand(ctx context.Context, cmd string) bool {
	switch cmd {
	case "/quit":
		c.reset()
		return true

	case "/cancel":
		if c.state == stateIdle {
			fmt.Fprintln(c.out, "nothing to cancel")
		} else {
			c.reset()
			fmt.Fprintln(c.out, "post discarded")
		}

	case "/list":
		c.list(ctx, nil)

	case "/more":
		if c.nextPage == nil {
			fmt.Fprintln(c.out, "no more posts")
		} else {
			c.list(ctx, c.nextPage)
		}

	case "/clear":
		if err := c.posts.ClearPosts(ctx); err != nil {
			c.fail(ctx, err)
		} else {
			c.nextPage = nil
			fmt.Fprintln(c.out, "timeline cleared")
		}

	default:
		fmt.Fprintf(c.out, "unknown command %q\n", cmd)
	}
	c.prompt()
	return false
}

// submitText starts a lookup for a new post and supersedes any pending one.
func (c *Client) submitText(ctx context.Context, text string, results chan<- lookupResult) {
	content, err := service.ValidateContent(text)
	if err != nil {
		c.fail(ctx, err)
		return
	}

	if c.state == stateLocating {
		logger.FromContext(c.pendingCtx).Info("lookup superseded", "seq", c.seq)
	}
	c.reset()

	c.seq++
	c.pending = content
	c.pendingCtx = logger.With(ctx, "request_id", uuid.NewString())
	c.state = stateLocating

	lookupCtx, cancel := context.WithCancel(c.pendingCtx)
	c.cancel = cancel

	seq := c.seq
	logger.FromContext(lookupCtx).Debug("locating", "seq", seq)
	fmt.Fprintln(c.out, "locating...")

	go func() {
		pos, err := c.locator.Locate(lookupCtx)
		select {
		case results <- lookupResult{seq: seq, pos: pos, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (c *Client) handleLookup(r lookupResult) {
	if c.state != stateLocating || r.seq != c.seq {
		logger.FromContext(c.pendingCtx).Debug("stale lookup discarded", "seq", r.seq, "current", c.seq)
		return
	}
	ctx := c.pendingCtx
	c.cancel()

	if r.err != nil {
		logger.FromContext(ctx).Warn("geolocation failed", "error", r.err)
		c.state = stateAwaitingCoordinates
		fmt.Fprintf(c.out, "could not determine your location: %v\n", r.err)
		fmt.Fprintln(c.out, `enter coordinates as "latitude, longitude" or /cancel`)
		c.prompt()
		return
	}

	c.create(ctx, r.pos)
	c.prompt()
}

func (c *Client) submitManual(line string) {
	pos, err := coords.Parse(line)
	if err != nil {
		logger.FromContext(c.pendingCtx).Debug("manual coordinates rejected", "kind", coords.KindOf(err).String())
		fmt.Fprintf(c.out, "error: %v\n", err)
		return
	}
	c.create(c.pendingCtx, pos)
}

func (c *Client) create(ctx context.Context, pos coords.Coordinate) {
	p, err := c.posts.CreatePost(ctx, service.CreatePostRequest{
		Content:     c.pending,
		Coordinates: pos,
		Kind:        model.KindText,
	})
	c.reset()
	if err != nil {
		c.fail(ctx, err)
		return
	}
	logger.FromContext(ctx).Info("post created", "post_id", p.ID, "position", coords.Format(pos))
	c.drain(c.feed)
}

func (c *Client) list(ctx context.Context, after *string) {
	page, err := c.posts.GetPosts(ctx, pagination.PageRequest{Limit: c.pageSize, AfterCursor: after})
	if err != nil {
		c.fail(ctx, err)
		return
	}
	if page.Count == 0 {
		fmt.Fprintln(c.out, "no posts yet")
	}
	for _, p := range page.Items {
		toPostView(p).Render(c.out)
	}

	c.nextPage = nil
	if page.HasNextPage {
		c.nextPage = page.EndCursor
		fmt.Fprintln(c.out, "/more for older posts")
	}
}

func (c *Client) fail(ctx context.Context, err error) {
	var ce *service.ContentError
	switch {
	case errors.As(err, &ce):
		for _, p := range ce.Problems {
			fmt.Fprintf(c.out, "error: %s\n", p)
		}
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrEmptyContent):
		fmt.Fprintf(c.out, "error: %v\n", err)
	default:
		logger.FromContext(ctx).Error("request failed", "error", err)
		fmt.Fprintln(c.out, "error: something went wrong")
	}
}

func (c *Client) reset() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = stateIdle
	c.pending = ""
}

func (c *Client) prompt() {
	switch c.state {
	case stateAwaitingCoordinates:
		fmt.Fprint(c.out, "coordinates> ")
	case stateIdle:
		fmt.Fprint(c.out, "> ")
	}
}

// drain renders posts already published but not yet read.
func (c *Client) drain(feed <-chan model.Post) {
	for {
		select {
		case p, ok := <-feed:
			if !ok {
				return
			}
			toPostView(p).Render(c.out)
		default:
			return
		}
	}
}
