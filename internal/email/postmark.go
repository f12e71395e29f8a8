package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/chorechart/internal/chart"
	"github.com/dukerupert/chorechart/internal/model"
	"github.com/dukerupert/chorechart/internal/schedule"
	"github.com/sethvargo/go-retry"
)

const postmarkURL = "https://api.postmarkapp.com/email"

// ErrNotConfigured is returned when no Postmark server token is set.
var ErrNotConfigured = errors.New("email client not configured: missing server token")

type Client struct {
	serverToken string
	fromEmail   string
	baseURL     string
	httpClient  *http.Client
	retryBase   time.Duration
	maxRetries  uint64
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithRetryBase sets the first backoff interval. Later retries double it.
func WithRetryBase(d time.Duration) Option {
	return func(cl *Client) {
		cl.retryBase = d
	}
}

func NewClient(serverToken, fromEmail, baseURL string, opts ...Option) *Client {
	c := &Client{
		serverToken: serverToken,
		fromEmail:   fromEmail,
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		retryBase:   500 * time.Millisecond,
		maxRetries:  3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the server token is set.
func (c *Client) Configured() bool {
	return c.serverToken != ""
}

type postmarkEmail struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// ChartSnapshot is the read-only view of a chart that goes into an email.
type ChartSnapshot struct {
	ID       string
	Name     string
	Children []ChildChores
}

type ChildChores struct {
	Name   string
	Chores []ChoreLine
}

type ChoreLine struct {
	Name      string
	Frequency string
}

// Snapshot flattens a chart into per-child chore lines.
func Snapshot(c *model.ChoreChart, pool []model.Chore) ChartSnapshot {
	snap := ChartSnapshot{ID: c.ID, Name: c.Name}
	for _, child := range c.Children {
		cc := ChildChores{Name: child.Name}
		for _, ch := range chart.ChoresFor(c, pool, child.ID) {
			cc.Chores = append(cc.Chores, ChoreLine{Name: ch.Name, Frequency: schedule.DescribeFrequency(ch.Schedule)})
		}
		snap.Children = append(snap.Children, cc)
	}
	return snap
}

var chartHTML = template.Must(template.New("chart").Parse(`<h1>{{.Snap.Name}}</h1>
{{range .Snap.Children}}<h2>{{.Name}}</h2>
{{if .Chores}}<ul>
{{range .Chores}}<li>{{.Name}} <em>({{.Frequency}})</em></li>
{{end}}</ul>
{{else}}<p>No chores assigned.</p>
{{end}}{{end}}{{if .Link}}<p><a href="{{.Link}}">Open the chart</a></p>
{{end}}`))

// SendChart emails a chart to one recipient. Server errors and network
// failures are retried with exponential backoff; 4xx responses are not.
func (c *Client) SendChart(ctx context.Context, to, subject string, snap ChartSnapshot) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	if subject == "" {
		subject = fmt.Sprintf("Chore chart: %s", snap.Name)
	}

	var link string
	if c.baseURL != "" && snap.ID != "" {
		link = fmt.Sprintf("%s/charts/%s", c.baseURL, snap.ID)
	}

	var html bytes.Buffer
	if err := chartHTML.Execute(&html, struct {
		Snap ChartSnapshot
		Link string
	}{snap, link}); err != nil {
		return fmt.Errorf("render email: %w", err)
	}

	payload := postmarkEmail{
		From:     c.fromEmail,
		To:       to,
		Subject:  subject,
		HtmlBody: html.String(),
		TextBody: textBody(snap, link),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		return c.post(ctx, body)
	})
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, postmarkURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return retry.RetryableError(fmt.Errorf("send email: %w", err))
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 500:
		return retry.RetryableError(fmt.Errorf("postmark API error: status %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return fmt.Errorf("postmark API error: status %d", resp.StatusCode)
	}
	return nil
}

func textBody(snap ChartSnapshot, link string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", snap.Name)
	for _, child := range snap.Children {
		fmt.Fprintf(&b, "%s\n", child.Name)
		if len(child.Chores) == 0 {
			b.WriteString("  No chores assigned.\n")
		}
		for _, ch := range child.Chores {
			fmt.Fprintf(&b, "  - %s (%s)\n", ch.Name, ch.Frequency)
		}
		b.WriteString("\n")
	}
	if link != "" {
		fmt.Fprintf(&b, "Open the chart: %s\n", link)
	}
	return b.String()
}
