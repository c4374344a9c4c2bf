package openreview

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api2.openreview.net"

// reviewContentFields is the allow-list of content fields copied into a
// Review. Anything else in a reply's content is dropped.
var reviewContentFields = []string{
	"review",
	"comment",
	"summary",
	"decision",
	"weaknesses",
	"questions",
	"questions_and_comments",
	"reason",
	"evaluation",
	"remarks",
}

// Review is one reply on a paper's forum thread, reduced to the fields
// the prompt composer cares about.
type Review struct {
	ID        string            `json:"id"`
	Category  string            `json:"category"`
	CreatedAt string            `json:"created_at"`
	Content   map[string]string `json:"content"`
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// DeriveForumID extracts the forum id from a thread identifier. Callers
// commonly paste the full forum URL, so everything after the last "id="
// is taken; a bare id passes through unchanged.
func DeriveForumID(threadID string) string {
	if idx := strings.LastIndex(threadID, "id="); idx >= 0 {
		return threadID[idx+len("id="):]
	}
	return threadID
}

type notesResponse struct {
	Notes []struct {
		ID      string `json:"id"`
		Details struct {
			Replies []replyNote `json:"replies"`
		} `json:"details"`
	} `json:"notes"`
}

type replyNote struct {
	ID          string                     `json:"id"`
	Invitation  string                     `json:"invitation"`
	Invitations []string                   `json:"invitations"`
	Cdate       *int64                     `json:"cdate"`
	Content     map[string]json.RawMessage `json:"content"`
}

// FetchReplies loads the submission note for a forum id together with
// all of its replies and maps each reply into a Review.
func (c *Client) FetchReplies(ctx context.Context, forumID string) ([]Review, error) {
	endpoint := fmt.Sprintf("%s/notes?id=%s&details=replies", c.BaseURL, url.QueryEscape(forumID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openreview request failed for forum %s: %w", forumID, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openreview returned %d for forum %s: %s", res.StatusCode, forumID, string(body))
	}

	var parsed notesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode openreview response: %w", err)
	}
	if len(parsed.Notes) == 0 {
		return nil, fmt.Errorf("no submission note found for forum %s", forumID)
	}

	replies := parsed.Notes[0].Details.Replies
	reviews := make([]Review, 0, len(replies))
	for _, reply := range replies {
		reviews = append(reviews, mapReply(reply))
	}
	return reviews, nil
}

func mapReply(reply replyNote) Review {
	review := Review{
		ID:        reply.ID,
		Category:  replyCategory(reply),
		CreatedAt: "Not available",
		Content:   map[string]string{},
	}
	if reply.Cdate != nil {
		review.CreatedAt = time.UnixMilli(*reply.Cdate).UTC().Format(time.ANSIC)
	}

	for _, field := range reviewContentFields {
		raw, ok := reply.Content[field]
		if !ok {
			continue
		}
		if value, ok := decodeContentValue(raw); ok {
			review.Content[field] = value
		}
	}
	return review
}

func replyCategory(reply replyNote) string {
	if len(reply.Invitations) > 0 {
		return reply.Invitations[0]
	}
	return reply.Invitation
}

// decodeContentValue unwraps the API's {"value": ...} envelope. Values
// are either a string or a list of strings; lists are joined with ", ".
func decodeContentValue(raw json.RawMessage) (string, bool) {
	var envelope struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Value) == 0 {
		return "", false
	}
	if string(envelope.Value) == "null" {
		return "", false
	}

	var s string
	if err := json.Unmarshal(envelope.Value, &s); err == nil {
		return s, true
	}

	var list []string
	if err := json.Unmarshal(envelope.Value, &list); err == nil {
		return strings.Join(list, ", "), true
	}

	return "", false
}
