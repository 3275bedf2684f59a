package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/compozy/standup-digest/engine/core"
	"github.com/go-resty/resty/v2"
)

const defaultSlackAPIURL = "https://slack.com/api"

// SlackSource reads standup messages from one Slack channel through the Web
// API, following cursor pagination until the window is exhausted.
type SlackSource struct {
	client  *resty.Client
	channel string
}

// NewSlackSource creates a source for the given channel. apiURL is overridable
// for tests and proxies; an empty value uses the public API.
func NewSlackSource(token, apiURL, channel string) *SlackSource {
	if apiURL == "" {
		apiURL = defaultSlackAPIURL
	}
	client := resty.New().
		SetBaseURL(apiURL).
		SetAuthToken(token)
	return &SlackSource{client: client, channel: channel}
}

// Name implements Source
func (s *SlackSource) Name() string {
	return "slack"
}

type slackMessage struct {
	User string `json:"user"`
	Text string `json:"text"`
	TS   string `json:"ts"`
}

type slackHistoryResponse struct {
	OK               bool           `json:"ok"`
	Error            string         `json:"error"`
	Messages         []slackMessage `json:"messages"`
	ResponseMetadata struct {
		NextCursor string `json:"next_cursor"`
	} `json:"response_metadata"`
}

// Fetch returns one document containing the channel's messages for the
// window, oldest first, tagged with the channel and date range.
func (s *SlackSource) Fetch(ctx context.Context, q Query) ([]core.Document, error) {
	var messages []slackMessage
	cursor := ""
	for {
		params := map[string]string{
			"channel": s.channel,
			"oldest":  strconv.FormatInt(q.From.Unix(), 10),
			"latest":  strconv.FormatInt(q.To.Unix(), 10),
			"limit":   "200",
		}
		if cursor != "" {
			params["cursor"] = cursor
		}
		result := &slackHistoryResponse{}
		resp, err := s.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetResult(result).
			Get("/conversations.history")
		if err != nil {
			return nil, fmt.Errorf("slack conversations.history request failed: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("slack conversations.history returned status %d", resp.StatusCode())
		}
		if !result.OK {
			return nil, fmt.Errorf("slack conversations.history failed: %s", result.Error)
		}
		messages = append(messages, result.Messages...)
		cursor = result.ResponseMetadata.NextCursor
		if cursor == "" {
			break
		}
	}
	if len(messages) == 0 {
		return nil, nil
	}

	// Slack returns newest first; render oldest first for the model.
	lines := make([]string, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", msg.User, text))
	}
	if len(lines) == 0 {
		return nil, nil
	}
	doc := core.NewDocument(strings.Join(lines, "\n"), map[string]string{
		"source":  "slack",
		"channel": s.channel,
		"from":    q.From.Format("2006-01-02"),
		"to":      q.To.Format("2006-01-02"),
	})
	return []core.Document{doc}, nil
}
