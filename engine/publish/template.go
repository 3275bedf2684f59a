package publish

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// TemplatePublisher creates documents through an HTTP document service that
// fills a stored template with placeholder replacements.
type TemplatePublisher struct {
	client     *resty.Client
	templateID string
}

// NewTemplatePublisher creates a publisher against the given document service.
func NewTemplatePublisher(apiURL, token, templateID string) *TemplatePublisher {
	client := resty.New().
		SetBaseURL(apiURL).
		SetAuthToken(token)
	return &TemplatePublisher{client: client, templateID: templateID}
}

type publishRequest struct {
	TemplateID   string            `json:"template_id"`
	Name         string            `json:"name"`
	Replacements map[string]string `json:"replacements"`
}

// Publish implements Publisher
func (p *TemplatePublisher) Publish(ctx context.Context, replacements map[string]string, outputName string) (*Result, error) {
	result := &Result{}
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(publishRequest{
			TemplateID:   p.templateID,
			Name:         outputName,
			Replacements: replacements,
		}).
		SetResult(result).
		Post("/v1/documents")
	if err != nil {
		return nil, fmt.Errorf("document publish request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("document service returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if result.URL == "" {
		return nil, fmt.Errorf("document service returned no document URL")
	}
	return result, nil
}
