package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/compozy/standup-digest/engine/core"
	"github.com/compozy/standup-digest/engine/llm"
	"github.com/compozy/standup-digest/engine/publish"
	"github.com/compozy/standup-digest/engine/report"
	"github.com/compozy/standup-digest/engine/source"
	"github.com/compozy/standup-digest/engine/summarize"
	"github.com/compozy/standup-digest/pkg/config"
	"github.com/compozy/standup-digest/pkg/logger"
)

var (
	// ErrNoContent is returned when the requested window holds no standup
	// messages or issue activity across all configured sources.
	ErrNoContent = errors.New("orchestrator: no content found in the requested window")
	// ErrInvalidRequest marks request validation failures so the transport
	// layer can map them to a client error.
	ErrInvalidRequest = errors.New("orchestrator: invalid request")
)

// Request describes one report generation run. Zero-valued provider fields
// fall back to the configured defaults.
type Request struct {
	ProjectName string
	From        time.Time
	To          time.Time
	Provider    string
	Model       string
	Temperature *float64
	Mode        summarize.Strategy
	OutputName  string
}

// Response carries the parsed report and the run facts a caller may want to
// surface or log.
type Response struct {
	Report       *report.Report     `json:"report"`
	ShapeVersion string             `json:"shapeVersion"`
	ProjectName  string             `json:"projectName"`
	From         time.Time          `json:"from"`
	To           time.Time          `json:"to"`
	GeneratedAt  time.Time          `json:"generatedAt"`
	Strategy     summarize.Strategy `json:"strategy"`
	SourceTokens int                `json:"sourceTokens"`
	DocumentURL  string             `json:"documentUrl,omitempty"`
}

// Orchestrator runs the full report flow: gather, count, select, summarize,
// parse, publish. Every run is independent; the orchestrator holds no
// per-run state.
type Orchestrator struct {
	cfg       *config.Config
	factory   llm.Factory
	sources   []source.Source
	publisher publish.Publisher
	metrics   *summarize.Metrics
}

// New wires an orchestrator. publisher may be nil, in which case reports are
// returned without being published. metrics may be nil.
func New(
	cfg *config.Config,
	factory llm.Factory,
	sources []source.Source,
	publisher publish.Publisher,
	metrics *summarize.Metrics,
) (*Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if factory == nil {
		return nil, fmt.Errorf("llm factory must not be nil")
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("at least one source is required")
	}
	if metrics == nil {
		metrics = summarize.NopMetrics()
	}
	return &Orchestrator{
		cfg:       cfg,
		factory:   factory,
		sources:   sources,
		publisher: publisher,
		metrics:   metrics,
	}, nil
}

// GenerateReport runs one end-to-end report. A failure at any stage fails the
// whole run; there is no partial result.
func (o *Orchestrator) GenerateReport(ctx context.Context, req *Request) (*Response, error) {
	log := logger.FromContext(ctx)
	if err := o.validateRequest(req); err != nil {
		return nil, err
	}
	providerCfg := o.resolveProvider(req)
	if err := providerCfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	docs, err := o.gather(ctx, req)
	if err != nil {
		return nil, err
	}

	counter, err := summarize.NewTiktokenCounter(providerCfg.Model)
	if err != nil {
		return nil, err
	}
	totalTokens, err := counter.CountDocuments(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to count source tokens: %w", err)
	}
	strategy := summarize.Select(req.Mode, totalTokens, o.cfg.Summarize.StuffThreshold)
	log.Info("generating report",
		"project", req.ProjectName,
		"strategy", strategy,
		"source_tokens", totalTokens,
		"documents", len(docs),
	)

	client, err := o.factory.CreateClient(ctx, providerCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	raw, err := o.summarize(ctx, client, counter, providerCfg.Model, strategy, docs)
	if err != nil {
		return nil, err
	}
	parsed, err := report.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse final summary: %w", err)
	}

	resp := &Response{
		Report:       parsed,
		ShapeVersion: report.ShapeVersion,
		ProjectName:  req.ProjectName,
		From:         req.From,
		To:           req.To,
		GeneratedAt:  time.Now().UTC(),
		Strategy:     strategy,
		SourceTokens: totalTokens,
	}
	if o.publisher != nil {
		url, err := o.publishReport(ctx, req, parsed)
		if err != nil {
			return nil, err
		}
		resp.DocumentURL = url
	}
	return resp, nil
}

func (o *Orchestrator) validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request must not be nil", ErrInvalidRequest)
	}
	if req.ProjectName == "" {
		return fmt.Errorf("%w: project name is required", ErrInvalidRequest)
	}
	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: both from and to are required", ErrInvalidRequest)
	}
	if !req.From.Before(req.To) {
		return fmt.Errorf("%w: from must be before to", ErrInvalidRequest)
	}
	if req.Mode == "" {
		req.Mode = summarize.StrategyAuto
	}
	if err := req.Mode.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}
	return nil
}

func (o *Orchestrator) resolveProvider(req *Request) *core.ProviderConfig {
	providerName := o.cfg.LLM.Provider
	if req.Provider != "" {
		providerName = req.Provider
	}
	model := o.cfg.LLM.Model
	if req.Model != "" {
		model = req.Model
	}
	providerCfg := core.NewProviderConfig(core.ProviderName(providerName), model, o.cfg.LLM.APIKey)
	providerCfg.APIURL = o.cfg.LLM.APIURL
	providerCfg.Temperature = o.cfg.LLM.Temperature
	if req.Temperature != nil {
		providerCfg.Temperature = *req.Temperature
	}
	return providerCfg
}

func (o *Orchestrator) gather(ctx context.Context, req *Request) ([]core.Document, error) {
	log := logger.FromContext(ctx)
	query := source.Query{From: req.From, To: req.To}
	var docs []core.Document
	for _, src := range o.sources {
		fetched, err := src.Fetch(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch from %s: %w", src.Name(), err)
		}
		log.Debug("fetched source documents", "source", src.Name(), "documents", len(fetched))
		docs = append(docs, fetched...)
	}
	if len(docs) == 0 {
		return nil, ErrNoContent
	}
	return docs, nil
}

func (o *Orchestrator) summarize(
	ctx context.Context,
	client llm.Client,
	counter summarize.TokenCounter,
	model string,
	strategy summarize.Strategy,
	docs []core.Document,
) (string, error) {
	if strategy == summarize.StrategyStuff {
		return summarize.NewStuffSummarizer(client, o.metrics).Summarize(ctx, docs)
	}
	opts := summarize.Options{
		ChunkSize:         o.cfg.Summarize.ChunkSize,
		ChunkOverlap:      o.cfg.Summarize.ChunkOverlap,
		MaxTokens:         o.cfg.Summarize.MaxTokens,
		StuffThreshold:    o.cfg.Summarize.StuffThreshold,
		MaxCollapseRounds: o.cfg.Summarize.MaxCollapseRounds,
		Concurrency:       o.cfg.Summarize.Concurrency,
	}
	mr, err := summarize.NewMapReduceSummarizer(client, counter, summarize.NewSplitter(model), opts, o.metrics)
	if err != nil {
		return "", err
	}
	return mr.Summarize(ctx, docs)
}

func (o *Orchestrator) publishReport(ctx context.Context, req *Request, rep *report.Report) (string, error) {
	name := req.OutputName
	if name == "" {
		name = fmt.Sprintf("%s-%s", req.ProjectName, req.To.Format("2006-01-02"))
	}
	result, err := o.publisher.Publish(ctx, rep.Replacements(), name)
	if err != nil {
		return "", fmt.Errorf("failed to publish report: %w", err)
	}
	logger.FromContext(ctx).Info("published report", "name", name, "url", result.URL)
	return result.URL, nil
}
