package narrative

import (
	"context"
	"errors"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/weaveai/weaveai-backend/pkg/config"
	pkgerrors "github.com/weaveai/weaveai-backend/pkg/errors"
	"github.com/weaveai/weaveai-backend/pkg/logger"
)

// Service streams LLM-written reports. Output is raw text chunks in arrival
// order; splitting thinking from report via the protocol markers is the
// consumer's job.
type Service interface {
	MarketInsight(ctx context.Context, profile MarketProfile, out io.Writer) error
	ActionPlan(ctx context.Context, input ActionPlanInput, out io.Writer) error
	ReviewSummary(ctx context.Context, input ReviewSummaryInput, out io.Writer) error
}

// chatStreamer is the slice of the OpenAI-compatible client the service needs.
type chatStreamer interface {
	CreateChatCompletionStream(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionStream, error)
}

type service struct {
	client chatStreamer
	model  string
	logg   *logger.Logger
}

// NewService builds the report generator against the configured Ark endpoint.
// Ark exposes an OpenAI-compatible chat completion surface, so the stock
// client pointed at its base URL is all that is needed.
func NewService(cfg config.ArkConfig, logg *logger.Logger) (Service, error) {
	if !cfg.Enabled() {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ark api key is not configured")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	return &service{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logg:   logg,
	}, nil
}

func (s *service) MarketInsight(ctx context.Context, profile MarketProfile, out io.Writer) error {
	return s.stream(ctx, "market_insight", marketInsightSystemPrompt(profile), marketInsightUserPrompt(profile), out)
}

func (s *service) ActionPlan(ctx context.Context, input ActionPlanInput, out io.Writer) error {
	return s.stream(ctx, "action_plan", actionPlanSystemPrompt(), actionPlanUserPrompt(input), out)
}

func (s *service) ReviewSummary(ctx context.Context, input ReviewSummaryInput, out io.Writer) error {
	return s.stream(ctx, "review_summary", reviewSummarySystemPrompt(), reviewSummaryUserPrompt(input), out)
}

func (s *service) stream(ctx context.Context, report, systemPrompt, userPrompt string, out io.Writer) error {
	stream, err := s.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:  s.model,
		Stream: true,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "opening "+report+" stream")
	}
	defer stream.Close()

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "report", report), "narrative.stream_started")
	}

	chunks := 0
	for {
		resp, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, recvErr, "reading "+report+" stream")
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if _, writeErr := io.WriteString(out, resp.Choices[0].Delta.Content); writeErr != nil {
			// The client went away; stop burning tokens.
			return writeErr
		}
		if flusher, ok := out.(interface{ Flush() }); ok {
			flusher.Flush()
		}
		chunks++
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{"report": report, "chunks": chunks}), "narrative.stream_finished")
	}
	return nil
}
