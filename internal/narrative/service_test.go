package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaveai/weaveai-backend/pkg/config"
	pkgerrors "github.com/weaveai/weaveai-backend/pkg/errors"
)

// sseServer fakes an OpenAI-compatible streaming endpoint that replays the
// given content pieces as chat completion chunks.
func sseServer(t *testing.T, pieces []string, capture *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			require.NoError(t, decodeJSON(r, capture))
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, piece := range pieces {
			fmt.Fprintf(w,
				"data: {\"id\":\"1\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n",
				piece)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func serviceFor(url string) *service {
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = url + "/v1"
	return &service{client: openai.NewClientWithConfig(cfg), model: "test-model"}
}

func TestMarketInsightStreamsAllChunks(t *testing.T) {
	pieces := []string{"I need to analyse the market.\n", ThinkingEndsMarker + "\n", ReportStartsMarker + "\n", "## 🎯 Market Opportunities\n"}
	var captured openai.ChatCompletionRequest
	server := sseServer(t, pieces, &captured)
	defer server.Close()

	var out bytes.Buffer
	profile := MarketProfile{
		TargetMarket: "Japan",
		SupplyChain:  "leather goods",
		SellerType:   "boutique brand",
		MinPrice:     40,
		MaxPrice:     120,
	}
	err := serviceFor(server.URL).MarketInsight(context.Background(), profile, &out)
	require.NoError(t, err)

	assert.Equal(t, strings.Join(pieces, ""), out.String())
	assert.Contains(t, out.String(), ThinkingEndsMarker)

	require.Len(t, captured.Messages, 2)
	assert.Contains(t, captured.Messages[0].Content, "Japan")
	assert.Contains(t, captured.Messages[0].Content, ThinkingEndsMarker)
	assert.Contains(t, captured.Messages[1].Content, "leather goods")
	assert.Equal(t, "test-model", captured.Model)
}

func TestActionPlanCarriesBothInputs(t *testing.T) {
	var captured openai.ChatCompletionRequest
	server := sseServer(t, []string{"plan"}, &captured)
	defer server.Close()

	var out bytes.Buffer
	input := ActionPlanInput{MarketReport: "the market report body", ValidationSummary: "the validation summary body"}
	require.NoError(t, serviceFor(server.URL).ActionPlan(context.Background(), input, &out))

	assert.Contains(t, captured.Messages[1].Content, "the market report body")
	assert.Contains(t, captured.Messages[1].Content, "the validation summary body")
}

func TestReviewSummaryCarriesBothSamples(t *testing.T) {
	var captured openai.ChatCompletionRequest
	server := sseServer(t, []string{"summary"}, &captured)
	defer server.Close()

	var out bytes.Buffer
	input := ReviewSummaryInput{PositiveReviews: "love it", NegativeReviews: "too small"}
	require.NoError(t, serviceFor(server.URL).ReviewSummary(context.Background(), input, &out))

	assert.Contains(t, captured.Messages[1].Content, "love it")
	assert.Contains(t, captured.Messages[1].Content, "too small")
}

func TestStreamUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"quota exhausted"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	var out bytes.Buffer
	err := serviceFor(server.URL).MarketInsight(context.Background(), MarketProfile{TargetMarket: "US"}, &out)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestNewServiceRequiresAPIKey(t *testing.T) {
	_, err := NewService(config.ArkConfig{}, nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}
