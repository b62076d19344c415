package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flowbaker/order-assistant/pkg/clients/tavily"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearchClient struct {
	requests []*tavily.SearchRequest
	response *tavily.SearchResponse
	err      error
}

func (f *fakeSearchClient) Search(ctx context.Context, req *tavily.SearchRequest) (*tavily.SearchResponse, error) {
	f.requests = append(f.requests, req)
	return f.response, f.err
}

func TestSearcher_Search(t *testing.T) {
	providerErr := errors.New("connection refused")
	rateLimited := &tavily.Error{StatusCode: http.StatusTooManyRequests, Message: "rate limit exceeded"}

	tests := []struct {
		name      string
		apiKey    string
		response  *tavily.SearchResponse
		err       error
		want      string
		wantErr   error
		wantCalls int
	}{
		{
			name:      "missing api key skips the provider",
			apiKey:    "",
			want:      MissingAPIKeyMessage,
			wantCalls: 0,
		},
		{
			name:   "returns results",
			apiKey: "tvly-test",
			response: &tavily.SearchResponse{Results: []tavily.Result{
				{Title: "Go", URL: "https://go.dev", Content: "The Go language", Score: 0.9},
			}},
			want:      `[{"title":"Go","url":"https://go.dev","content":"The Go language","score":0.9}]`,
			wantCalls: 1,
		},
		{
			name:      "no results",
			apiKey:    "tvly-test",
			response:  &tavily.SearchResponse{},
			want:      `[]`,
			wantCalls: 1,
		},
		{
			name:      "provider error propagates",
			apiKey:    "tvly-test",
			err:       providerErr,
			wantErr:   providerErr,
			wantCalls: 1,
		},
		{
			name:      "tavily api error propagates",
			apiKey:    "tvly-test",
			err:       rateLimited,
			wantErr:   rateLimited,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeSearchClient{response: tt.response, err: tt.err}
			searcher := NewSearcher(Dependencies{Client: client, APIKey: tt.apiKey})

			got, err := searcher.Search(context.Background(), "golang")

			assert.Len(t, client.requests, tt.wantCalls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			for _, req := range client.requests {
				assert.Equal(t, "golang", req.Query)
				assert.Equal(t, MaxResults, req.MaxResults)
			}
		})
	}
}

func TestNewTool_AgainstTavilyServer(t *testing.T) {
	var received tavily.SearchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":"weather","results":[
			{"title":"a","url":"https://a.example","content":"A","score":0.5},
			{"title":"b","url":"https://b.example","content":"B","score":0.4},
			{"title":"c","url":"https://c.example","content":"C","score":0.3}
		]}`))
	}))
	defer srv.Close()

	searchTool := NewTool(Dependencies{
		Client: tavily.NewClient(tavily.WithBaseURL(srv.URL), tavily.WithAPIKey("tvly-test")),
		APIKey: "tvly-test",
	})
	assert.Equal(t, ToolName, searchTool.Name())

	got, err := searchTool.Execute(context.Background(), `{"query":"weather"}`)
	require.NoError(t, err)

	assert.Equal(t, "weather", received.Query)
	assert.Equal(t, 3, received.MaxResults)

	var results []tavily.Result
	require.NoError(t, json.Unmarshal([]byte(got), &results))
	assert.Len(t, results, 3)
}
