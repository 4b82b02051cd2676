package generativeAI

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, model, contents, config)
	resp, _ := args.Get(0).(*genai.GenerateContentResponse)
	return resp, args.Error(1)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(text, genai.RoleModel),
		}},
	}
}

func newTestClient(g Generator, opts Options) *Client {
	return NewClient(g, opts, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

func TestClientSendDiscovery(t *testing.T) {
	gen := new(MockGenerator)
	client := newTestClient(gen, Options{Model: "gemini-test"})

	schema := &genai.Schema{Type: genai.TypeArray}
	spec := RequestSpec{Kind: KindDiscovery, Prompt: "find gems", Schema: schema, Temperature: genai.Ptr[float32](0.4)}

	gen.On("GenerateContent", mock.Anything, "gemini-test",
		mock.MatchedBy(func(c []*genai.Content) bool {
			return len(c) == 1 && c[0].Role == string(genai.RoleUser) && c[0].Parts[0].Text == "find gems"
		}),
		mock.MatchedBy(func(cfg *genai.GenerateContentConfig) bool {
			return cfg.ResponseMIMEType == "application/json" && cfg.ResponseSchema == schema && *cfg.Temperature == 0.4
		}),
	).Return(textResponse("["+validItem+"]"), nil).Once()

	payload, err := client.Send(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, 4.5, payload.Items[0].Rating)
	gen.AssertExpectations(t)
}

func TestClientSendChat(t *testing.T) {
	gen := new(MockGenerator)
	client := newTestClient(gen, Options{Model: "gemini-test"})

	spec := RequestSpec{
		Kind:              KindChat,
		Model:             "override",
		SystemInstruction: "You are Arjun",
		Turns:             []Turn{{Role: genai.RoleModel, Text: "Namaste"}},
		Prompt:            "Tell me about Hampi",
	}

	gen.On("GenerateContent", mock.Anything, "override",
		mock.MatchedBy(func(c []*genai.Content) bool {
			return len(c) == 2 && c[0].Role == string(genai.RoleModel) && c[1].Parts[0].Text == "Tell me about Hampi"
		}),
		mock.MatchedBy(func(cfg *genai.GenerateContentConfig) bool {
			return cfg.SystemInstruction != nil && cfg.SystemInstruction.Parts[0].Text == "You are Arjun" && cfg.ResponseSchema == nil
		}),
	).Return(textResponse("Hampi was the capital of Vijayanagara."), nil).Once()

	payload, err := client.Send(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, "Hampi was the capital of Vijayanagara.", payload.Text)
	gen.AssertExpectations(t)
}

func TestClientSendErrors(t *testing.T) {
	t.Run("Transport failure is a network error", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("connection reset")).Once()

		_, err := newTestClient(gen, Options{}).Send(context.Background(), RequestSpec{Kind: KindChat, Prompt: "hi"})
		var se *ServiceError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, ErrNetwork, se.Kind)
		assert.Equal(t, KindChat, se.Request)
	})

	t.Run("Timeout is a network error", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				<-args.Get(0).(context.Context).Done()
			}).
			Return(nil, context.DeadlineExceeded).Once()

		_, err := newTestClient(gen, Options{Timeout: 10 * time.Millisecond}).
			Send(context.Background(), RequestSpec{Kind: KindDiscovery, Prompt: "p"})
		assert.Equal(t, ErrNetwork, KindOf(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Nil response is unknown", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Once()

		_, err := newTestClient(gen, Options{}).Send(context.Background(), RequestSpec{Kind: KindChat, Prompt: "p"})
		assert.Equal(t, ErrUnknown, KindOf(err))
	})

	t.Run("Panic is recovered as unknown", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { panic("boom") }).Return(nil, nil).Once()

		payload, err := newTestClient(gen, Options{}).Send(context.Background(), RequestSpec{Kind: KindChat, Prompt: "p"})
		assert.Nil(t, payload)
		assert.Equal(t, ErrUnknown, KindOf(err))
	})

	t.Run("Empty chat reply is a schema error", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&genai.GenerateContentResponse{}, nil).Once()

		_, err := newTestClient(gen, Options{}).Send(context.Background(), RequestSpec{Kind: KindChat, Prompt: "p"})
		assert.Equal(t, ErrSchema, KindOf(err))
	})

	t.Run("Exactly one call, no retry", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(textResponse("not json"), nil).Once()

		_, err := newTestClient(gen, Options{}).Send(context.Background(), RequestSpec{Kind: KindDiscovery, Prompt: "p"})
		assert.Equal(t, ErrParse, KindOf(err))
		gen.AssertNumberOfCalls(t, "GenerateContent", 1)
	})
}
