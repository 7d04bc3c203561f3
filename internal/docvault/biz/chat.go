package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/kart-io/logger"

	"github.com/kart-io/docvault/internal/docvault/store"
	"github.com/kart-io/docvault/pkg/errors"
	"github.com/kart-io/docvault/pkg/llm"
)

// contextSystemPrompt grounds the assistant on the retrieved chunks.
const contextSystemPrompt = `You are a helpful AI assistant with access to the user's uploaded documents. Use the following context from their documents to answer their questions accurately and specifically.

CONTEXT FROM USER'S DOCUMENTS:
%s

Instructions:
- Answer based primarily on the provided context when relevant
- If the context doesn't contain relevant information, say so and provide general assistance
- Reference specific documents when appropriate
- Be concise but comprehensive
- If asked about something not in the documents, clarify that your answer is based on general knowledge`

// noContextSystemPrompt is used when retrieval found nothing.
const noContextSystemPrompt = `You are a helpful AI assistant. The user hasn't uploaded any documents yet, so answer based on your general knowledge. Let them know they can upload documents for more specific, contextual answers.`

// ChatConfig configures retrieval-grounded chat.
type ChatConfig struct {
	// ContextLimit is the default number of chunks used as context.
	ContextLimit int
}

// Chat answers user messages grounded on retrieved document chunks.
type Chat struct {
	retriever *Retriever
	provider  llm.ChatProvider
	config    *ChatConfig
}

// NewChat creates the chat service.
func NewChat(retriever *Retriever, provider llm.ChatProvider, config *ChatConfig) *Chat {
	return &Chat{
		retriever: retriever,
		provider:  provider,
		config:    config,
	}
}

// Context retrieves the chunks used to ground an answer. Retrieval
// failures degrade to an empty context.
func (c *Chat) Context(ctx context.Context, ownerID, message string, limit int) []*store.SearchHit {
	if limit <= 0 {
		limit = c.config.ContextLimit
	}
	return c.retriever.RetrieveContext(ctx, ownerID, message, limit)
}

// Answer generates a complete answer for the message grounded on the
// given context chunks.
func (c *Chat) Answer(ctx context.Context, message string, contextHits []*store.SearchHit) (string, error) {
	answer, err := c.provider.Chat(ctx, buildMessages(message, contextHits))
	if err != nil {
		logger.Warnw("chat completion failed",
			"provider", c.provider.Name(),
			"error", err.Error(),
		)
		return "", errors.ErrChatProvider.WithCause(err)
	}
	return answer, nil
}

// AnswerStream generates an answer and delivers content fragments to
// onDelta as they arrive.
func (c *Chat) AnswerStream(ctx context.Context, message string, contextHits []*store.SearchHit, onDelta func(delta string) error) error {
	if err := c.provider.ChatStream(ctx, buildMessages(message, contextHits), onDelta); err != nil {
		logger.Warnw("chat stream failed",
			"provider", c.provider.Name(),
			"error", err.Error(),
		)
		return errors.ErrChatProvider.WithCause(err)
	}
	return nil
}

// Ping checks chat provider reachability.
func (c *Chat) Ping(ctx context.Context) error {
	return c.provider.Ping(ctx)
}

// ProviderName returns the configured chat provider's name.
func (c *Chat) ProviderName() string {
	return c.provider.Name()
}

// buildMessages assembles the system + user messages for one turn.
func buildMessages(message string, contextHits []*store.SearchHit) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: buildSystemPrompt(contextHits)},
		{Role: llm.RoleUser, Content: message},
	}
}

// buildSystemPrompt renders the retrieved chunks into the grounding
// prompt, falling back to the no-documents prompt on empty context.
func buildSystemPrompt(contextHits []*store.SearchHit) string {
	if len(contextHits) == 0 {
		return noContextSystemPrompt
	}

	sections := make([]string, len(contextHits))
	for i, hit := range contextHits {
		sections[i] = fmt.Sprintf("Document: %s\nContent: %s", hit.Filename, hit.Text)
	}

	return fmt.Sprintf(contextSystemPrompt, strings.Join(sections, "\n\n"))
}
