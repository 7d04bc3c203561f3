// Package llm defines the embedding and chat provider abstractions.
package llm

import "context"

// EmbeddingProvider generates vector embeddings for texts.
type EmbeddingProvider interface {
	// Embed generates embeddings for the given texts, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates the embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Name returns the provider name.
	Name() string
}

// ChatProvider generates chat completions.
type ChatProvider interface {
	// Chat generates a completion for the conversation.
	Chat(ctx context.Context, messages []Message) (string, error)

	// ChatStream generates a completion and delivers content fragments to
	// onDelta as they arrive. onDelta returning an error stops the stream.
	ChatStream(ctx context.Context, messages []Message, onDelta func(delta string) error) error

	// Ping checks provider reachability.
	Ping(ctx context.Context) error

	// Name returns the provider name.
	Name() string
}

// Message represents one message in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Role defines the message role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// embeddingDimensions maps known embedding models to their vector dimension.
var embeddingDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
	"nomic-embed-text":       768,
}

// DefaultEmbeddingDimension is used for models not in the table.
const DefaultEmbeddingDimension = 1536

// EmbeddingDimension returns the vector dimension for a model name,
// falling back to DefaultEmbeddingDimension for unknown models.
func EmbeddingDimension(model string) int {
	if dim, ok := embeddingDimensions[model]; ok {
		return dim
	}
	return DefaultEmbeddingDimension
}
