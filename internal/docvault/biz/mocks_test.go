package biz

import (
	"context"
	"fmt"

	"github.com/kart-io/docvault/pkg/llm"
)

// fakeEmbeddingProvider records Embed calls and returns deterministic
// vectors, one per input.
type fakeEmbeddingProvider struct {
	calls [][]string
	// dim is the vector dimension to fabricate.
	dim int
	// err, when set, fails every call.
	err error
	// short, when true, returns one vector fewer than requested.
	short bool
	// embedFn, when set, overrides vector fabrication per input.
	embedFn func(text string) []float32
}

func newFakeEmbeddingProvider() *fakeEmbeddingProvider {
	return &fakeEmbeddingProvider{dim: 4}
}

func (f *fakeEmbeddingProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	batch := make([]string, len(texts))
	copy(batch, texts)
	f.calls = append(f.calls, batch)

	if f.err != nil {
		return nil, f.err
	}

	out := make([][]float32, 0, len(texts))
	for i, text := range texts {
		if f.short && i == len(texts)-1 {
			break
		}
		if f.embedFn != nil {
			out = append(out, f.embedFn(text))
			continue
		}
		vec := make([]float32, f.dim)
		for j := range vec {
			vec[j] = float32(len(text)%7) + float32(j)
		}
		out = append(out, vec)
	}
	return out, nil
}

func (f *fakeEmbeddingProvider) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vecs, err := f.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbeddingProvider) Name() string { return "fake-embed" }

// inputs flattens all recorded batches in call order.
func (f *fakeEmbeddingProvider) inputs() []string {
	var all []string
	for _, batch := range f.calls {
		all = append(all, batch...)
	}
	return all
}

// fakeChatProvider returns a canned answer and records the messages of
// the last call.
type fakeChatProvider struct {
	answer   string
	err      error
	messages []llm.Message
	// deltas, when set, drives ChatStream fragment by fragment.
	deltas []string
}

func (f *fakeChatProvider) Chat(_ context.Context, messages []llm.Message) (string, error) {
	f.messages = messages
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeChatProvider) ChatStream(_ context.Context, messages []llm.Message, onDelta func(string) error) error {
	f.messages = messages
	if f.err != nil {
		return f.err
	}
	deltas := f.deltas
	if deltas == nil {
		deltas = []string{f.answer}
	}
	for _, d := range deltas {
		if err := onDelta(d); err != nil {
			return fmt.Errorf("stream aborted: %w", err)
		}
	}
	return nil
}

func (f *fakeChatProvider) Ping(context.Context) error { return f.err }

func (f *fakeChatProvider) Name() string { return "fake-chat" }
