package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/rs/zerolog"
)

// fakeTitan answers with a vector whose first component is the input length.
type fakeTitan struct {
	mu         sync.Mutex
	dimensions int
	failOn     string
	requests   []titanRequest
}

func (f *fakeTitan) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	var req titanRequest
	if err := json.Unmarshal(params.Body, &req); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.failOn != "" && req.InputText == f.failOn {
		return nil, errors.New("model error")
	}

	vector := make([]float32, f.dimensions)
	vector[0] = float32(len(req.InputText))
	body, _ := json.Marshal(titanResponse{Embedding: vector})
	return &bedrockruntime.InvokeModelOutput{Body: body}, nil
}

func newTestEmbedder(fake *fakeTitan) *BedrockEmbedder {
	logger := zerolog.Nop()
	return &BedrockEmbedder{
		client:     fake,
		modelID:    DefaultModelID,
		dimensions: fake.dimensions,
		logger:     &logger,
	}
}

func TestGenerateEmbeddings(t *testing.T) {
	fake := &fakeTitan{dimensions: 8}
	embedder := newTestEmbedder(fake)

	vector, err := embedder.GenerateEmbeddings(context.Background(), "dust")
	if err != nil {
		t.Fatalf("GenerateEmbeddings failed: %v", err)
	}

	if len(vector) != 8 || vector[0] != 4 {
		t.Errorf("Unexpected vector %v", vector)
	}
	if len(fake.requests) != 1 || !fake.requests[0].Normalize || fake.requests[0].Dimensions != 8 {
		t.Errorf("Unexpected request %+v", fake.requests)
	}
}

func TestGenerateEmbeddings_DimensionMismatch(t *testing.T) {
	fake := &fakeTitan{dimensions: 4}
	embedder := newTestEmbedder(fake)
	embedder.dimensions = 8

	_, err := embedder.GenerateEmbeddings(context.Background(), "dust")
	if err == nil || !strings.Contains(err.Error(), "expected 8 dimensions") {
		t.Errorf("Expected dimension error, got %v", err)
	}
}

func TestGenerateBatchEmbeddings_KeepsOrder(t *testing.T) {
	fake := &fakeTitan{dimensions: 4}
	embedder := newTestEmbedder(fake)
	texts := []string{"a", "bb", "ccc", "dddd", "eeeee", "ffffff"}

	vectors, err := embedder.GenerateBatchEmbeddings(context.Background(), texts)
	if err != nil {
		t.Fatalf("GenerateBatchEmbeddings failed: %v", err)
	}

	for i, v := range vectors {
		if int(v[0]) != len(texts[i]) {
			t.Errorf("vector %d belongs to another text: %v", i, v)
		}
	}
}

func TestGenerateBatchEmbeddings_Error(t *testing.T) {
	fake := &fakeTitan{dimensions: 4, failOn: "bad"}
	embedder := newTestEmbedder(fake)

	_, err := embedder.GenerateBatchEmbeddings(context.Background(), []string{"ok", "bad"})
	if err == nil {
		t.Error("Expected an error")
	}
}
