package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/povarna/generative-ai-agents/pub-search/internal/llm"
)

// streamEvent covers the Claude messages stream events we read text and stop reasons from.
type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Text       string `json:"text"`
		StopReason string `json:"stop_reason"`
	} `json:"delta"`
	ContentBlock struct {
		Text string `json:"text"`
	} `json:"content_block"`
}

func (c *Client) InvokeModelStream(ctx context.Context, request llm.LLMRequest, callback llm.StreamCallback) (*llm.LLMResponse, error) {
	body, err := c.payload(request)
	if err != nil {
		return nil, err
	}

	output, err := c.Client.InvokeModelWithResponseStream(ctx, &bedrockruntime.InvokeModelWithResponseStreamInput{
		ModelId:     &c.ModelID,
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke model stream: %w", err)
	}

	stream := output.GetStream()
	defer stream.Close()

	var fullContent strings.Builder
	var stopReason string

	for event := range stream.Events() {
		chunk, ok := event.(*types.ResponseStreamMemberChunk)
		if !ok {
			continue
		}

		text, reason, err := parseStreamEvent(chunk.Value.Bytes)
		if err != nil {
			c.logger.Debug().Err(err).Msg("Skipping unreadable stream chunk")
			continue
		}
		if reason != "" {
			stopReason = reason
		}
		if text == "" {
			continue
		}

		fullContent.WriteString(text)
		if callback != nil {
			if err := callback(text); err != nil {
				return nil, fmt.Errorf("callback error: %w", err)
			}
		}
	}

	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("stream error: %w", err)
	}

	return &llm.LLMResponse{
		Content:    fullContent.String(),
		StopReason: stopReason,
		Model:      c.ModelID,
	}, nil
}

// parseStreamEvent returns the text carried by one stream event and the stop
// reason when the event reports one.
func parseStreamEvent(data []byte) (string, string, error) {
	var event streamEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return "", "", err
	}

	switch event.Type {
	case "content_block_delta":
		return event.Delta.Text, "", nil
	case "content_block_start":
		return event.ContentBlock.Text, "", nil
	case "message_delta":
		return "", event.Delta.StopReason, nil
	default:
		return "", "", nil
	}
}
