package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/pub-search/internal/agent"
	"github.com/povarna/generative-ai-agents/pub-search/internal/setup"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// stdoutFlusher lets the SSE stream be printed straight to the terminal.
type stdoutFlusher struct{}

func (stdoutFlusher) Flush() {}

var _ http.Flusher = stdoutFlusher{}

func main() {
	question := flag.String("question", "", "The question to answer from the publications")
	stream := flag.Bool("stream", false, "Enable streaming response")
	topK := flag.Int("top-k", 5, "Number of passages used as context")
	stdin := flag.Bool("stdin", false, "Read question from stdin")

	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(zerolog.WarnLevel)
	logger := log.Logger

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}

	var finalQuestion string
	if *stdin {
		bytes, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read from stdin")
		}
		finalQuestion = string(bytes)
	} else if *question != "" {
		finalQuestion = *question
	} else {
		log.Fatal().Msg("Please provide a question using -question or -stdin")
	}

	ctx := context.Background()

	cfg := setup.LoadConfig()
	cfg.RAGEnabled = true

	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to load dependencies")
	}
	defer deps.Close()

	req := agent.AskRequest{Question: finalQuestion, TopK: *topK}
	req.SetDefaults()
	if err := req.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid question")
	}

	if *stream {
		if err := deps.Agent.AskStream(ctx, req, stdoutFlusher{}, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("Unable to stream answer")
		}
		return
	}

	response, err := deps.Agent.Ask(ctx, req)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to answer question")
	}

	fmt.Printf("%s\n\nSources:\n", response.Answer)
	for i, source := range response.Sources {
		fmt.Printf("[%d] %s (%s)\n", i+1, source.Title, source.Link)
	}
}
