// compose はセッションを一度だけ生成してJSONを出力するCLIツール
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"mokuso/internal/compose"
	"mokuso/internal/models"
	"mokuso/internal/params"
	"mokuso/internal/postprocess"
)

func main() {
	kind := flag.String("kind", "mindfulness", "content kind")
	duration := flag.Int("duration", 8, "duration in minutes")
	difficulty := flag.String("difficulty", "beginner", "difficulty (beginner, intermediate, advanced)")
	theme := flag.String("theme", "clarity and peace", "session theme")
	output := flag.String("o", "", "output file (default: stdout)")
	flag.Parse()

	req := models.GenerationRequest{
		ContentKind:     *kind,
		DurationMinutes: *duration,
		Difficulty:      *difficulty,
		Theme:           *theme,
	}
	req.ApplyDefaults()

	composer := compose.NewComposer()
	session, err := composer.Generate(context.Background(), req, os.Stderr)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	if err := postprocess.Process(session, params.NewGenerator()); err != nil {
		log.Fatalf("Post-processing failed: %v", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode session: %v", err)
	}

	if *output == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(*output, append(data, '\n'), 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", *output, err)
	}
	log.Printf("Session written to %s (%d seconds, %d segments)", *output, session.DurationSeconds, len(session.Segments))
}
