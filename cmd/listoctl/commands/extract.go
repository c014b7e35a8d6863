package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/listoapp/listo/internal/config"
	"github.com/listoapp/listo/internal/services/nlp"
)

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <utterance>",
		Short: "Run NLP extraction on one utterance",
		Long:  "Send an utterance to the configured extraction provider and print the structured fields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			extractor := nlp.NewOpenAIExtractorWithLogger(cfg.OpenAIKey, cfg.AIBaseURL, cfg.AIModel, nil, false)

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			utterance := strings.Join(args, " ")
			fields, err := extractor.ExtractTaskFields(ctx, utterance)
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(fields)
		},
	}
}
