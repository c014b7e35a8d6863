package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/listoapp/listo/internal/config"
	"github.com/listoapp/listo/internal/engine"
	"github.com/listoapp/listo/internal/models"
	"github.com/listoapp/listo/internal/services/assistant"
	"github.com/listoapp/listo/internal/services/nlp"
	"github.com/listoapp/listo/internal/validation"
)

// offlineExtractor parses transcript lines locally instead of calling a
// language model, so replay works without credentials or network. Lines use
// "name | dueDate | itemType | assignedTo"; trailing fields are optional.
type offlineExtractor struct{}

func (offlineExtractor) ExtractTaskFields(_ context.Context, utterance string) (models.TaskFields, error) {
	parts := strings.Split(utterance, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	fields := models.TaskFields{
		TaskName: parts[0],
		ItemType: models.ItemTypeTask,
	}
	if fields.TaskName == "" {
		return models.TaskFields{}, fmt.Errorf("%w: line carries no task name", nlp.ErrExtractionFailed)
	}
	if len(parts) > 1 {
		fields.DueDate = parts[1]
	}
	if len(parts) > 2 && parts[2] != "" {
		if err := validation.ValidateItemType(parts[2]); err != nil {
			return models.TaskFields{}, fmt.Errorf("%w: %w", nlp.ErrExtractionFailed, err)
		}
		fields.ItemType = models.ItemType(strings.ToLower(parts[2]))
	}
	if len(parts) > 3 {
		fields.AssignedTo = parts[3]
	}
	return fields, nil
}

// NewReplayCmd creates the replay command.
func NewReplayCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "replay <transcript-file>",
		Short: "Replay a chat transcript through the merge pipeline",
		Long: "Read chat messages from a file (one per line, # for comments) and run each " +
			"through extraction and the dedup/merge engine, printing the outcome per line. " +
			"With --offline, lines are parsed locally as \"name | dueDate | itemType | assignedTo\" " +
			"and no credentials are needed",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var extractor nlp.Extractor = offlineExtractor{}
			matchThreshold := 0.0

			if !offline {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				extractor = nlp.NewOpenAIExtractorWithLogger(cfg.OpenAIKey, cfg.AIBaseURL, cfg.AIModel, nil, false)
				matchThreshold = cfg.MatchThreshold
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open transcript: %w", err)
			}
			defer func() {
				if err := file.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close transcript: %v\n", err)
				}
			}()

			store := engine.NewStore(matchThreshold)
			svc := assistant.NewService(extractor, store, nil, zap.NewNop())

			scanner := bufio.NewScanner(file)
			lineNo := 0
			for scanner.Scan() {
				lineNo++
				message := strings.TrimSpace(scanner.Text())
				if message == "" || strings.HasPrefix(message, "#") {
					continue
				}

				ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
				resp, err := svc.HandleMessage(ctx, message)
				cancel()
				if err != nil {
					fmt.Printf("%3d> %s\n     error: %v\n", lineNo, message, err)
					continue
				}

				fmt.Printf("%3d> %s\n     %s\n", lineNo, message, resp.Reply)
				if resp.Outcome != nil {
					fmt.Printf("     action=%s task=%q", resp.Outcome.Action, resp.Outcome.TaskName)
					if resp.Outcome.Similarity > 0 {
						fmt.Printf(" similarity=%.2f", resp.Outcome.Similarity)
					}
					fmt.Println()
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read transcript: %w", err)
			}

			fmt.Printf("\n%d tasks after replay:\n", len(store.Tasks()))
			for _, task := range store.Tasks() {
				status := " "
				if task.IsCompleted {
					status = "x"
				}
				fmt.Printf("  [%s] %s", status, task.Text)
				if task.DueDate != "" {
					fmt.Printf(" (due %s)", task.DueDate)
				}
				if task.AssignedTo != "" {
					fmt.Printf(" @%s", task.AssignedTo)
				}
				fmt.Println()
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "parse transcript lines locally instead of calling the extraction provider")

	return cmd
}
