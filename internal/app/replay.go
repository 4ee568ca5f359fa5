package app

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/codepulse/internal/event"
	"github.com/blackwell-systems/codepulse/internal/syncer"
)

var (
	replayServer    string
	replayWorkspace string
	replayBatch     int
)

var replayCmd = &cobra.Command{
	Use:   "replay <file.jsonl>",
	Short: "Replay captured events from a JSONL file to a server",
	Long: `Read activity events from a JSON Lines file (one event per line) and
sync them to a collection server in batches, the same way a live capture
session would. Malformed lines abort the replay before anything is sent.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replayServer, "server", "", "Server base URL (overrides config)")
	replayCmd.Flags().StringVar(&replayWorkspace, "workspace", "", "Workspace name stamped on replayed events")
	replayCmd.Flags().IntVar(&replayBatch, "batch", 500, "Events per sync batch")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	user, err := resolveUser(cfg)
	if err != nil {
		return err
	}

	serverURL := cfg.Sync.ServerURL
	if replayServer != "" {
		serverURL = replayServer
	}
	if replayBatch <= 0 {
		replayBatch = 500
	}

	events, err := readEvents(args[0])
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("no events to replay")
		return nil
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	client := syncer.NewClient(serverURL)
	session := syncer.NewSession(user, replayWorkspace)
	s := syncer.New(session, client, syncer.WithLogger(logger))

	ctx := context.Background()
	if err := client.Heartbeat(ctx, user); err != nil {
		return fmt.Errorf("server heartbeat: %w", err)
	}

	sent := 0
	for start := 0; start < len(events); start += replayBatch {
		end := start + replayBatch
		if end > len(events) {
			end = len(events)
		}
		for _, e := range events[start:end] {
			session.Record(e)
		}
		n, err := s.Flush(ctx)
		if err != nil {
			return fmt.Errorf("after %d events: %w", sent, err)
		}
		sent += n
	}

	fmt.Printf("replayed %d events to %s\n", sent, serverURL)
	return nil
}

// readEvents parses a JSONL file into activities. Blank lines are skipped.
func readEvents(path string) ([]event.Activity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var events []event.Activity
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var a event.Activity
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return events, nil
}
