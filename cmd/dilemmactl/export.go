package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	dilemmaapi "dilemma/pkg/dilemma"
)

// exportRun writes every stored artifact for a run as pretty-printed JSON
// under <outDir>/<runID>/. Missing optional artifacts are skipped.
func exportRun(ctx context.Context, client *dilemmaapi.Client, runID, outDir string) (string, error) {
	run, err := client.Run(ctx, runID)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(outDir, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	if err := writeJSON(filepath.Join(dir, "run.json"), run); err != nil {
		return "", err
	}

	if scores, err := client.Scores(ctx, runID); err == nil {
		if err := writeJSON(filepath.Join(dir, "scores.json"), scores); err != nil {
			return "", err
		}
	}
	if snapshots, err := client.Snapshots(ctx, runID); err == nil {
		if err := writeJSON(filepath.Join(dir, "population.json"), snapshots); err != nil {
			return "", err
		}
	}
	if transcripts, err := client.Transcripts(ctx, runID); err == nil {
		if err := writeJSON(filepath.Join(dir, "transcripts.json"), transcripts); err != nil {
			return "", err
		}
	}

	return dir, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
