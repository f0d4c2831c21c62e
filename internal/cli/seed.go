package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/networkbrain/brain/internal/config"
	"github.com/networkbrain/brain/internal/huberrors"
	"github.com/networkbrain/brain/internal/models"
	"github.com/networkbrain/brain/internal/repository"
	"github.com/networkbrain/brain/pkg/database"
)

// PromptSeed is one entry of the seed file.
type PromptSeed struct {
	Key    string `yaml:"key"`
	Name   string `yaml:"name"`
	Prompt string `yaml:"prompt"`
}

type promptSeedFile struct {
	Prompts []PromptSeed `yaml:"prompts"`
}

// PromptStore reads and writes system prompts.
type PromptStore interface {
	GetByKey(ctx context.Context, key string) (*models.SystemPrompt, error)
	Upsert(ctx context.Context, key, name, prompt string) (*models.SystemPrompt, error)
}

// SeedResult counts what SeedPrompts did.
type SeedResult struct {
	Written int
	Skipped int
}

// RunSeedPrompts implements brainctl seed-prompts.
func RunSeedPrompts(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString("file")
	if err != nil {
		return fmt.Errorf("failed to read --file flag: %w", err)
	}

	overwrite, err := cmd.Flags().GetBool("overwrite")
	if err != nil {
		return fmt.Errorf("failed to read --overwrite flag: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	seeds, err := ParsePromptSeeds(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := cmd.Context()

	db, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	res, err := SeedPrompts(ctx, repository.NewSystemPromptsRepository(db), seeds, overwrite)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d prompt(s), skipped %d existing.\n", res.Written, res.Skipped)

	return nil
}

// ParsePromptSeeds decodes a seed file and checks every entry has a unique key, a name and a prompt.
func ParsePromptSeeds(r io.Reader) ([]PromptSeed, error) {
	var file promptSeedFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode prompts: %w", err)
	}

	seen := make(map[string]bool, len(file.Prompts))

	for i, p := range file.Prompts {
		p.Key = strings.TrimSpace(p.Key)
		if p.Key == "" || strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Prompt) == "" {
			return nil, fmt.Errorf("prompt %d: key, name and prompt are required", i)
		}

		if seen[p.Key] {
			return nil, fmt.Errorf("prompt %d: duplicate key %q", i, p.Key)
		}

		seen[p.Key] = true
		file.Prompts[i] = p
	}

	return file.Prompts, nil
}

// SeedPrompts writes seeds to store. Existing keys are left alone unless overwrite is set.
func SeedPrompts(ctx context.Context, store PromptStore, seeds []PromptSeed, overwrite bool) (SeedResult, error) {
	var res SeedResult

	for _, s := range seeds {
		if !overwrite {
			_, err := store.GetByKey(ctx, s.Key)
			if err == nil {
				res.Skipped++

				continue
			}

			if !errors.Is(err, huberrors.ErrNotFound) {
				return res, fmt.Errorf("check prompt %q: %w", s.Key, err)
			}
		}

		if _, err := store.Upsert(ctx, s.Key, s.Name, strings.TrimSpace(s.Prompt)); err != nil {
			return res, fmt.Errorf("write prompt %q: %w", s.Key, err)
		}

		res.Written++
	}

	return res, nil
}
