package worker

// sweeper.go
// Background goroutine that periodically reconciles the upload tree against
// the database and deletes files no row references anymore. Crashes between
// a DB delete and its disk cleanup leave orphans; the sweeper mops them up.

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stockatelier/internal/filestore"
	"stockatelier/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	sweepInterval = 1 * time.Hour
	// Files younger than this are skipped: they may belong to an upload whose
	// DB row has not committed yet.
	sweepMinAge = 15 * time.Minute
)

// SweeperConfig holds all dependencies for the orphan sweeper goroutine.
type SweeperConfig struct {
	MachineRepo repository.MachineRepository
	Files       *filestore.Store
}

// StartSweeper launches a background goroutine that ticks hourly and removes
// upload files not referenced by any machine or document row. It respects the
// context for graceful shutdown.
func StartSweeper(ctx context.Context, cfg SweeperConfig) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		log.Info().Msg("sweeper: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("sweeper: shutting down")
				return
			case <-ticker.C:
				if n, err := SweepOnce(ctx, cfg); err != nil {
					log.Error().Err(err).Msg("sweeper: tick failed")
				} else if n > 0 {
					log.Info().Int("removed", n).Msg("sweeper: removed orphan files")
				}
			}
		}
	}()
}

// SweepOnce runs a single reconciliation pass and returns how many orphan
// files it deleted.
func SweepOnce(ctx context.Context, cfg SweeperConfig) (int, error) {
	referenced, err := referencedPaths(ctx, cfg.MachineRepo)
	if err != nil {
		return 0, err
	}

	root := filepath.Join(cfg.Files.Root(), "machines")
	removed := 0
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		if time.Since(info.ModTime()) < sweepMinAge {
			return nil
		}

		rel, err := filepath.Rel(cfg.Files.Root(), path)
		if err != nil {
			return err
		}
		urlPath := filestore.URLPrefix + "/" + filepath.ToSlash(rel)
		if referenced[urlPath] {
			return nil
		}

		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("sweeper: could not remove orphan")
			return nil
		}
		removed++
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return removed, err
	}
	return removed, nil
}

func referencedPaths(ctx context.Context, repo repository.MachineRepository) (map[string]bool, error) {
	refs := make(map[string]bool)

	machines, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range machines {
		if strings.HasPrefix(m.ModelAssetPath, filestore.URLPrefix) {
			refs[m.ModelAssetPath] = true
		}
	}

	files, err := repo.ListAllFiles(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		refs[f.StoredPath] = true
	}
	return refs, nil
}
