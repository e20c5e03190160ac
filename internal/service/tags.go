package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// ReconcileTags resolves a set of tag names to existing-or-created Tag rows.
// Input names are deduplicated exactly as given; lookup ignores case; a miss
// creates the tag with the name as given. Two reconciliations racing to
// create the same name cannot both win: the unique index rejects the loser,
// which then re-fetches the winner's row instead of failing.
func ReconcileTags(ctx context.Context, repo repository.TagRepository, names []string) ([]model.Tag, error) {
	seen := make(map[string]struct{}, len(names))
	tags := make([]model.Tag, 0, len(names))

	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		tag, err := repo.FindByNameFold(ctx, name)
		if errors.Is(err, sql.ErrNoRows) {
			tag, err = repo.Create(ctx, &model.Tag{
				ID:        uuid.New().String(),
				Name:      name,
				CreatedAt: time.Now().UTC(),
			})
			if errors.Is(err, repository.ErrDuplicate) {
				// Lost the creation race; the row exists now.
				tag, err = repo.FindByNameFold(ctx, name)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("reconcile tag %q: %w", name, err)
		}

		if containsTag(tags, tag.ID) {
			// Two inputs differing only in case resolve to the same row.
			continue
		}
		tags = append(tags, *tag)
	}

	return tags, nil
}

func containsTag(tags []model.Tag, id string) bool {
	for _, t := range tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

func tagIDs(tags []model.Tag) []string {
	ids := make([]string, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}
