package pipeline

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Sandhiyavisu-16/hackathon-product/internal/extract"
	"github.com/Sandhiyavisu-16/hackathon-product/internal/model"
)

// extractIdea runs the extraction transform for one idea: every file under
// the idea's attachment directory is extracted and the merged result is
// written to the store. An idea with no attached files completes with empty
// content — missing files are normal, not an error.
func (p *Pipeline) extractIdea(ctx context.Context, idea model.Idea) error {
	dir := filepath.Join(p.cfg.FilesRoot, idea.ID)

	result, found, err := extract.ExtractDir(ctx, p.extractor, dir)
	if err != nil {
		return err
	}
	if !found {
		zap.L().Debug("no files attached, completing with empty content",
			zap.String("idea_id", idea.ID))
		return p.store.UpdateExtraction(ctx, idea.ID, "", model.ContentTypeText)
	}

	return p.store.UpdateExtraction(ctx, idea.ID, result.Content, result.ContentType)
}
