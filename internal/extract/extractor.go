// Package extract turns an idea's attached files into text content plus a
// coarse content-type tag. File-format handling beyond plain text is
// delegated to the LLM: the file is summarized and tagged in one call.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Sandhiyavisu-16/hackathon-product/internal/model"
	"github.com/Sandhiyavisu-16/hackathon-product/pkg/llm"
)

// Extraction is the result of extracting one file.
type Extraction struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

// Extractor is the file-content capability consumed by the extraction stage.
type Extractor interface {
	ExtractFile(ctx context.Context, path string) (Extraction, error)
}

// textExtensions are read directly without an LLM round trip.
var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".json": true,
}

// FileExtractor extracts plain-text files directly and routes everything
// else through the LLM with a combined extract-and-classify prompt.
type FileExtractor struct {
	client llm.Client
}

// NewFileExtractor builds an extractor backed by the given chat client.
func NewFileExtractor(client llm.Client) *FileExtractor {
	return &FileExtractor{client: client}
}

func (e *FileExtractor) ExtractFile(ctx context.Context, path string) (Extraction, error) {
	if _, err := os.Stat(path); err != nil {
		return Extraction{}, eris.Wrapf(err, "extract: stat %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if textExtensions[ext] {
		data, err := os.ReadFile(path)
		if err != nil {
			return Extraction{}, eris.Wrapf(err, "extract: read %s", path)
		}
		return Extraction{Content: string(data), ContentType: model.ContentTypeText}, nil
	}

	return e.extractWithLLM(ctx, path)
}

func (e *FileExtractor) extractWithLLM(ctx context.Context, path string) (Extraction, error) {
	resp, err := e.client.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{{Role: "user", Content: combinedPrompt(filepath.Base(path))}},
	})
	if err != nil {
		return Extraction{}, eris.Wrapf(err, "extract: llm call for %s", path)
	}

	result, ok := parseExtraction(resp.Text)
	if !ok {
		// Unparseable model output is absorbed, not failed: the raw text is
		// still useful downstream.
		zap.L().Warn("extraction response not parseable, keeping raw text",
			zap.String("file", filepath.Base(path)),
		)
		return Extraction{Content: resp.Text, ContentType: model.ContentTypeText}, nil
	}
	return result, nil
}

// parseExtraction decodes the combined-prompt JSON response, tolerating a
// markdown code fence around it.
func parseExtraction(text string) (Extraction, bool) {
	var result Extraction
	if err := json.Unmarshal([]byte(StripFence(text)), &result); err != nil {
		return Extraction{}, false
	}
	if result.ContentType != model.ContentTypePrototype {
		result.ContentType = model.ContentTypeText
	}
	return result, true
}

// StripFence removes a surrounding markdown code fence (```json ... ``` or
// bare ```) from a model response.
func StripFence(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func combinedPrompt(filename string) string {
	return fmt.Sprintf(`You are given a hackathon submission file named %q.

TASK 1 - CONTENT EXTRACTION:
Extract all information in detail: text content, technical details,
architecture and design information, code, data and metrics.

TASK 2 - CLASSIFICATION:
Classify the file as "Prototype" or "Text".
- Prototype: screenshots of a working prototype, working demo evidence.
- Text: concepts only, no implementation evidence.

Return valid JSON with both fields:
{"content": "detailed extraction of all content", "content_type": "Prototype" or "Text"}`, filename)
}

// ExtractDir runs the extractor over every regular file in dir (sorted by
// name) and merges the results: contents are concatenated, and the merged
// tag is Prototype if any file is a Prototype. A missing or empty directory
// returns an empty extraction with ok=false, which the stage treats as
// "no files, completed with empty content".
func ExtractDir(ctx context.Context, e Extractor, dir string) (Extraction, bool, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return Extraction{}, false, nil
	}
	if err != nil {
		return Extraction{}, false, eris.Wrapf(err, "extract: read dir %s", dir)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return Extraction{}, false, nil
	}
	sort.Strings(names)

	merged := Extraction{ContentType: model.ContentTypeText}
	var parts []string
	for _, name := range names {
		result, err := e.ExtractFile(ctx, filepath.Join(dir, name))
		if err != nil {
			return Extraction{}, false, err
		}
		if result.Content != "" {
			parts = append(parts, fmt.Sprintf("--- %s ---\n%s", name, result.Content))
		}
		if result.ContentType == model.ContentTypePrototype {
			merged.ContentType = model.ContentTypePrototype
		}
	}
	merged.Content = strings.Join(parts, "\n\n")
	return merged, true, nil
}
