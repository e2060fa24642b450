package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/Sandhiyavisu-16/hackathon-product/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It backs local
// development and CI; production deployments use PostgresStore.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS submissions (
	id           TEXT PRIMARY KEY,
	filename     TEXT NOT NULL,
	total_rows   INTEGER NOT NULL DEFAULT 0,
	valid_rows   INTEGER NOT NULL DEFAULT 0,
	invalid_rows INTEGER NOT NULL DEFAULT 0,
	status       TEXT NOT NULL DEFAULT 'received',
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS ideas (
	id                    TEXT PRIMARY KEY,
	submission_id         TEXT REFERENCES submissions(id),
	title                 TEXT NOT NULL,
	summary               TEXT NOT NULL,
	description           TEXT,
	challenge             TEXT,
	novelty_risks         TEXT,
	responsible_ai        TEXT,
	extracted_content     TEXT,
	content_type          TEXT,
	extraction_status     TEXT,
	classification_status TEXT,
	evaluation_status     TEXT,
	primary_theme         TEXT,
	secondary_themes      TEXT,
	industry              TEXT,
	technologies          TEXT,
	rubric_scores         TEXT,
	weighted_total        REAL,
	recommendation        TEXT,
	key_strengths         TEXT,
	key_concerns          TEXT,
	created_at            DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at            DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_ideas_extraction_status ON ideas(extraction_status);
CREATE INDEX IF NOT EXISTS idx_ideas_classification_status ON ideas(classification_status);
CREATE INDEX IF NOT EXISTS idx_ideas_evaluation_status ON ideas(evaluation_status);
CREATE INDEX IF NOT EXISTS idx_ideas_submission_id ON ideas(submission_id);

CREATE TABLE IF NOT EXISTS rubrics (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL UNIQUE,
	description   TEXT,
	weight        INTEGER NOT NULL DEFAULT 0,
	is_active     INTEGER NOT NULL DEFAULT 1,
	display_order INTEGER NOT NULL DEFAULT 0,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS model_configs (
	id         TEXT PRIMARY KEY,
	provider   TEXT NOT NULL,
	name       TEXT NOT NULL,
	model      TEXT NOT NULL,
	settings   TEXT,
	purpose    TEXT NOT NULL DEFAULT 'evaluation',
	is_active  INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) InsertIdeas(ctx context.Context, ideas []model.Idea) (int, error) {
	if len(ideas) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin insert ideas")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO ideas (id, submission_id, title, summary, description,
		 challenge, novelty_risks, responsible_ai, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert ideas")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, idea := range ideas {
		id := idea.ID
		if id == "" {
			id = uuid.New().String()
		}
		var submissionID any
		if idea.SubmissionID != "" {
			submissionID = idea.SubmissionID
		}
		if _, err := stmt.ExecContext(ctx,
			id, submissionID, idea.Title, idea.Summary, idea.Description,
			idea.Challenge, idea.NoveltyRisks, idea.ResponsibleAI, now, now,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert idea %q", idea.Title)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit insert ideas")
	}
	return len(ideas), nil
}

const sqliteIdeaColumns = `id, COALESCE(submission_id, ''), title, summary,
	COALESCE(description, ''), COALESCE(challenge, ''),
	COALESCE(novelty_risks, ''), COALESCE(responsible_ai, ''),
	COALESCE(extracted_content, ''), COALESCE(content_type, ''),
	COALESCE(extraction_status, ''), COALESCE(classification_status, ''),
	COALESCE(evaluation_status, ''),
	COALESCE(primary_theme, ''), secondary_themes,
	COALESCE(industry, ''), technologies,
	rubric_scores, COALESCE(weighted_total, 0), COALESCE(recommendation, ''),
	key_strengths, key_concerns, created_at, updated_at`

func (s *SQLiteStore) GetIdea(ctx context.Context, id string) (*model.Idea, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteIdeaColumns+` FROM ideas WHERE id = ?`, id)
	idea, err := scanSQLiteIdea(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get idea %s", id)
	}
	return idea, nil
}

func (s *SQLiteStore) ListIdeas(ctx context.Context, filter IdeaFilter) ([]model.Idea, error) {
	query := `SELECT ` + sqliteIdeaColumns + ` FROM ideas WHERE 1=1`
	var args []any

	if filter.EvaluationStatus != "" {
		query += ` AND evaluation_status = ?`
		args = append(args, string(filter.EvaluationStatus))
	}
	if filter.Recommendation != "" {
		query += ` AND recommendation = ?`
		args = append(args, string(filter.Recommendation))
	}
	if filter.SubmissionID != "" {
		query += ` AND submission_id = ?`
		args = append(args, filter.SubmissionID)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	return s.queryIdeas(ctx, "list ideas", query, args...)
}

func (s *SQLiteStore) CreateSubmission(ctx context.Context, sub *model.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	sub.CreatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, filename, total_rows, valid_rows, invalid_rows, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Filename, sub.TotalRows, sub.ValidRows, sub.InvalidRows, string(sub.Status), now,
	)
	return eris.Wrap(err, "sqlite: insert submission")
}

func sqliteEligible(col string) string {
	return fmt.Sprintf(`(%[1]s IS NULL OR %[1]s IN ('pending', 'failed'))`, col)
}

func (s *SQLiteStore) SelectForExtraction(ctx context.Context) ([]model.Idea, error) {
	query := `SELECT ` + sqliteIdeaColumns + ` FROM ideas
		WHERE ` + sqliteEligible("extraction_status") + `
		ORDER BY created_at`
	return s.queryIdeas(ctx, "select for extraction", query)
}

func (s *SQLiteStore) SelectForClassification(ctx context.Context) ([]model.Idea, error) {
	query := `SELECT ` + sqliteIdeaColumns + ` FROM ideas
		WHERE extraction_status = 'completed'
		AND ` + sqliteEligible("classification_status") + `
		ORDER BY created_at`
	return s.queryIdeas(ctx, "select for classification", query)
}

func (s *SQLiteStore) SelectForEvaluation(ctx context.Context) ([]model.Idea, error) {
	query := `SELECT ` + sqliteIdeaColumns + ` FROM ideas
		WHERE classification_status = 'completed'
		AND ` + sqliteEligible("evaluation_status") + `
		ORDER BY created_at`
	return s.queryIdeas(ctx, "select for evaluation", query)
}

func (s *SQLiteStore) queryIdeas(ctx context.Context, op, query string, args ...any) ([]model.Idea, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: %s", op)
	}
	defer rows.Close()

	var ideas []model.Idea
	for rows.Next() {
		idea, err := scanSQLiteIdea(rows)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: %s scan", op)
		}
		ideas = append(ideas, *idea)
	}
	return ideas, eris.Wrapf(rows.Err(), "sqlite: %s iterate", op)
}

func (s *SQLiteStore) UpdateExtraction(ctx context.Context, ideaID, content, contentType string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE ideas SET extracted_content = ?, content_type = ?,
		 extraction_status = 'completed', updated_at = ? WHERE id = ?`,
		content, contentType, time.Now().UTC(), ideaID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update extraction %s", ideaID)
	}
	return checkRowsAffected(res, "idea", ideaID)
}

func (s *SQLiteStore) UpdateClassification(ctx context.Context, ideaID string, c model.Classification) error {
	secondary, err := json.Marshal(c.SecondaryThemes)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal secondary themes")
	}
	technologies, err := json.Marshal(c.Technologies)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal technologies")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE ideas SET primary_theme = ?, secondary_themes = ?,
		 industry = ?, technologies = ?, classification_status = 'completed',
		 updated_at = ? WHERE id = ?`,
		c.PrimaryTheme, string(secondary), c.Industry, string(technologies),
		time.Now().UTC(), ideaID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update classification %s", ideaID)
	}
	return checkRowsAffected(res, "idea", ideaID)
}

func (s *SQLiteStore) UpdateEvaluation(ctx context.Context, ideaID string, e model.Evaluation) error {
	scores, err := json.Marshal(e.Scores)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal scores")
	}
	strengths, err := json.Marshal(e.KeyStrengths)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal strengths")
	}
	concerns, err := json.Marshal(e.KeyConcerns)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal concerns")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE ideas SET rubric_scores = ?, weighted_total = ?,
		 recommendation = ?, key_strengths = ?, key_concerns = ?,
		 evaluation_status = 'completed', updated_at = ? WHERE id = ?`,
		string(scores), e.WeightedTotal, string(e.Recommendation),
		string(strengths), string(concerns), time.Now().UTC(), ideaID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update evaluation %s", ideaID)
	}
	return checkRowsAffected(res, "idea", ideaID)
}

func (s *SQLiteStore) MarkStageFailed(ctx context.Context, ideaID string, stage model.Stage) error {
	col, err := stageStatusColumn(stage)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE ideas SET %s = 'failed', updated_at = ? WHERE id = ?`, col),
		time.Now().UTC(), ideaID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: mark %s failed %s", stage, ideaID)
	}
	return checkRowsAffected(res, "idea", ideaID)
}

const sqliteRubricColumns = `id, name, COALESCE(description, ''), weight, is_active, display_order, created_at, updated_at`

func (s *SQLiteStore) ActiveRubrics(ctx context.Context) ([]model.Rubric, error) {
	return s.queryRubrics(ctx, "active rubrics",
		`SELECT `+sqliteRubricColumns+` FROM rubrics WHERE is_active = 1 ORDER BY display_order, name`)
}

func (s *SQLiteStore) ListRubrics(ctx context.Context, activeOnly bool) ([]model.Rubric, error) {
	query := `SELECT ` + sqliteRubricColumns + ` FROM rubrics`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY display_order, name`
	return s.queryRubrics(ctx, "list rubrics", query)
}

func (s *SQLiteStore) queryRubrics(ctx context.Context, op, query string) ([]model.Rubric, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: %s", op)
	}
	defer rows.Close()

	var rubrics []model.Rubric
	for rows.Next() {
		var r model.Rubric
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.Weight,
			&r.IsActive, &r.DisplayOrder, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrapf(err, "sqlite: %s scan", op)
		}
		rubrics = append(rubrics, r)
	}
	return rubrics, eris.Wrapf(rows.Err(), "sqlite: %s iterate", op)
}

func (s *SQLiteStore) UpsertRubric(ctx context.Context, r *model.Rubric) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rubrics (id, name, description, weight, is_active, display_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (name) DO UPDATE SET
		   description = excluded.description,
		   weight = excluded.weight,
		   is_active = excluded.is_active,
		   display_order = excluded.display_order,
		   updated_at = excluded.updated_at`,
		r.ID, r.Name, r.Description, r.Weight, r.IsActive, r.DisplayOrder, now, now,
	)
	return eris.Wrapf(err, "sqlite: upsert rubric %s", r.Name)
}

func (s *SQLiteStore) ActiveModelConfig(ctx context.Context, purpose model.ModelPurpose) (*model.ModelConfig, error) {
	var mc model.ModelConfig
	var settingsJSON sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, provider, name, model, settings, purpose, is_active, created_at, updated_at
		 FROM model_configs
		 WHERE purpose = ? AND is_active = 1
		 ORDER BY updated_at DESC LIMIT 1`,
		string(purpose),
	).Scan(&mc.ID, &mc.Provider, &mc.Name, &mc.Model, &settingsJSON,
		&mc.Purpose, &mc.IsActive, &mc.CreatedAt, &mc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: active model config %s", purpose)
	}

	if settingsJSON.Valid && settingsJSON.String != "" {
		if err := json.Unmarshal([]byte(settingsJSON.String), &mc.Settings); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal model settings")
		}
	}
	return &mc, nil
}

func (s *SQLiteStore) SaveModelConfig(ctx context.Context, mc *model.ModelConfig) error {
	if mc.ID == "" {
		mc.ID = uuid.New().String()
	}
	settingsJSON, err := json.Marshal(mc.Settings)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal model settings")
	}
	now := time.Now().UTC()

	if mc.IsActive {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE model_configs SET is_active = 0, updated_at = ? WHERE purpose = ? AND is_active = 1`,
			now, string(mc.Purpose),
		); err != nil {
			return eris.Wrap(err, "sqlite: deactivate model configs")
		}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO model_configs (id, provider, name, model, settings, purpose, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   provider = excluded.provider,
		   name = excluded.name,
		   model = excluded.model,
		   settings = excluded.settings,
		   purpose = excluded.purpose,
		   is_active = excluded.is_active,
		   updated_at = excluded.updated_at`,
		mc.ID, mc.Provider, mc.Name, mc.Model, string(settingsJSON),
		string(mc.Purpose), mc.IsActive, now, now,
	)
	return eris.Wrapf(err, "sqlite: save model config %s", mc.Name)
}

func (s *SQLiteStore) PipelineCounts(ctx context.Context) (*model.PipelineCounts, error) {
	var c model.PipelineCounts
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*),
		   COALESCE(sum(extraction_status = 'completed'), 0),
		   COALESCE(sum(classification_status = 'completed'), 0),
		   COALESCE(sum(evaluation_status = 'completed'), 0),
		   COALESCE(sum(extraction_status = 'failed'), 0),
		   COALESCE(sum(classification_status = 'failed'), 0),
		   COALESCE(sum(evaluation_status = 'failed'), 0)
		 FROM ideas`,
	).Scan(&c.Total, &c.Extracted, &c.Classified, &c.Evaluated,
		&c.ExtractionFailed, &c.ClassificationFailed, &c.EvaluationFailed)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: pipeline counts")
	}
	return &c, nil
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanSQLiteIdea(row scannable) (*model.Idea, error) {
	var i model.Idea
	var secondary, technologies, scores, strengths, concerns sql.NullString

	err := row.Scan(
		&i.ID, &i.SubmissionID, &i.Title, &i.Summary,
		&i.Description, &i.Challenge, &i.NoveltyRisks, &i.ResponsibleAI,
		&i.ExtractedContent, &i.ContentType,
		&i.ExtractionStatus, &i.ClassificationStatus, &i.EvaluationStatus,
		&i.PrimaryTheme, &secondary,
		&i.Industry, &technologies,
		&scores, &i.WeightedTotal, &i.Recommendation,
		&strengths, &concerns, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, col := range []struct {
		raw  sql.NullString
		dest any
	}{
		{secondary, &i.SecondaryThemes},
		{technologies, &i.Technologies},
		{scores, &i.RubricScores},
		{strengths, &i.KeyStrengths},
		{concerns, &i.KeyConcerns},
	} {
		if !col.raw.Valid || col.raw.String == "" {
			continue
		}
		if err := json.Unmarshal([]byte(col.raw.String), col.dest); err != nil {
			return nil, eris.Wrap(err, "unmarshal idea column")
		}
	}
	return &i, nil
}
