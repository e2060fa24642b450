package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/Sandhiyavisu-16/hackathon-product/internal/db"
	"github.com/Sandhiyavisu-16/hackathon-product/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// ideaColumns is the canonical SELECT list for idea rows. Stage statuses
// are NULL until first touched; COALESCE maps them to the unset zero value.
const ideaColumns = `id, COALESCE(submission_id, ''), title, summary,
	COALESCE(description, ''), COALESCE(challenge, ''),
	COALESCE(novelty_risks, ''), COALESCE(responsible_ai, ''),
	COALESCE(extracted_content, ''), COALESCE(content_type, ''),
	COALESCE(extraction_status, ''), COALESCE(classification_status, ''),
	COALESCE(evaluation_status, ''),
	COALESCE(primary_theme, ''), secondary_themes,
	COALESCE(industry, ''), technologies,
	rubric_scores, COALESCE(weighted_total, 0), COALESCE(recommendation, ''),
	key_strengths, key_concerns, created_at, updated_at`

// eligible(col) expands to the stage-eligibility predicate: never attempted,
// queued, or failed on a previous run.
func eligible(col string) string {
	return fmt.Sprintf(`(%[1]s IS NULL OR %[1]s IN ('pending', 'failed'))`, col)
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the per-item stage updates.
var preparedStatements = map[string]string{
	"update_extraction": `UPDATE ideas SET extracted_content = $1, content_type = $2,
		extraction_status = 'completed', updated_at = $3 WHERE id = $4`,
	"update_classification": `UPDATE ideas SET primary_theme = $1, secondary_themes = $2,
		industry = $3, technologies = $4, classification_status = 'completed',
		updated_at = $5 WHERE id = $6`,
	"update_evaluation": `UPDATE ideas SET rubric_scores = $1, weighted_total = $2,
		recommendation = $3, key_strengths = $4, key_concerns = $5,
		evaluation_status = 'completed', updated_at = $6 WHERE id = $7`,
	"get_idea": `SELECT ` + ideaColumns + ` FROM ideas WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for subsystems that need
// direct query access (e.g., COPY-based intake).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS submissions (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	filename     TEXT NOT NULL,
	total_rows   INTEGER NOT NULL DEFAULT 0,
	valid_rows   INTEGER NOT NULL DEFAULT 0,
	invalid_rows INTEGER NOT NULL DEFAULT 0,
	status       TEXT NOT NULL DEFAULT 'received',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS ideas (
	id                    TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
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
	secondary_themes      JSONB,
	industry              TEXT,
	technologies          JSONB,
	rubric_scores         JSONB,
	weighted_total        DOUBLE PRECISION,
	recommendation        TEXT,
	key_strengths         JSONB,
	key_concerns          JSONB,
	created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_ideas_extraction_status ON ideas(extraction_status);
CREATE INDEX IF NOT EXISTS idx_ideas_classification_status ON ideas(classification_status);
CREATE INDEX IF NOT EXISTS idx_ideas_evaluation_status ON ideas(evaluation_status);
CREATE INDEX IF NOT EXISTS idx_ideas_submission_id ON ideas(submission_id);
CREATE INDEX IF NOT EXISTS idx_ideas_recommendation ON ideas(recommendation);

CREATE TABLE IF NOT EXISTS rubrics (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name          TEXT NOT NULL UNIQUE,
	description   TEXT,
	weight        INTEGER NOT NULL DEFAULT 0,
	is_active     BOOLEAN NOT NULL DEFAULT true,
	display_order INTEGER NOT NULL DEFAULT 0,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS model_configs (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	provider   TEXT NOT NULL,
	name       TEXT NOT NULL,
	model      TEXT NOT NULL,
	settings   JSONB,
	purpose    TEXT NOT NULL DEFAULT 'evaluation',
	is_active  BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_model_configs_purpose_active ON model_configs(purpose, is_active);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

var ideaCopyColumns = []string{
	"id", "submission_id", "title", "summary", "description",
	"challenge", "novelty_risks", "responsible_ai", "created_at", "updated_at",
}

func (s *PostgresStore) InsertIdeas(ctx context.Context, ideas []model.Idea) (int, error) {
	now := time.Now().UTC()
	rows := make([][]any, len(ideas))
	for i, idea := range ideas {
		id := idea.ID
		if id == "" {
			id = uuid.New().String()
		}
		var submissionID any
		if idea.SubmissionID != "" {
			submissionID = idea.SubmissionID
		}
		rows[i] = []any{
			id, submissionID, idea.Title, idea.Summary, idea.Description,
			idea.Challenge, idea.NoveltyRisks, idea.ResponsibleAI, now, now,
		}
	}

	n, err := db.CopyFrom(ctx, s.pool, "ideas", ideaCopyColumns, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: insert ideas")
	}
	return int(n), nil
}

func (s *PostgresStore) GetIdea(ctx context.Context, id string) (*model.Idea, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+ideaColumns+` FROM ideas WHERE id = $1`, id)
	idea, err := scanIdea(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get idea %s", id)
	}
	return idea, nil
}

func (s *PostgresStore) ListIdeas(ctx context.Context, filter IdeaFilter) ([]model.Idea, error) {
	query := `SELECT ` + ideaColumns + ` FROM ideas WHERE true`
	args := []any{}
	argIdx := 1

	if filter.EvaluationStatus != "" {
		query += fmt.Sprintf(` AND evaluation_status = $%d`, argIdx)
		args = append(args, string(filter.EvaluationStatus))
		argIdx++
	}
	if filter.Recommendation != "" {
		query += fmt.Sprintf(` AND recommendation = $%d`, argIdx)
		args = append(args, string(filter.Recommendation))
		argIdx++
	}
	if filter.SubmissionID != "" {
		query += fmt.Sprintf(` AND submission_id = $%d`, argIdx)
		args = append(args, filter.SubmissionID)
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	return s.queryIdeas(ctx, "list ideas", query, args...)
}

func (s *PostgresStore) CreateSubmission(ctx context.Context, sub *model.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	sub.CreatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO submissions (id, filename, total_rows, valid_rows, invalid_rows, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sub.ID, sub.Filename, sub.TotalRows, sub.ValidRows, sub.InvalidRows, string(sub.Status), now,
	)
	return eris.Wrap(err, "postgres: insert submission")
}

func (s *PostgresStore) SelectForExtraction(ctx context.Context) ([]model.Idea, error) {
	query := `SELECT ` + ideaColumns + ` FROM ideas
		WHERE ` + eligible("extraction_status") + `
		ORDER BY created_at`
	return s.queryIdeas(ctx, "select for extraction", query)
}

func (s *PostgresStore) SelectForClassification(ctx context.Context) ([]model.Idea, error) {
	query := `SELECT ` + ideaColumns + ` FROM ideas
		WHERE extraction_status = 'completed'
		AND ` + eligible("classification_status") + `
		ORDER BY created_at`
	return s.queryIdeas(ctx, "select for classification", query)
}

func (s *PostgresStore) SelectForEvaluation(ctx context.Context) ([]model.Idea, error) {
	query := `SELECT ` + ideaColumns + ` FROM ideas
		WHERE classification_status = 'completed'
		AND ` + eligible("evaluation_status") + `
		ORDER BY created_at`
	return s.queryIdeas(ctx, "select for evaluation", query)
}

func (s *PostgresStore) queryIdeas(ctx context.Context, op, query string, args ...any) ([]model.Idea, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: %s", op)
	}
	defer rows.Close()

	var ideas []model.Idea
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: %s scan", op)
		}
		ideas = append(ideas, *idea)
	}
	return ideas, eris.Wrapf(rows.Err(), "postgres: %s iterate", op)
}

func (s *PostgresStore) UpdateExtraction(ctx context.Context, ideaID, content, contentType string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE ideas SET extracted_content = $1, content_type = $2,
		 extraction_status = 'completed', updated_at = $3 WHERE id = $4`,
		content, contentType, time.Now().UTC(), ideaID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update extraction %s", ideaID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("idea not found: %s", ideaID)
	}
	return nil
}

func (s *PostgresStore) UpdateClassification(ctx context.Context, ideaID string, c model.Classification) error {
	secondary, err := json.Marshal(c.SecondaryThemes)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal secondary themes")
	}
	technologies, err := json.Marshal(c.Technologies)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal technologies")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE ideas SET primary_theme = $1, secondary_themes = $2,
		 industry = $3, technologies = $4, classification_status = 'completed',
		 updated_at = $5 WHERE id = $6`,
		c.PrimaryTheme, secondary, c.Industry, technologies, time.Now().UTC(), ideaID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update classification %s", ideaID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("idea not found: %s", ideaID)
	}
	return nil
}

func (s *PostgresStore) UpdateEvaluation(ctx context.Context, ideaID string, e model.Evaluation) error {
	scores, err := json.Marshal(e.Scores)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal scores")
	}
	strengths, err := json.Marshal(e.KeyStrengths)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal strengths")
	}
	concerns, err := json.Marshal(e.KeyConcerns)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal concerns")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE ideas SET rubric_scores = $1, weighted_total = $2,
		 recommendation = $3, key_strengths = $4, key_concerns = $5,
		 evaluation_status = 'completed', updated_at = $6 WHERE id = $7`,
		scores, e.WeightedTotal, string(e.Recommendation), strengths, concerns,
		time.Now().UTC(), ideaID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update evaluation %s", ideaID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("idea not found: %s", ideaID)
	}
	return nil
}

// stageStatusColumn guards MarkStageFailed against arbitrary column names.
func stageStatusColumn(stage model.Stage) (string, error) {
	switch stage {
	case model.StageExtraction, model.StageClassification, model.StageEvaluation:
		return stage.StatusColumn(), nil
	}
	return "", eris.Errorf("unknown stage: %s", stage)
}

func (s *PostgresStore) MarkStageFailed(ctx context.Context, ideaID string, stage model.Stage) error {
	col, err := stageStatusColumn(stage)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE ideas SET %s = 'failed', updated_at = $1 WHERE id = $2`, col),
		time.Now().UTC(), ideaID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: mark %s failed %s", stage, ideaID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("idea not found: %s", ideaID)
	}
	return nil
}

const rubricColumns = `id, name, COALESCE(description, ''), weight, is_active, display_order, created_at, updated_at`

func (s *PostgresStore) ActiveRubrics(ctx context.Context) ([]model.Rubric, error) {
	return s.queryRubrics(ctx, "active rubrics",
		`SELECT `+rubricColumns+` FROM rubrics WHERE is_active ORDER BY display_order, name`)
}

func (s *PostgresStore) ListRubrics(ctx context.Context, activeOnly bool) ([]model.Rubric, error) {
	query := `SELECT ` + rubricColumns + ` FROM rubrics`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY display_order, name`
	return s.queryRubrics(ctx, "list rubrics", query)
}

func (s *PostgresStore) queryRubrics(ctx context.Context, op, query string) ([]model.Rubric, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: %s", op)
	}
	defer rows.Close()

	var rubrics []model.Rubric
	for rows.Next() {
		var r model.Rubric
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.Weight,
			&r.IsActive, &r.DisplayOrder, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrapf(err, "postgres: %s scan", op)
		}
		rubrics = append(rubrics, r)
	}
	return rubrics, eris.Wrapf(rows.Err(), "postgres: %s iterate", op)
}

func (s *PostgresStore) UpsertRubric(ctx context.Context, r *model.Rubric) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO rubrics (id, name, description, weight, is_active, display_order, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 ON CONFLICT (name) DO UPDATE SET
		   description = EXCLUDED.description,
		   weight = EXCLUDED.weight,
		   is_active = EXCLUDED.is_active,
		   display_order = EXCLUDED.display_order,
		   updated_at = EXCLUDED.updated_at`,
		r.ID, r.Name, r.Description, r.Weight, r.IsActive, r.DisplayOrder, now,
	)
	return eris.Wrapf(err, "postgres: upsert rubric %s", r.Name)
}

func (s *PostgresStore) ActiveModelConfig(ctx context.Context, purpose model.ModelPurpose) (*model.ModelConfig, error) {
	var mc model.ModelConfig
	var settingsJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, provider, name, model, settings, purpose, is_active, created_at, updated_at
		 FROM model_configs
		 WHERE purpose = $1 AND is_active
		 ORDER BY updated_at DESC LIMIT 1`,
		string(purpose),
	).Scan(&mc.ID, &mc.Provider, &mc.Name, &mc.Model, &settingsJSON,
		&mc.Purpose, &mc.IsActive, &mc.CreatedAt, &mc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: active model config %s", purpose)
	}

	if settingsJSON != nil {
		if err := json.Unmarshal(settingsJSON, &mc.Settings); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal model settings")
		}
	}
	return &mc, nil
}

func (s *PostgresStore) SaveModelConfig(ctx context.Context, mc *model.ModelConfig) error {
	if mc.ID == "" {
		mc.ID = uuid.New().String()
	}
	settingsJSON, err := json.Marshal(mc.Settings)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal model settings")
	}
	now := time.Now().UTC()

	// Only one config per purpose may be active at a time.
	if mc.IsActive {
		if _, err := s.pool.Exec(ctx,
			`UPDATE model_configs SET is_active = false, updated_at = $1 WHERE purpose = $2 AND is_active`,
			now, string(mc.Purpose),
		); err != nil {
			return eris.Wrap(err, "postgres: deactivate model configs")
		}
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO model_configs (id, provider, name, model, settings, purpose, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   provider = EXCLUDED.provider,
		   name = EXCLUDED.name,
		   model = EXCLUDED.model,
		   settings = EXCLUDED.settings,
		   purpose = EXCLUDED.purpose,
		   is_active = EXCLUDED.is_active,
		   updated_at = EXCLUDED.updated_at`,
		mc.ID, mc.Provider, mc.Name, mc.Model, settingsJSON, string(mc.Purpose), mc.IsActive, now,
	)
	return eris.Wrapf(err, "postgres: save model config %s", mc.Name)
}

func (s *PostgresStore) PipelineCounts(ctx context.Context) (*model.PipelineCounts, error) {
	var c model.PipelineCounts
	err := s.pool.QueryRow(ctx,
		`SELECT count(*),
		   count(*) FILTER (WHERE extraction_status = 'completed'),
		   count(*) FILTER (WHERE classification_status = 'completed'),
		   count(*) FILTER (WHERE evaluation_status = 'completed'),
		   count(*) FILTER (WHERE extraction_status = 'failed'),
		   count(*) FILTER (WHERE classification_status = 'failed'),
		   count(*) FILTER (WHERE evaluation_status = 'failed')
		 FROM ideas`,
	).Scan(&c.Total, &c.Extracted, &c.Classified, &c.Evaluated,
		&c.ExtractionFailed, &c.ClassificationFailed, &c.EvaluationFailed)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: pipeline counts")
	}
	return &c, nil
}

// pgScannable matches both pgx.Row and pgx.Rows.
type pgScannable interface {
	Scan(dest ...any) error
}

func scanIdea(row pgScannable) (*model.Idea, error) {
	var i model.Idea
	var secondary, technologies, scores, strengths, concerns []byte

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
		raw  []byte
		dest any
	}{
		{secondary, &i.SecondaryThemes},
		{technologies, &i.Technologies},
		{scores, &i.RubricScores},
		{strengths, &i.KeyStrengths},
		{concerns, &i.KeyConcerns},
	} {
		if col.raw == nil {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dest); err != nil {
			return nil, eris.Wrap(err, "unmarshal idea column")
		}
	}
	return &i, nil
}
