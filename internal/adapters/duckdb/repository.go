package duckdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/smartcrm/kernel/internal/core/domain"
	"github.com/smartcrm/kernel/internal/core/ports"
)

// Repository persists CRM records and settings in DuckDB.
type Repository struct {
	db *sql.DB
}

var _ ports.Repository = (*Repository)(nil)

// NewRepository opens (or creates) the database at path and ensures the
// schema exists. Pass an empty path for an in-memory database.
func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *Repository) Close() error { return r.db.Close() }

func (r *Repository) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS business_analyses (
			id VARCHAR PRIMARY KEY,
			user_id VARCHAR NOT NULL,
			business_name VARCHAR,
			industry VARCHAR,
			analysis_data VARCHAR,
			status VARCHAR,
			created_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS content_items (
			id VARCHAR PRIMARY KEY,
			user_id VARCHAR NOT NULL,
			title VARCHAR,
			content VARCHAR,
			type VARCHAR,
			status VARCHAR,
			created_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS voice_profiles (
			id VARCHAR PRIMARY KEY,
			user_id VARCHAR NOT NULL,
			name VARCHAR,
			voice_settings VARCHAR,
			created_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS image_assets (
			id VARCHAR PRIMARY KEY,
			user_id VARCHAR NOT NULL,
			filename VARCHAR,
			url VARCHAR,
			type VARCHAR,
			size BIGINT,
			created_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS deals (
			id VARCHAR PRIMARY KEY,
			user_id VARCHAR NOT NULL,
			title VARCHAR,
			company VARCHAR,
			contact VARCHAR,
			value DOUBLE,
			stage VARCHAR,
			created_at TIMESTAMP,
			updated_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key VARCHAR PRIMARY KEY,
			value VARCHAR
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// --- Business analyses ---

func (r *Repository) CreateBusinessAnalysis(ctx context.Context, a domain.BusinessAnalysis) error {
	dataJSON, err := json.Marshal(a.AnalysisData)
	if err != nil {
		return fmt.Errorf("marshal analysis data: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO business_analyses (id, user_id, business_name, industry, analysis_data, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.BusinessName, a.Industry, string(dataJSON), a.Status, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create business analysis: %w", err)
	}
	return nil
}

func (r *Repository) GetBusinessAnalysis(ctx context.Context, id string) (domain.BusinessAnalysis, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, business_name, industry, analysis_data, status, created_at
		FROM business_analyses WHERE id = ?`, id)

	var a domain.BusinessAnalysis
	var dataJSON string
	err := row.Scan(&a.ID, &a.UserID, &a.BusinessName, &a.Industry, &dataJSON, &a.Status, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return domain.BusinessAnalysis{}, fmt.Errorf("business analysis not found: %s", id)
	}
	if err != nil {
		return domain.BusinessAnalysis{}, fmt.Errorf("get business analysis: %w", err)
	}

	if dataJSON != "" && dataJSON != "null" {
		if err := json.Unmarshal([]byte(dataJSON), &a.AnalysisData); err != nil {
			return domain.BusinessAnalysis{}, fmt.Errorf("unmarshal analysis data: %w", err)
		}
	}
	return a, nil
}

func (r *Repository) ListBusinessAnalyses(ctx context.Context, userID string) ([]domain.BusinessAnalysis, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, business_name, industry, analysis_data, status, created_at
		FROM business_analyses WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list business analyses: %w", err)
	}
	defer rows.Close()

	out := []domain.BusinessAnalysis{}
	for rows.Next() {
		var a domain.BusinessAnalysis
		var dataJSON string
		if err := rows.Scan(&a.ID, &a.UserID, &a.BusinessName, &a.Industry, &dataJSON, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		if dataJSON != "" && dataJSON != "null" {
			_ = json.Unmarshal([]byte(dataJSON), &a.AnalysisData)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateBusinessAnalysis(ctx context.Context, a domain.BusinessAnalysis) error {
	dataJSON, err := json.Marshal(a.AnalysisData)
	if err != nil {
		return fmt.Errorf("marshal analysis data: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE business_analyses
		SET business_name = ?, industry = ?, analysis_data = ?, status = ?
		WHERE id = ?`,
		a.BusinessName, a.Industry, string(dataJSON), a.Status, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update business analysis: %w", err)
	}
	return requireRowAffected(res, "business analysis", a.ID)
}

func (r *Repository) DeleteBusinessAnalysis(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM business_analyses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete business analysis: %w", err)
	}
	return requireRowAffected(res, "business analysis", id)
}

// --- Content items ---

func (r *Repository) CreateContentItem(ctx context.Context, c domain.ContentItem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO content_items (id, user_id, title, content, type, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Title, c.Content, c.Type, c.Status, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create content item: %w", err)
	}
	return nil
}

func (r *Repository) GetContentItem(ctx context.Context, id string) (domain.ContentItem, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, content, type, status, created_at
		FROM content_items WHERE id = ?`, id)

	var c domain.ContentItem
	err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.Content, &c.Type, &c.Status, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return domain.ContentItem{}, fmt.Errorf("content item not found: %s", id)
	}
	if err != nil {
		return domain.ContentItem{}, fmt.Errorf("get content item: %w", err)
	}
	return c, nil
}

func (r *Repository) ListContentItems(ctx context.Context, userID string) ([]domain.ContentItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, content, type, status, created_at
		FROM content_items WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list content items: %w", err)
	}
	defer rows.Close()

	out := []domain.ContentItem{}
	for rows.Next() {
		var c domain.ContentItem
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Content, &c.Type, &c.Status, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateContentItem(ctx context.Context, c domain.ContentItem) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE content_items SET title = ?, content = ?, type = ?, status = ? WHERE id = ?`,
		c.Title, c.Content, c.Type, c.Status, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update content item: %w", err)
	}
	return requireRowAffected(res, "content item", c.ID)
}

func (r *Repository) DeleteContentItem(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM content_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete content item: %w", err)
	}
	return requireRowAffected(res, "content item", id)
}

// --- Voice profiles ---

func (r *Repository) CreateVoiceProfile(ctx context.Context, v domain.VoiceProfile) error {
	settingsJSON, err := json.Marshal(v.VoiceSettings)
	if err != nil {
		return fmt.Errorf("marshal voice settings: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO voice_profiles (id, user_id, name, voice_settings, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		v.ID, v.UserID, v.Name, string(settingsJSON), v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create voice profile: %w", err)
	}
	return nil
}

func (r *Repository) GetVoiceProfile(ctx context.Context, id string) (domain.VoiceProfile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, voice_settings, created_at
		FROM voice_profiles WHERE id = ?`, id)

	var v domain.VoiceProfile
	var settingsJSON string
	err := row.Scan(&v.ID, &v.UserID, &v.Name, &settingsJSON, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return domain.VoiceProfile{}, fmt.Errorf("voice profile not found: %s", id)
	}
	if err != nil {
		return domain.VoiceProfile{}, fmt.Errorf("get voice profile: %w", err)
	}

	if settingsJSON != "" && settingsJSON != "null" {
		if err := json.Unmarshal([]byte(settingsJSON), &v.VoiceSettings); err != nil {
			return domain.VoiceProfile{}, fmt.Errorf("unmarshal voice settings: %w", err)
		}
	}
	return v, nil
}

func (r *Repository) ListVoiceProfiles(ctx context.Context, userID string) ([]domain.VoiceProfile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, voice_settings, created_at
		FROM voice_profiles WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list voice profiles: %w", err)
	}
	defer rows.Close()

	out := []domain.VoiceProfile{}
	for rows.Next() {
		var v domain.VoiceProfile
		var settingsJSON string
		if err := rows.Scan(&v.ID, &v.UserID, &v.Name, &settingsJSON, &v.CreatedAt); err != nil {
			return nil, err
		}
		if settingsJSON != "" && settingsJSON != "null" {
			_ = json.Unmarshal([]byte(settingsJSON), &v.VoiceSettings)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateVoiceProfile(ctx context.Context, v domain.VoiceProfile) error {
	settingsJSON, err := json.Marshal(v.VoiceSettings)
	if err != nil {
		return fmt.Errorf("marshal voice settings: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE voice_profiles SET name = ?, voice_settings = ? WHERE id = ?`,
		v.Name, string(settingsJSON), v.ID,
	)
	if err != nil {
		return fmt.Errorf("update voice profile: %w", err)
	}
	return requireRowAffected(res, "voice profile", v.ID)
}

func (r *Repository) DeleteVoiceProfile(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM voice_profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete voice profile: %w", err)
	}
	return requireRowAffected(res, "voice profile", id)
}

// --- Image assets ---

func (r *Repository) CreateImageAsset(ctx context.Context, img domain.ImageAsset) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO image_assets (id, user_id, filename, url, type, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		img.ID, img.UserID, img.Filename, img.URL, img.Type, img.Size, img.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create image asset: %w", err)
	}
	return nil
}

func (r *Repository) GetImageAsset(ctx context.Context, id string) (domain.ImageAsset, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, filename, url, type, size, created_at
		FROM image_assets WHERE id = ?`, id)

	var img domain.ImageAsset
	err := row.Scan(&img.ID, &img.UserID, &img.Filename, &img.URL, &img.Type, &img.Size, &img.CreatedAt)
	if err == sql.ErrNoRows {
		return domain.ImageAsset{}, fmt.Errorf("image asset not found: %s", id)
	}
	if err != nil {
		return domain.ImageAsset{}, fmt.Errorf("get image asset: %w", err)
	}
	return img, nil
}

func (r *Repository) ListImageAssets(ctx context.Context, userID string) ([]domain.ImageAsset, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, filename, url, type, size, created_at
		FROM image_assets WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list image assets: %w", err)
	}
	defer rows.Close()

	out := []domain.ImageAsset{}
	for rows.Next() {
		var img domain.ImageAsset
		if err := rows.Scan(&img.ID, &img.UserID, &img.Filename, &img.URL, &img.Type, &img.Size, &img.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func (r *Repository) DeleteImageAsset(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM image_assets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete image asset: %w", err)
	}
	return requireRowAffected(res, "image asset", id)
}

// --- Deals ---

func (r *Repository) CreateDeal(ctx context.Context, d domain.Deal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO deals (id, user_id, title, company, contact, value, stage, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.UserID, d.Title, d.Company, d.Contact, d.Value, d.Stage, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create deal: %w", err)
	}
	return nil
}

func (r *Repository) GetDeal(ctx context.Context, id string) (domain.Deal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, company, contact, value, stage, created_at, updated_at
		FROM deals WHERE id = ?`, id)

	var d domain.Deal
	err := row.Scan(&d.ID, &d.UserID, &d.Title, &d.Company, &d.Contact, &d.Value, &d.Stage, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.Deal{}, fmt.Errorf("deal not found: %s", id)
	}
	if err != nil {
		return domain.Deal{}, fmt.Errorf("get deal: %w", err)
	}
	return d, nil
}

func (r *Repository) ListDeals(ctx context.Context, userID string) ([]domain.Deal, error) {
	return r.queryDeals(ctx, `
		SELECT id, user_id, title, company, contact, value, stage, created_at, updated_at
		FROM deals WHERE user_id = ?
		ORDER BY updated_at DESC`, userID)
}

func (r *Repository) ListDealsByStage(ctx context.Context, userID, stage string) ([]domain.Deal, error) {
	return r.queryDeals(ctx, `
		SELECT id, user_id, title, company, contact, value, stage, created_at, updated_at
		FROM deals WHERE user_id = ? AND stage = ?
		ORDER BY updated_at DESC`, userID, stage)
}

func (r *Repository) queryDeals(ctx context.Context, query string, args ...any) ([]domain.Deal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	out := []domain.Deal{}
	for rows.Next() {
		var d domain.Deal
		if err := rows.Scan(&d.ID, &d.UserID, &d.Title, &d.Company, &d.Contact, &d.Value, &d.Stage, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateDeal(ctx context.Context, d domain.Deal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE deals SET title = ?, company = ?, contact = ?, value = ?, stage = ?, updated_at = ?
		WHERE id = ?`,
		d.Title, d.Company, d.Contact, d.Value, d.Stage, d.UpdatedAt, d.ID,
	)
	if err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	return requireRowAffected(res, "deal", d.ID)
}

func (r *Repository) DeleteDeal(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM deals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	return requireRowAffected(res, "deal", id)
}

// --- Settings ---

func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key)

	var value string
	err := row.Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("setting not found: %s", key)
	}
	if err != nil {
		return "", fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

func (r *Repository) SaveSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("save setting: %w", err)
	}
	return nil
}

func requireRowAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s not found: %s", kind, id)
	}
	return nil
}
