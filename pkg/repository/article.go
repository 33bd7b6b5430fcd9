package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/intellect/pkg/dedup"
	"github.com/umputun/intellect/pkg/domain"
)

// ArticleRepository handles article persistence and tag status transitions
type ArticleRepository struct {
	db *sqlx.DB
}

// articleSQL represents an article row
type articleSQL struct {
	ID          int64      `db:"id"`
	Source      string     `db:"source"`
	Platform    string     `db:"platform"`
	URL         string     `db:"url"`
	URLKey      string     `db:"url_key"`
	Title       string     `db:"title"`
	Content     string     `db:"content"`
	Summary     *string    `db:"summary"`
	PublishedAt time.Time  `db:"published_at"`
	Thumbnail   string     `db:"thumbnail"`
	Author      string     `db:"author"`
	Tags        tagsSQL    `db:"tags"`
	Category    string     `db:"category"`
	TagStatus   string     `db:"tag_status"`
	TagError    string     `db:"tag_error"`
	TaggedAt    *time.Time `db:"tagged_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// tagsSQL is a JSON array of tags. nil is stored as NULL and kept distinct from an empty list.
type tagsSQL []string

// Value implements driver.Valuer for database storage
func (t tagsSQL) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	data, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database retrieval
func (t *tagsSQL) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported tags type %T", value)
	}
	res := tagsSQL{}
	if err := json.Unmarshal(data, &res); err != nil {
		return fmt.Errorf("decode tags: %w", err)
	}
	*t = res
	return nil
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// CreateArticle inserts the article if no article with the same normalized url exists.
// Returns false if the article was already stored, the existing row is never modified.
// The new article always starts as pending with no tags.
func (r *ArticleRepository) CreateArticle(ctx context.Context, article *domain.Article) (bool, error) {
	if article.URLKey == "" {
		article.URLKey = dedup.NormalizeURL(article.URL)
	}
	if article.URLKey == "" {
		return false, errors.New("create article: empty url")
	}

	ts := now()
	rec := articleSQL{
		Source:      article.Source,
		Platform:    article.Platform,
		URL:         article.URL,
		URLKey:      article.URLKey,
		Title:       article.Title,
		Content:     article.Content,
		PublishedAt: article.Timestamp.UTC(),
		Thumbnail:   article.Thumbnail,
		Author:      article.Author,
		TagStatus:   string(domain.TagStatusPending),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if rec.Platform == "" {
		rec.Platform = domain.PlatformRSS
	}
	if article.Summary != "" {
		rec.Summary = &article.Summary
	}

	query := `
		INSERT INTO articles (
			source, platform, url, url_key, title, content, summary, published_at,
			thumbnail, author, tag_status, created_at, updated_at
		) VALUES (
			:source, :platform, :url, :url_key, :title, :content, :summary, :published_at,
			:thumbnail, :author, :tag_status, :created_at, :updated_at
		)
		ON CONFLICT(url_key) DO NOTHING
	`

	var inserted bool
	err := retryOnLock(ctx, func() error {
		res, err := r.db.NamedExecContext(ctx, query, rec)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			inserted = false
			return nil
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		article.ID, inserted = id, true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("create article %s: %w", article.URL, err)
	}
	if inserted {
		article.TagStatus, article.Tags, article.Category = domain.TagStatusPending, nil, ""
		article.CreatedAt, article.UpdatedAt = ts, ts
	}
	return inserted, nil
}

// GetArticle retrieves an article by id
func (r *ArticleRepository) GetArticle(ctx context.Context, id int64) (*domain.Article, error) {
	var rec articleSQL
	if err := r.db.GetContext(ctx, &rec, "SELECT * FROM articles WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("article %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get article %d: %w", id, err)
	}
	res := rec.toDomain()
	return &res, nil
}

// URLKeys returns normalized urls of all stored articles
func (r *ArticleRepository) URLKeys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := r.db.SelectContext(ctx, &keys, "SELECT url_key FROM articles"); err != nil {
		return nil, fmt.Errorf("get url keys: %w", err)
	}
	return keys, nil
}

// ArticlesByTagStatus returns up to limit articles in the given status, most recently created first
func (r *ArticleRepository) ArticlesByTagStatus(ctx context.Context, status domain.TagStatus, limit int) ([]domain.Article, error) {
	var recs []articleSQL
	query := "SELECT * FROM articles WHERE tag_status = ? ORDER BY created_at DESC, id DESC LIMIT ?"
	if err := r.db.SelectContext(ctx, &recs, query, string(status), limit); err != nil {
		return nil, fmt.Errorf("get %s articles: %w", status, err)
	}
	return toDomainArticles(recs), nil
}

// MarkTagged stores classification result and moves the article to tagged.
// Only pending and error articles can be tagged, nil tags are stored as an empty list.
func (r *ArticleRepository) MarkTagged(ctx context.Context, id int64, tags []string, category string) error {
	if tags == nil {
		tags = []string{}
	}
	ts := now()
	query := `
		UPDATE articles
		SET tags = ?, category = ?, tag_status = ?, tag_error = '', tagged_at = ?, updated_at = ?
		WHERE id = ? AND tag_status IN (?, ?)
	`
	return r.transition(ctx, id, domain.TagStatusTagged, query,
		tagsSQL(tags), category, string(domain.TagStatusTagged), ts, ts, id,
		string(domain.TagStatusPending), string(domain.TagStatusError))
}

// MarkTagError moves the article to error keeping the failure reason, tags and category are left untouched
func (r *ArticleRepository) MarkTagError(ctx context.Context, id int64, errMsg string) error {
	query := `
		UPDATE articles
		SET tag_status = ?, tag_error = ?, updated_at = ?
		WHERE id = ? AND tag_status IN (?, ?)
	`
	return r.transition(ctx, id, domain.TagStatusError, query,
		string(domain.TagStatusError), errMsg, now(), id,
		string(domain.TagStatusPending), string(domain.TagStatusError))
}

// transition executes a guarded status update and explains why nothing was updated
func (r *ArticleRepository) transition(ctx context.Context, id int64, next domain.TagStatus, query string, args ...any) error {
	var affected int64
	err := retryOnLock(ctx, func() error {
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("set article %d to %s: %w", id, next, err)
	}
	if affected > 0 {
		return nil
	}

	var current string
	if err := r.db.GetContext(ctx, &current, "SELECT tag_status FROM articles WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("article %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("get article %d status: %w", id, err)
	}
	return fmt.Errorf("article %d %s -> %s: %w", id, current, next, domain.ErrInvalidTransition)
}

// ListArticles returns articles matching the filter, newest publication first
func (r *ArticleRepository) ListArticles(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	query := sq.Select("*").From("articles").OrderBy("published_at DESC", "id DESC")
	if filter.TagStatus != "" {
		query = query.Where(sq.Eq{"tag_status": string(filter.TagStatus)})
	}
	if filter.Source != "" {
		query = query.Where(sq.Eq{"source": filter.Source})
	}
	if filter.Platform != "" {
		query = query.Where(sq.Eq{"platform": filter.Platform})
	}
	if filter.Category != "" {
		query = query.Where(sq.Eq{"category": filter.Category})
	}
	if !filter.From.IsZero() {
		query = query.Where(sq.GtOrEq{"published_at": filter.From.UTC()})
	}
	if !filter.To.IsZero() {
		query = query.Where(sq.LtOrEq{"published_at": filter.To.UTC()})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query = query.Limit(uint64(1<<62)) // sqlite requires LIMIT with OFFSET
		}
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}
	var recs []articleSQL
	if err := r.db.SelectContext(ctx, &recs, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return toDomainArticles(recs), nil
}

// CountByTagStatus returns number of articles per tag status, all statuses are present
func (r *ArticleRepository) CountByTagStatus(ctx context.Context) (map[domain.TagStatus]int, error) {
	sqlStr, args, err := sq.Select("tag_status", "COUNT(*) AS cnt").From("articles").GroupBy("tag_status").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count query: %w", err)
	}
	var rows []struct {
		Status string `db:"tag_status"`
		Count  int    `db:"cnt"`
	}
	if err := r.db.SelectContext(ctx, &rows, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	res := map[domain.TagStatus]int{domain.TagStatusPending: 0, domain.TagStatusTagged: 0, domain.TagStatusError: 0}
	for _, row := range rows {
		res[domain.TagStatus(row.Status)] = row.Count
	}
	return res, nil
}

// Categories returns distinct categories of tagged articles
func (r *ArticleRepository) Categories(ctx context.Context) ([]string, error) {
	var res []string
	query := "SELECT DISTINCT category FROM articles WHERE tag_status = ? AND category != '' ORDER BY category"
	if err := r.db.SelectContext(ctx, &res, query, string(domain.TagStatusTagged)); err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	return res, nil
}

func (a articleSQL) toDomain() domain.Article {
	res := domain.Article{
		ID:        a.ID,
		Source:    a.Source,
		Platform:  a.Platform,
		URL:       a.URL,
		URLKey:    a.URLKey,
		Title:     a.Title,
		Content:   a.Content,
		Timestamp: a.PublishedAt.UTC(),
		Thumbnail: a.Thumbnail,
		Author:    a.Author,
		Tags:      []string(a.Tags),
		Category:  a.Category,
		TagStatus: domain.TagStatus(a.TagStatus),
		TagError:  a.TagError,
		CreatedAt: a.CreatedAt.UTC(),
		UpdatedAt: a.UpdatedAt.UTC(),
	}
	if a.Summary != nil {
		res.Summary = *a.Summary
	}
	if a.TaggedAt != nil {
		t := a.TaggedAt.UTC()
		res.TaggedAt = &t
	}
	return res
}

func toDomainArticles(recs []articleSQL) []domain.Article {
	res := make([]domain.Article, 0, len(recs))
	for _, rec := range recs {
		res = append(res, rec.toDomain())
	}
	return res
}
