package db

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"trendscout/internal/models"
)

// trendColumns is the standard column list for trend queries.
const trendColumns = `id, keyword, source,
	score, pod_viability, competition_level, ip_safe, product_suggestions, score_reasoning,
	deep_analysis, design_brief, target_audience,
	last_scraped_at, scrape_count, last_scored_at, last_analyzed_at, days_trending,
	trend_velocity, peak_score, peak_date,
	avg_interest, interest_peak, interest_delta,
	temporal_tags, emoji_tag, urgency,
	scoring_cost, analysis_cost, total_api_cost,
	validation_status, archived, created_at, updated_at`

// scanTrend scans a row into a Trend struct.
func scanTrend(row pgx.Row) (*models.Trend, error) {
	var t models.Trend
	err := row.Scan(
		&t.ID,
		&t.Keyword,
		&t.Source,
		&t.Score,
		&t.PodViability,
		&t.CompetitionLevel,
		&t.IPSafe,
		&t.ProductSuggestions,
		&t.ScoreReasoning,
		&t.DeepAnalysis,
		&t.DesignBrief,
		&t.TargetAudience,
		&t.LastScrapedAt,
		&t.ScrapeCount,
		&t.LastScoredAt,
		&t.LastAnalyzedAt,
		&t.DaysTrending,
		&t.TrendVelocity,
		&t.PeakScore,
		&t.PeakDate,
		&t.AvgInterest,
		&t.InterestPeak,
		&t.InterestDelta,
		&t.TemporalTags,
		&t.EmojiTag,
		&t.Urgency,
		&t.ScoringCost,
		&t.AnalysisCost,
		&t.TotalAPICost,
		&t.ValidationStatus,
		&t.Archived,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTrendNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// scanTrends scans multiple rows into a slice of Trends.
func scanTrends(rows pgx.Rows) ([]models.Trend, error) {
	defer rows.Close()

	var trends []models.Trend
	for rows.Next() {
		t, err := scanTrend(rows)
		if err != nil {
			return nil, err
		}
		trends = append(trends, *t)
	}

	return trends, rows.Err()
}

// GetTrendByKeyword retrieves a trend by its natural key.
func (d *DB) GetTrendByKeyword(ctx context.Context, keyword string) (*models.Trend, error) {
	query := `SELECT ` + trendColumns + ` FROM trends WHERE keyword = $1`
	return scanTrend(d.Pool.QueryRow(ctx, query, keyword))
}

// GetTrendByID retrieves a trend by its ID.
func (d *DB) GetTrendByID(ctx context.Context, id uuid.UUID) (*models.Trend, error) {
	query := `SELECT ` + trendColumns + ` FROM trends WHERE id = $1`
	return scanTrend(d.Pool.QueryRow(ctx, query, id))
}

// UpsertTrend inserts or updates a trend keyed by keyword, last writer
// wins. The stored record's id and updated_at are written back.
func (d *DB) UpsertTrend(ctx context.Context, t *models.Trend) error {
	query := `
		INSERT INTO trends (keyword, source,
			score, pod_viability, competition_level, ip_safe, product_suggestions, score_reasoning,
			deep_analysis, design_brief, target_audience,
			last_scraped_at, scrape_count, last_scored_at, last_analyzed_at, days_trending,
			trend_velocity, peak_score, peak_date,
			avg_interest, interest_peak, interest_delta,
			temporal_tags, emoji_tag, urgency,
			scoring_cost, analysis_cost, total_api_cost,
			validation_status, archived, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)
		ON CONFLICT (keyword) DO UPDATE SET
			source = EXCLUDED.source,
			score = EXCLUDED.score,
			pod_viability = EXCLUDED.pod_viability,
			competition_level = EXCLUDED.competition_level,
			ip_safe = EXCLUDED.ip_safe,
			product_suggestions = EXCLUDED.product_suggestions,
			score_reasoning = EXCLUDED.score_reasoning,
			deep_analysis = EXCLUDED.deep_analysis,
			design_brief = EXCLUDED.design_brief,
			target_audience = EXCLUDED.target_audience,
			last_scraped_at = EXCLUDED.last_scraped_at,
			scrape_count = EXCLUDED.scrape_count,
			last_scored_at = EXCLUDED.last_scored_at,
			last_analyzed_at = EXCLUDED.last_analyzed_at,
			days_trending = EXCLUDED.days_trending,
			trend_velocity = EXCLUDED.trend_velocity,
			peak_score = EXCLUDED.peak_score,
			peak_date = EXCLUDED.peak_date,
			avg_interest = EXCLUDED.avg_interest,
			interest_peak = EXCLUDED.interest_peak,
			interest_delta = EXCLUDED.interest_delta,
			temporal_tags = EXCLUDED.temporal_tags,
			emoji_tag = EXCLUDED.emoji_tag,
			urgency = EXCLUDED.urgency,
			scoring_cost = EXCLUDED.scoring_cost,
			analysis_cost = EXCLUDED.analysis_cost,
			total_api_cost = EXCLUDED.total_api_cost,
			validation_status = EXCLUDED.validation_status,
			archived = EXCLUDED.archived,
			updated_at = NOW()
		RETURNING id, updated_at
	`

	return d.Pool.QueryRow(ctx, query,
		t.Keyword,
		t.Source,
		t.Score,
		t.PodViability,
		t.CompetitionLevel,
		t.IPSafe,
		t.ProductSuggestions,
		t.ScoreReasoning,
		t.DeepAnalysis,
		t.DesignBrief,
		t.TargetAudience,
		t.LastScrapedAt,
		t.ScrapeCount,
		t.LastScoredAt,
		t.LastAnalyzedAt,
		t.DaysTrending,
		t.TrendVelocity,
		t.PeakScore,
		t.PeakDate,
		t.AvgInterest,
		t.InterestPeak,
		t.InterestDelta,
		t.TemporalTags,
		t.EmojiTag,
		t.Urgency,
		t.ScoringCost,
		t.AnalysisCost,
		t.TotalAPICost,
		t.ValidationStatus,
		t.Archived,
		t.CreatedAt,
	).Scan(&t.ID, &t.UpdatedAt)
}

// ListTrends retrieves trends ordered by score descending, optionally
// filtered by minimum score, source, and IP safety.
func (d *DB) ListTrends(ctx context.Context, minScore int, source string, ipSafe *bool, limit int) ([]models.Trend, error) {
	sql := `SELECT ` + trendColumns + ` FROM trends WHERE NOT archived`
	var args []any

	if minScore > 0 {
		args = append(args, minScore)
		sql += ` AND score >= $` + strconv.Itoa(len(args))
	}
	if source != "" {
		args = append(args, source)
		sql += ` AND source = $` + strconv.Itoa(len(args))
	}
	if ipSafe != nil {
		args = append(args, *ipSafe)
		sql += ` AND ip_safe = $` + strconv.Itoa(len(args))
	}

	args = append(args, limit)
	sql += ` ORDER BY score DESC NULLS LAST, keyword ASC LIMIT $` + strconv.Itoa(len(args))

	rows, err := d.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return scanTrends(rows)
}

// DeleteAllTrends wipes the trends table before a fresh pipeline epoch and
// returns the number of deleted records.
func (d *DB) DeleteAllTrends(ctx context.Context) (int64, error) {
	result, err := d.Pool.Exec(ctx, `DELETE FROM trends`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// TrendStats returns the record count and total accumulated API cost, for
// the metrics collector.
func (d *DB) TrendStats(ctx context.Context) (int64, float64, error) {
	var count int64
	var cost float64
	err := d.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_api_cost), 0) FROM trends`,
	).Scan(&count, &cost)
	return count, cost, err
}

// ArchiveStaleTrends marks trends not seen by any source since the cutoff
// as archived, keeping list output focused on live keywords. Returns the
// number of newly archived records.
func (d *DB) ArchiveStaleTrends(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)
	query := `
		UPDATE trends
		SET archived = TRUE, updated_at = NOW()
		WHERE NOT archived AND last_scraped_at IS NOT NULL AND last_scraped_at < $1
	`

	result, err := d.Pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
