package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/powermason/internal/domain/activity"
	"github.com/rpggio/powermason/internal/domain/project"
	"github.com/rpggio/powermason/internal/repository"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
	id, proj_id, name, location, start_date, report_date, progress_report_month_year,
	accomplished_to_date, accomplished_before_period, accomplished_this_period,
	approved_contract, total_expense, status, created_by, revision, created_at, updated_at
`

// Upsert inserts the project or overwrites the row with the same proj_id.
// The ON CONFLICT clause keeps id, status, created_by and created_at of an
// existing row and bumps its revision, so revision 1 means the row is new.
func (r *ProjectRepository) Upsert(ctx context.Context, proj *project.Project, entry *activity.ActivityEntry) (project.Outcome, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT(proj_id) DO UPDATE SET
			name = excluded.name,
			location = excluded.location,
			start_date = excluded.start_date,
			report_date = excluded.report_date,
			progress_report_month_year = excluded.progress_report_month_year,
			accomplished_to_date = excluded.accomplished_to_date,
			accomplished_before_period = excluded.accomplished_before_period,
			accomplished_this_period = excluded.accomplished_this_period,
			approved_contract = excluded.approved_contract,
			total_expense = excluded.total_expense,
			revision = projects.revision + 1,
			updated_at = excluded.updated_at
		RETURNING revision
	`

	var revision int64
	err = tx.QueryRowContext(ctx, query,
		proj.ID,
		proj.ProjID,
		proj.Name,
		proj.Location,
		proj.StartDate.Format(dateLayout),
		formatNullDate(proj.ReportDate),
		proj.ProgressReportMonthYear,
		proj.AccomplishedToDate.StringFixed(2),
		proj.AccomplishedBeforePeriod.StringFixed(2),
		proj.AccomplishedThisPeriod.StringFixed(2),
		proj.ApprovedContract.String(),
		proj.TotalExpense.StringFixed(2),
		proj.Status,
		proj.CreatedBy,
		proj.CreatedAt,
		proj.UpdatedAt,
	).Scan(&revision)
	if err != nil {
		if isForeignKeyViolation(err) {
			return "", repository.ErrForeignKeyViolation
		}
		return "", fmt.Errorf("failed to upsert project: %w", err)
	}

	outcome := project.OutcomeCreated
	entry.ActivityType = activity.TypeProjectCreated
	if revision > 1 {
		outcome = project.OutcomeUpdated
		entry.ActivityType = activity.TypeProjectUpdated
	}

	if err := insertActivity(ctx, tx, entry); err != nil {
		if isForeignKeyViolation(err) {
			return "", repository.ErrForeignKeyViolation
		}
		return "", err
	}

	stored, err := scanProject(tx.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE proj_id = ?`, proj.ProjID))
	if err != nil {
		return "", fmt.Errorf("failed to reload project: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	*proj = *stored
	return outcome, nil
}

// Get retrieves a project by its proj_id
func (r *ProjectRepository) Get(ctx context.Context, projID string) (*project.Project, error) {
	proj, err := scanProject(r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE proj_id = ?`, projID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return proj, nil
}

// List returns project summaries, most recently updated first
func (r *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.ProjectSummary, error) {
	query := `
		SELECT
			proj_id, name, location, report_date,
			accomplished_to_date, accomplished_this_period, status, updated_at
		FROM projects
	`

	args := []interface{}{}
	conditions := []string{}

	if search := strings.TrimSpace(opts.Search); search != "" {
		like := "%" + search + "%"
		conditions = append(conditions,
			"(proj_id LIKE ? OR name LIKE ? OR location LIKE ? OR progress_report_month_year LIKE ?)")
		args = append(args, like, like, like, like)
	}
	if opts.Location != "" {
		conditions = append(conditions, "location = ?")
		args = append(args, opts.Location)
	}

	if len(conditions) > 0 {
		query += " WHERE " + joinConditions(conditions)
	}

	query += " ORDER BY updated_at DESC, proj_id ASC"
	query, args = appendPaging(query, args, opts.Limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var summaries []project.ProjectSummary
	for rows.Next() {
		var summary project.ProjectSummary
		var location, reportDate sql.NullString
		var toDate, thisPeriod string
		err := rows.Scan(
			&summary.ProjID,
			&summary.Name,
			&location,
			&reportDate,
			&toDate,
			&thisPeriod,
			&summary.Status,
			&summary.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		summary.Location = nullString(location)
		if summary.ReportDate, err = parseNullDate(reportDate); err != nil {
			return nil, err
		}
		if summary.AccomplishedToDate, err = decimal.NewFromString(toDate); err != nil {
			return nil, fmt.Errorf("failed to parse accomplished_to_date: %w", err)
		}
		if summary.AccomplishedThisPeriod, err = decimal.NewFromString(thisPeriod); err != nil {
			return nil, fmt.Errorf("failed to parse accomplished_this_period: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return summaries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var proj project.Project
	var location, reportDate, label, createdBy sql.NullString
	var startDate string
	var toDate, beforePeriod, thisPeriod, contract, expense string

	err := row.Scan(
		&proj.ID,
		&proj.ProjID,
		&proj.Name,
		&location,
		&startDate,
		&reportDate,
		&label,
		&toDate,
		&beforePeriod,
		&thisPeriod,
		&contract,
		&expense,
		&proj.Status,
		&createdBy,
		&proj.Revision,
		&proj.CreatedAt,
		&proj.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	proj.Location = nullString(location)
	proj.ProgressReportMonthYear = nullString(label)
	proj.CreatedBy = nullString(createdBy)

	if proj.StartDate, err = time.Parse(dateLayout, startDate); err != nil {
		return nil, fmt.Errorf("failed to parse start_date: %w", err)
	}
	if proj.ReportDate, err = parseNullDate(reportDate); err != nil {
		return nil, err
	}

	for _, f := range []struct {
		src string
		dst *decimal.Decimal
	}{
		{toDate, &proj.AccomplishedToDate},
		{beforePeriod, &proj.AccomplishedBeforePeriod},
		{thisPeriod, &proj.AccomplishedThisPeriod},
		{contract, &proj.ApprovedContract},
		{expense, &proj.TotalExpense},
	} {
		d, err := decimal.NewFromString(f.src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse decimal column: %w", err)
		}
		*f.dst = d
	}

	return &proj, nil
}

func formatNullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func parseNullDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date column: %w", err)
	}
	return &t, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func appendPaging(query string, args []interface{}, limit, offset int) (string, []interface{}) {
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	} else if offset > 0 {
		query += " LIMIT -1"
	}
	if offset > 0 {
		query += " OFFSET ?"
		args = append(args, offset)
	}
	return query, args
}
