package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/nuhgnoej/rofle/internal/domain"
)

// SaveProjection replaces the stored projection of a profile.
func (s *Store) SaveProjection(ctx context.Context, id string, result *domain.ProjectionResult) error {
	summary, err := json.Marshal(result.Summary)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM projections WHERE profile_id = ?", id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "INSERT INTO projections (profile_id, computed_at, summary) VALUES (?, ?, ?)",
		id, timestamp(), string(summary))
	if err != nil {
		return fmt.Errorf("saving projection for %s: %w", id, err)
	}

	monthStmt, err := tx.PrepareContext(ctx, "INSERT INTO projection_months (profile_id, year, month, record) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer func() { _ = monthStmt.Close() }()

	for i := range result.Projection {
		rec := &result.Projection[i]
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding %04d-%02d: %w", rec.Year, rec.Month, err)
		}
		if _, err := monthStmt.ExecContext(ctx, id, rec.Year, rec.Month, string(data)); err != nil {
			return err
		}
	}

	loanStmt, err := tx.PrepareContext(ctx, `INSERT INTO projection_loan_states
		(profile_id, year, month, loan_id, principal_paid, interest_paid, remaining_principal)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = loanStmt.Close() }()

	for _, st := range result.ProjectedLoanStates {
		_, err := loanStmt.ExecContext(ctx, id, st.Year, st.Month, st.LoanID,
			st.PrincipalPaid.String(), st.InterestPaid.String(), st.RemainingPrincipal.String())
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadProjection reads back the last projection saved for a profile.
func (s *Store) LoadProjection(ctx context.Context, id string) (*domain.ProjectionResult, error) {
	var summary string
	err := s.db.QueryRowContext(ctx, "SELECT summary FROM projections WHERE profile_id = ?", id).Scan(&summary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProjectionNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	result := &domain.ProjectionResult{ProfileID: id}
	if err := json.Unmarshal([]byte(summary), &result.Summary); err != nil {
		return nil, fmt.Errorf("decoding summary: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT record FROM projection_months WHERE profile_id = ? ORDER BY year, month", id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var rec domain.MonthlyRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("decoding monthly record: %w", err)
		}
		result.Projection = append(result.Projection, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	states, err := s.loadLoanStates(ctx, id)
	if err != nil {
		return nil, err
	}
	result.ProjectedLoanStates = states
	return result, nil
}

func (s *Store) loadLoanStates(ctx context.Context, id string) ([]domain.ProjectedLoanState, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT year, month, loan_id, principal_paid, interest_paid, remaining_principal
		FROM projection_loan_states WHERE profile_id = ? ORDER BY year, month, rowid`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var states []domain.ProjectedLoanState
	for rows.Next() {
		var st domain.ProjectedLoanState
		var principal, interest, remaining string
		if err := rows.Scan(&st.Year, &st.Month, &st.LoanID, &principal, &interest, &remaining); err != nil {
			return nil, err
		}
		for _, f := range []struct {
			src string
			dst *decimal.Decimal
		}{{principal, &st.PrincipalPaid}, {interest, &st.InterestPaid}, {remaining, &st.RemainingPrincipal}} {
			d, err := decimal.NewFromString(f.src)
			if err != nil {
				return nil, fmt.Errorf("decoding loan state %s: %w", st.LoanID, err)
			}
			*f.dst = d
		}
		states = append(states, st)
	}
	return states, rows.Err()
}
