package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
)

func (r *SQLRepository) CreateDonor(ctx context.Context, donor domain.Donor) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO donors (id, name, blood_group, phone, city, email, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		donor.ID,
		donor.Name,
		string(donor.BloodGroup),
		donor.Phone,
		donor.City,
		donor.Email,
		donor.CreatedAt,
	)
	return translate("create donor", err)
}

func (r *SQLRepository) SearchDonors(ctx context.Context, filter domain.RecordFilter) ([]domain.Donor, error) {
	where, args := filterClause(filter, nil)
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, blood_group, phone, city, email, created_at FROM donors"+where+
			" ORDER BY created_at DESC"+limitClause(filter),
		args...)
	if err != nil {
		return nil, translate("search donors", err)
	}
	defer rows.Close()

	var donors []domain.Donor
	for rows.Next() {
		var d domain.Donor
		if err := rows.Scan(&d.ID, &d.Name, &d.BloodGroup, &d.Phone, &d.City, &d.Email, &d.CreatedAt); err != nil {
			return nil, translate("search donors", err)
		}
		donors = append(donors, d)
	}
	return donors, translate("search donors", rows.Err())
}

func (r *SQLRepository) CountDonors(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM donors").Scan(&n)
	return n, translate("count donors", err)
}

func (r *SQLRepository) CreateSOSRequest(ctx context.Context, req domain.SOSRequest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sos_requests
			(id, requester_name, blood_group, city, phone, hospital_name, address, urgency_notes, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		req.ID,
		req.RequesterName,
		string(req.BloodGroup),
		req.City,
		req.Phone,
		req.HospitalName,
		req.Address,
		req.UrgencyNotes,
		req.IsActive,
		req.CreatedAt,
	)
	return translate("create sos request", err)
}

func (r *SQLRepository) ListActiveSOSRequests(ctx context.Context, filter domain.RecordFilter) ([]domain.SOSRequest, error) {
	where, args := filterClause(filter, []string{"is_active = TRUE"})
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, requester_name, blood_group, city, phone, hospital_name, address, urgency_notes, is_active, created_at
		FROM sos_requests`+where+" ORDER BY created_at DESC"+limitClause(filter),
		args...)
	if err != nil {
		return nil, translate("list sos requests", err)
	}
	defer rows.Close()

	var out []domain.SOSRequest
	for rows.Next() {
		var s domain.SOSRequest
		err := rows.Scan(&s.ID, &s.RequesterName, &s.BloodGroup, &s.City, &s.Phone,
			&s.HospitalName, &s.Address, &s.UrgencyNotes, &s.IsActive, &s.CreatedAt)
		if err != nil {
			return nil, translate("list sos requests", err)
		}
		out = append(out, s)
	}
	return out, translate("list sos requests", rows.Err())
}

func (r *SQLRepository) CountActiveSOSRequests(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sos_requests WHERE is_active = TRUE").Scan(&n)
	return n, translate("count sos requests", err)
}

func filterClause(filter domain.RecordFilter, where []string) (string, []any) {
	var args []any
	if filter.City != "" {
		args = append(args, filter.City)
		where = append(where, fmt.Sprintf("LOWER(city) = LOWER($%d)", len(args)))
	}
	if filter.BloodGroup != "" {
		args = append(args, string(filter.BloodGroup))
		where = append(where, fmt.Sprintf("blood_group = $%d", len(args)))
	}
	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func limitClause(filter domain.RecordFilter) string {
	if filter.Limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", filter.Limit)
}
