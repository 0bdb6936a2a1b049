package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hospital-booking/internal/model"
)

type DoctorProfileRepository struct {
	pool *pgxpool.Pool
}

func NewDoctorProfileRepository(pool *pgxpool.Pool) *DoctorProfileRepository {
	return &DoctorProfileRepository{pool: pool}
}

func (r *DoctorProfileRepository) FindByUserID(ctx context.Context, userID string) (model.DoctorProfile, error) {
	var p model.DoctorProfile
	var slots []byte
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, specialization, qualifications, experience_years, consultation_fee,
		        available_slots, bio, phone, address, created_at, updated_at
		 FROM doctor_profiles WHERE user_id = $1`, userID).Scan(
		&p.UserID, &p.Specialization, &p.Qualifications, &p.ExperienceYears, &p.ConsultationFee,
		&slots, &p.Bio, &p.Phone, &p.Address, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.DoctorProfile{}, model.ErrProfileNotFound
	}
	if err != nil {
		return model.DoctorProfile{}, fmt.Errorf("find doctor profile: %w", err)
	}

	if err := json.Unmarshal(slots, &p.AvailableSlots); err != nil {
		return model.DoctorProfile{}, fmt.Errorf("decode available slots: %w", err)
	}
	return p, nil
}

// Upsert creates the profile on the doctor's first save and replaces it on
// every later one.
func (r *DoctorProfileRepository) Upsert(ctx context.Context, p model.DoctorProfile) error {
	slots, err := json.Marshal(p.AvailableSlots)
	if err != nil {
		return fmt.Errorf("encode available slots: %w", err)
	}
	if p.Qualifications == nil {
		p.Qualifications = []string{}
	}

	now := time.Now().UTC()
	_, err = r.pool.Exec(ctx, `
		INSERT INTO doctor_profiles
		  (user_id, specialization, qualifications, experience_years, consultation_fee,
		   available_slots, bio, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		ON CONFLICT (user_id) DO UPDATE SET
		  specialization = EXCLUDED.specialization,
		  qualifications = EXCLUDED.qualifications,
		  experience_years = EXCLUDED.experience_years,
		  consultation_fee = EXCLUDED.consultation_fee,
		  available_slots = EXCLUDED.available_slots,
		  bio = EXCLUDED.bio,
		  phone = EXCLUDED.phone,
		  address = EXCLUDED.address,
		  updated_at = EXCLUDED.updated_at
	`, p.UserID, p.Specialization, p.Qualifications, p.ExperienceYears, p.ConsultationFee,
		slots, p.Bio, p.Phone, p.Address, now)
	if err != nil {
		return fmt.Errorf("upsert doctor profile: %w", err)
	}
	return nil
}

// ListApproved returns approved, unblocked doctors that have completed a
// profile with a specialization; this is the patient-facing directory.
func (r *DoctorProfileRepository) ListApproved(ctx context.Context) ([]model.DoctorListing, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.name, u.email,
		       dp.user_id, dp.specialization, dp.qualifications, dp.experience_years,
		       dp.consultation_fee, dp.available_slots, dp.bio, dp.phone, dp.address,
		       dp.created_at, dp.updated_at
		FROM users u
		JOIN doctor_profiles dp ON dp.user_id = u.id
		WHERE u.role = 'doctor' AND u.approved AND NOT u.blocked AND dp.specialization <> ''
		ORDER BY u.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list approved doctors: %w", err)
	}
	defer rows.Close()

	out := make([]model.DoctorListing, 0)
	for rows.Next() {
		var d model.DoctorListing
		var slots []byte
		if err := rows.Scan(
			&d.ID, &d.Name, &d.Email,
			&d.Profile.UserID, &d.Profile.Specialization, &d.Profile.Qualifications,
			&d.Profile.ExperienceYears, &d.Profile.ConsultationFee, &slots,
			&d.Profile.Bio, &d.Profile.Phone, &d.Profile.Address,
			&d.Profile.CreatedAt, &d.Profile.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan doctor listing: %w", err)
		}
		if err := json.Unmarshal(slots, &d.Profile.AvailableSlots); err != nil {
			return nil, fmt.Errorf("decode available slots: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListAll returns every doctor account with its profile summary for the
// admin moderation view, including unapproved and blocked ones.
func (r *DoctorProfileRepository) ListAll(ctx context.Context) ([]model.AdminDoctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.name, u.email, u.approved, u.blocked,
		       COALESCE(dp.specialization, ''), COALESCE(dp.experience_years, 0),
		       COALESCE(dp.qualifications, '{}')
		FROM users u
		LEFT JOIN doctor_profiles dp ON dp.user_id = u.id
		WHERE u.role = 'doctor'
		ORDER BY u.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	out := make([]model.AdminDoctor, 0)
	for rows.Next() {
		var d model.AdminDoctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.Approved, &d.Blocked,
			&d.Specialization, &d.ExperienceYears, &d.Qualifications); err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
