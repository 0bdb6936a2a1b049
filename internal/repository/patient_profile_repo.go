package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hospital-booking/internal/model"
)

type PatientProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPatientProfileRepository(pool *pgxpool.Pool) *PatientProfileRepository {
	return &PatientProfileRepository{pool: pool}
}

func (r *PatientProfileRepository) FindByUserID(ctx context.Context, userID string) (model.PatientProfile, error) {
	var p model.PatientProfile
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, date_of_birth, gender, blood_group, allergies, phone, address,
		        emergency_name, emergency_phone, emergency_relation, created_at, updated_at
		 FROM patient_profiles WHERE user_id = $1`, userID).Scan(
		&p.UserID, &p.DateOfBirth, &p.Gender, &p.BloodGroup, &p.Allergies, &p.Phone, &p.Address,
		&p.EmergencyContact.Name, &p.EmergencyContact.Phone, &p.EmergencyContact.Relation,
		&p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.PatientProfile{}, model.ErrProfileNotFound
	}
	if err != nil {
		return model.PatientProfile{}, fmt.Errorf("find patient profile: %w", err)
	}
	return p, nil
}

func (r *PatientProfileRepository) Upsert(ctx context.Context, p model.PatientProfile) error {
	if p.Allergies == nil {
		p.Allergies = []string{}
	}

	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient_profiles
		  (user_id, date_of_birth, gender, blood_group, allergies, phone, address,
		   emergency_name, emergency_phone, emergency_relation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		ON CONFLICT (user_id) DO UPDATE SET
		  date_of_birth = EXCLUDED.date_of_birth,
		  gender = EXCLUDED.gender,
		  blood_group = EXCLUDED.blood_group,
		  allergies = EXCLUDED.allergies,
		  phone = EXCLUDED.phone,
		  address = EXCLUDED.address,
		  emergency_name = EXCLUDED.emergency_name,
		  emergency_phone = EXCLUDED.emergency_phone,
		  emergency_relation = EXCLUDED.emergency_relation,
		  updated_at = EXCLUDED.updated_at
	`, p.UserID, p.DateOfBirth, p.Gender, p.BloodGroup, p.Allergies, p.Phone, p.Address,
		p.EmergencyContact.Name, p.EmergencyContact.Phone, p.EmergencyContact.Relation, now)
	if err != nil {
		return fmt.Errorf("upsert patient profile: %w", err)
	}
	return nil
}
