package history

import (
	"context"
	"database/sql"
	"errors"

	"unmute/pkg/utils"
)

// NOTE: This repository assumes the call_history table exists
// (see migrations/001_call_history.sql), keyed by call_sid.

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec Record) error {
	const q = `
INSERT INTO call_history (
  call_sid, user_id, phone_number, start_time, voice_model, speech_speed, status
) VALUES (
  $1,$2,$3,$4,$5,$6,$7
)
`
	_, err := r.db.ExecContext(ctx, q,
		rec.CallSID,
		rec.UserID,
		rec.PhoneNumber,
		rec.StartTime,
		rec.VoiceModel,
		rec.SpeechSpeed,
		rec.Status,
	)
	return err
}

func (r *PostgresRepository) Finalize(ctx context.Context, callSID string, f Finalization) error {
	const q = `
UPDATE call_history
SET status = $2,
    end_time = $3,
    duration_seconds = $4,
    transcript = $5,
    summary = $6
WHERE call_sid = $1
`
	const qRec = `
UPDATE call_history
SET recording_url = COALESCE(NULLIF($2, ''), recording_url)
WHERE call_sid = $1
`
	// Both writes commit together so the row never ends up finalized
	// without the recording the provider reported.
	return utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, q,
			callSID,
			f.Status,
			f.EndTime,
			f.DurationSeconds,
			nullableJSON(f.Transcript),
			f.Summary,
		)
		if err != nil {
			return err
		}
		if err := checkAffected(res); err != nil {
			return err
		}
		if f.RecordingURL == "" {
			return nil
		}
		_, err = tx.ExecContext(ctx, qRec, callSID, f.RecordingURL)
		return err
	})
}

func (r *PostgresRepository) AttachRecording(ctx context.Context, callSID, url string, data []byte) error {
	// The provider's recording webhook (URL) and the media-stream capture
	// (bytes) arrive independently; merge instead of overwriting.
	const q = `
UPDATE call_history
SET recording_url = COALESCE(NULLIF($2, ''), recording_url),
    recording_data = COALESCE($3, recording_data)
WHERE call_sid = $1
`
	res, err := r.db.ExecContext(ctx, q, callSID, url, data)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Record, error) {
	const q = `
SELECT call_sid, user_id, phone_number, start_time, end_time, duration_seconds,
       voice_model, speech_speed, status, transcript, summary, recording_url
FROM call_history
WHERE user_id = $1
ORDER BY start_time DESC
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.CallSID,
			&rec.UserID,
			&rec.PhoneNumber,
			&rec.StartTime,
			&rec.EndTime,
			&rec.DurationSeconds,
			&rec.VoiceModel,
			&rec.SpeechSpeed,
			&rec.Status,
			&rec.Transcript,
			&rec.Summary,
			&rec.RecordingURL,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, userID, callSID string) (Record, error) {
	const q = `
SELECT call_sid, user_id, phone_number, start_time, end_time, duration_seconds,
       voice_model, speech_speed, status, transcript, summary, recording_url, recording_data
FROM call_history
WHERE user_id = $1 AND call_sid = $2
`
	var rec Record
	if err := r.db.QueryRowContext(ctx, q, userID, callSID).Scan(
		&rec.CallSID,
		&rec.UserID,
		&rec.PhoneNumber,
		&rec.StartTime,
		&rec.EndTime,
		&rec.DurationSeconds,
		&rec.VoiceModel,
		&rec.SpeechSpeed,
		&rec.Status,
		&rec.Transcript,
		&rec.Summary,
		&rec.RecordingURL,
		&rec.RecordingData,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, callSID string) error {
	const q = `
DELETE FROM call_history
WHERE user_id = $1 AND call_sid = $2
`
	res, err := r.db.ExecContext(ctx, q, userID, callSID)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return []byte(b)
}
