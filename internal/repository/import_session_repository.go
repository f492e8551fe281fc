package repository

import (
	"freight-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type ImportSessionRepository struct {
	db *sqlx.DB
}

func NewImportSessionRepository(db *sqlx.DB) *ImportSessionRepository {
	return &ImportSessionRepository{db: db}
}

func (r *ImportSessionRepository) CreateSession(session *models.ImportSession) error {
	query := `INSERT INTO import_sessions (session_code, carrier_id, filename, imported_rows, invalid_rows, status, error_message)
	          VALUES (:session_code, :carrier_id, :filename, :imported_rows, :invalid_rows, :status, :error_message)`
	result, err := r.db.NamedExec(query, session)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	session.ID = id
	return nil
}

func (r *ImportSessionRepository) UpdateSession(session *models.ImportSession) error {
	query := `UPDATE import_sessions
	          SET imported_rows = :imported_rows, invalid_rows = :invalid_rows,
	              status = :status, error_message = :error_message
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, session)
	return err
}

func (r *ImportSessionRepository) GetSessions(carrierID int64, limit, offset int) ([]models.ImportSession, int, error) {
	whereClause := ""
	countArgs := []interface{}{}
	if carrierID > 0 {
		whereClause = "WHERE carrier_id = ?"
		countArgs = append(countArgs, carrierID)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM import_sessions " + whereClause
	if err := r.db.Get(&total, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	var sessions []models.ImportSession
	query := `SELECT id, session_code, carrier_id, filename, imported_rows, invalid_rows,
	                 status, COALESCE(error_message, '') as error_message, created_at, updated_at
	          FROM import_sessions ` + whereClause + `
	          ORDER BY created_at DESC
	          LIMIT ? OFFSET ?`
	args := append(countArgs, limit, offset)
	if err := r.db.Select(&sessions, query, args...); err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}
