package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/dmitrijs2005/linkshare/internal/dbx"
	"github.com/dmitrijs2005/linkshare/internal/server/models"
	"github.com/google/uuid"
)

const (
	constraintDownloadLink = "files_download_link_key"

	selectFiles = `
		SELECT f.id, f.original_name, f.stored_name, f.content_type, f.size_bytes,
		       f.uploaded_at, f.download_link, f.owner_id, u.username,
		       f.permission, f.access_password
		FROM files f
		JOIN users u ON u.id = f.owner_id`
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	query := `
		INSERT INTO files (original_name, stored_name, content_type, size_bytes,
		                   download_link, owner_id, permission, access_password)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, uploaded_at`

	err := r.db.QueryRowContext(ctx, query,
		file.OriginalName, file.StoredName, file.ContentType, file.Size,
		file.DownloadLink, file.OwnerID, string(file.Permission), file.AccessPassword,
	).Scan(&file.ID, &file.UploadedAt)

	if err != nil {
		switch {
		case dbx.IsUniqueViolation(err, constraintDownloadLink):
			return nil, errors.Join(common.ErrorAlreadyExists, ErrDownloadLinkTaken)
		case dbx.IsUniqueViolation(err, ""):
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.File, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	return scanFile(r.db.QueryRowContext(ctx, selectFiles+` WHERE f.id = $1`, id))
}

func (r *PostgresRepository) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*models.File, error) {
	if !validID(id) || !validID(ownerID) {
		return nil, common.ErrorNotFound
	}
	return scanFile(r.db.QueryRowContext(ctx, selectFiles+` WHERE f.id = $1 AND f.owner_id = $2`, id, ownerID))
}

func (r *PostgresRepository) FindByDownloadLink(ctx context.Context, link string) (*models.File, error) {
	if link == "" {
		return nil, common.ErrorNotFound
	}
	return scanFile(r.db.QueryRowContext(ctx, selectFiles+` WHERE f.download_link = $1`, link))
}

func (r *PostgresRepository) FindAllByOwner(ctx context.Context, ownerID string) ([]*models.File, error) {
	result := make([]*models.File, 0)
	if !validID(ownerID) {
		return result, nil
	}

	rows, err := r.db.QueryContext(ctx, selectFiles+` WHERE f.owner_id = $1 ORDER BY f.uploaded_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, file *models.File) error {
	if !validID(file.ID) || !validID(file.OwnerID) {
		return common.ErrorNotFound
	}

	query := `
		UPDATE files SET permission = $1, access_password = $2
		WHERE id = $3 AND owner_id = $4`

	res, err := r.db.ExecContext(ctx, query, string(file.Permission), file.AccessPassword, file.ID, file.OwnerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	if !validID(id) || !validID(ownerID) {
		return common.ErrorNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(row scanner) (*models.File, error) {
	var (
		f          models.File
		permission string
		password   sql.NullString
	)

	err := row.Scan(&f.ID, &f.OriginalName, &f.StoredName, &f.ContentType, &f.Size,
		&f.UploadedAt, &f.DownloadLink, &f.OwnerID, &f.OwnerName,
		&permission, &password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	f.Permission = models.Permission(permission)
	if password.Valid {
		f.AccessPassword = &password.String
	}
	return &f, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
