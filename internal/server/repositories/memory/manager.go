// Package memory provides map-backed repositories with the same observable
// behaviour as the PostgreSQL ones: unique constraints, owner scoping and
// not-found errors. They back service and handler tests.
package memory

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/linkshare/internal/dbx"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/files"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/users"
)

// RepositoryManager returns the same repositories whatever handle it is
// given, so transactions are not isolated.
type RepositoryManager struct {
	users         *UsersRepository
	refreshTokens *RefreshTokensRepository
	files         *FilesRepository
}

func NewRepositoryManager() *RepositoryManager {
	u := NewUsersRepository()
	return &RepositoryManager{
		users:         u,
		refreshTokens: NewRefreshTokensRepository(),
		files:         NewFilesRepository(u),
	}
}

func (m *RepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *RepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *RepositoryManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return m.refreshTokens
}

func (m *RepositoryManager) Files(dbx.DBTX) files.Repository { return m.files }

// FilesRepo exposes the concrete files repository, e.g. to inject failures.
func (m *RepositoryManager) FilesRepo() *FilesRepository { return m.files }
