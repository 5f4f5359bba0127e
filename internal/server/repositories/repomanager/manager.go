// Package repomanager vends repositories bound to a database handle and
// applies the embedded schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/linkshare/internal/dbx"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/files"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/users"
)

// RepositoryManager hands out repositories for either the pool or a
// transaction, so services can compose them inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Files(db dbx.DBTX) files.Repository
}
