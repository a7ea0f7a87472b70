// Package repomanager hands out repository implementations bound to a
// database handle and applies schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/ordo/internal/dbx"
	"github.com/dmitrijs2005/ordo/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/ordo/internal/server/repositories/spaces"
	"github.com/dmitrijs2005/ordo/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Spaces(db dbx.DBTX) spaces.Repository
}
