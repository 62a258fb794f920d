package repomanager

import (
	"context"
	"database/sql"

	"github.com/mpavlovs/attachd/internal/dbx"
	"github.com/mpavlovs/attachd/internal/server/repositories/attachments"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Attachments(db dbx.DBTX) attachments.Repository
}
