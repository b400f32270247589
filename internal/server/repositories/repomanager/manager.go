package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/babysteps/internal/dbx"
	"github.com/dmitrijs2005/babysteps/internal/server/repositories/activities"
	"github.com/dmitrijs2005/babysteps/internal/server/repositories/babies"
	"github.com/dmitrijs2005/babysteps/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/babysteps/internal/server/repositories/reminders"
	"github.com/dmitrijs2005/babysteps/internal/server/repositories/settings"
	"github.com/dmitrijs2005/babysteps/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can
// use the same repositories inside and outside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Babies(db dbx.DBTX) babies.Repository
	Activities(db dbx.DBTX) activities.Repository
	Reminders(db dbx.DBTX) reminders.Repository
	Settings(db dbx.DBTX) settings.Repository
}
