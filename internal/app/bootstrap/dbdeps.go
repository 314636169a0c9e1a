// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/sranand/allochub/internal/app/store/jsonstore"
)

// DBDeps holds storage dependencies for the app. The registry keeps
// everything in flat JSON collections under one data directory, so a
// single file store stands where a database client normally would.
type DBDeps struct {
	Store *jsonstore.Store
}
