// Package database provides the GORM connection behind the Contao tables
// (tl_member, tl_user, tl_version, tl_search): connection retry, pooling,
// query logging through the application logger and a lifecycle component.
//
// Only the sqlite driver is linked in:
//
//	db, err := database.Open(ctx, database.Config{DSN: "file:contao.db"}, log)
package database
