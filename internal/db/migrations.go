package db

// RunMigrations creates or updates the assets table. Declarative indexes
// (name, unique serial number) come from the model tags.
func RunMigrations(db *DB) error {
	return db.AutoMigrate(&Asset{})
}
