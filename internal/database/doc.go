// Package database opens the gorm connection and owns the schema through
// embedded golang-migrate migrations, one directory per driver.
package database
