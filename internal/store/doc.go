// Package store implements muhasabah.UserStore and todo.Repository on gorm.
//
// Every personal todo query carries an owner_id predicate, so rows of other
// users behave exactly like missing rows.
package store
