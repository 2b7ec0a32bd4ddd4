package entity

import "time"

// User represents an account row in the `users` table.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Goal is a personal goal captured at registration time. Goals have no
// standalone CRUD surface; they are written in bulk with the user row and
// removed with it.
type Goal struct {
	ID     int64  `db:"id" json:"id"`
	UserID int64  `db:"user_id" json:"user_id"`
	Title  string `db:"goal_title" json:"goal_title"`
}
