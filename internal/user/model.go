package user

// User is a single record in the users table. Wire representations live in
// the HTTP handler package.
type User struct {
	ID        int64  `db:"id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Phone     string `db:"phone"`
	Email     string `db:"email"`
	Address   string `db:"address"`
}
