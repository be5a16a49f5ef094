package model

// User data model. Password holds a bcrypt hash and is never rendered.
type User struct {
	ID        int64  `json:"id" db:"id"`
	Firstname string `json:"firstname" db:"firstname"`
	Lastname  string `json:"lastname" db:"lastname"`
	Email     string `json:"email" db:"email"`
	Password  string `json:"-" db:"password"`
	Type      Role   `json:"type" db:"type"`
	Status    Status `json:"status" db:"status"`
}

func (u *User) Active() bool {
	return u.Status == StatusActive
}
