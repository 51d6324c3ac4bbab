package models

// Role distinguishes operators from regular drivers.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account with its booking and review history.
type User struct {
	ID            string    `db:"id" yaml:"id" json:"id"`
	Name          string    `db:"name" yaml:"name" json:"name"`
	Email         string    `db:"email" yaml:"email" json:"email"`
	Phone         string    `db:"phone" yaml:"phone" json:"phone"`
	PasswordHash  string    `db:"password_hash" yaml:"passwordHash" json:"passwordHash,omitempty"`
	Role          Role      `db:"role" yaml:"role" json:"role"`
	LoyaltyPoints int       `db:"loyalty_points" yaml:"loyaltyPoints" json:"loyaltyPoints"`
	Bookings      []Booking `yaml:"bookings" json:"bookings"`
	Reviews       []Review  `yaml:"reviews" json:"reviews"`
}

// IsAdmin reports whether the user may run operator actions.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Clone returns a deep copy of the user and its history.
func (u User) Clone() User {
	out := u
	if u.Bookings != nil {
		out.Bookings = append([]Booking(nil), u.Bookings...)
	}
	if u.Reviews != nil {
		out.Reviews = append([]Review(nil), u.Reviews...)
	}
	return out
}

// Public strips credentials before the record leaves the service.
func (u User) Public() User {
	out := u.Clone()
	out.PasswordHash = ""
	return out
}
