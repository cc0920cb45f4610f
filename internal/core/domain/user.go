package domain

import "time"

// UserType is the account category chosen at sign-up.
type UserType string

const (
	UserTypeWriter   UserType = "writer"
	UserTypeBusiness UserType = "business"
	UserTypeAdmin    UserType = "admin"
)

// DefaultUserType is applied when sign-up does not name a type.
const DefaultUserType = UserTypeBusiness

// Valid reports whether t is one of the known user types.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeWriter, UserTypeBusiness, UserTypeAdmin:
		return true
	}
	return false
}

// User is the account as seen outside the Auth Service. It deliberately has
// no password field.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	UserType  UserType  `json:"user_type"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Skills    []string  `json:"skills,omitempty"`
	Location  string    `json:"location,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user may call privileged operations.
func (u *User) IsAdmin() bool {
	return u != nil && u.IsActive && u.UserType == UserTypeAdmin
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Skills != nil {
		c.Skills = append([]string(nil), u.Skills...)
	}
	return &c
}

// UserRecord is the Credential Store row: the public user plus its hash.
type UserRecord struct {
	User
	PasswordHash string
}

// Public strips the password hash.
func (r *UserRecord) Public() *User {
	if r == nil {
		return nil
	}
	return r.User.Clone()
}

// ProfileUpdate is a partial update; nil fields are left untouched.
type ProfileUpdate struct {
	FullName  *string   `json:"full_name,omitempty"`
	UserType  *UserType `json:"user_type,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	Skills    *[]string `json:"skills,omitempty"`
	Location  *string   `json:"location,omitempty"`
	IsActive  *bool     `json:"is_active,omitempty"`
}

// Empty reports whether the update sets no field.
func (p ProfileUpdate) Empty() bool {
	return p.FullName == nil && p.UserType == nil && p.AvatarURL == nil &&
		p.Bio == nil && p.Skills == nil && p.Location == nil && p.IsActive == nil
}

// Apply merges the set fields into u.
func (p ProfileUpdate) Apply(u *User) {
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.UserType != nil {
		u.UserType = *p.UserType
	}
	if p.AvatarURL != nil {
		u.AvatarURL = *p.AvatarURL
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Skills != nil {
		u.Skills = append([]string(nil), (*p.Skills)...)
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
}
