package models

// Roles a profile can carry. Self-registration always produces RoleUser.
const (
	RoleAdmin  = "admin"
	RoleDriver = "driver"
	RoleUser   = "user"
)

const ProfileStatusActive = "active"

type Profile struct {
	ID          string  `json:"id" db:"id"`
	Email       string  `json:"email" db:"email"`
	Name        string  `json:"name" db:"name"`
	Role        string  `json:"role" db:"role"` // "admin", "driver" or "user"
	VehicleInfo *string `json:"vehicle_info,omitempty" db:"vehicle_info"`
	Status      string  `json:"status" db:"status"`
	CreatedAt   int64   `json:"created_at" db:"created_at"`
}

// Credentials is the sign-in side of an identity. A profile created by an
// administrator has none until the person signs up with the same email.
type Credentials struct {
	ProfileID string `json:"profile_id" db:"profile_id"`
	Email     string `json:"email" db:"email"`
	Password  string `json:"-" db:"password"` // bcrypt hash, never returned
	CreatedAt int64  `json:"created_at" db:"created_at"`
}

type ProfileResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	VehicleInfo *string `json:"vehicle_info,omitempty"`
	Status      string  `json:"status"`
}

func (p *Profile) ToProfileResponse() ProfileResponse {
	return ProfileResponse{
		ID:          p.ID,
		Email:       p.Email,
		Name:        p.Name,
		Role:        p.Role,
		VehicleInfo: p.VehicleInfo,
		Status:      p.Status,
	}
}

// FirstName returns the first word of the display name, used in page greetings.
func (p *Profile) FirstName() string {
	for i, r := range p.Name {
		if r == ' ' {
			return p.Name[:i]
		}
	}
	return p.Name
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDriver, RoleUser:
		return true
	}
	return false
}

// HomePath is the page a signed-in profile with this role lands on.
func HomePath(role string) string {
	switch role {
	case RoleAdmin:
		return "/admin"
	case RoleDriver:
		return "/driver"
	default:
		return "/resident"
	}
}

// CreateProfileRequest is the body of POST /admin/profiles.
type CreateProfileRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	VehicleInfo string `json:"vehicle_info"`
}
