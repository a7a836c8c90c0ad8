package types

// Role is the account role issued by the backend
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is what the registration form collects.
// ConfirmPassword never leaves the client.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
	Role            Role   `json:"role"`
	Identifier      string `json:"cpf,omitempty"`          // CPF
	License         string `json:"crm,omitempty"`          // CRM, required for doctors
	Phone           string `json:"phone_number,omitempty"` // phone number
}

// User represents the cached user record
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsDoctor reports whether the user has the doctor role
func (u *User) IsDoctor() bool {
	return u != nil && u.Role == RoleDoctor
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// PatientDetails is the complete-profile payload.
// Only non-empty fields are sent.
type PatientDetails struct {
	Age       *int   `json:"age,omitempty"`
	BloodType string `json:"blood_type,omitempty"`
	Allergy   string `json:"allergy,omitempty"`
}
