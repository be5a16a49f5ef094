package model

// Role is the closed set of user types. It is parsed once at the boundary
// (token claims, request payloads) and compared as a value afterwards.
type Role string

const (
	RoleWriter Role = "Writer"
	RoleEditor Role = "Editor"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleWriter, RoleEditor:
		return r, nil
	}

	return "", NewError(ErrValidation, "Unknown user type %q", s)
}

func (r Role) String() string {
	return string(r)
}

// Status is shared by users and companies.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusActive, StatusInactive:
		return st, nil
	}

	return "", NewError(ErrValidation, "Unknown status %q", s)
}
