package model

// SubjectKind tells which store a token subject lives in.
type SubjectKind string

const (
	SubjectAdmin SubjectKind = "admin"
	SubjectUser  SubjectKind = "user"
)

// Identity is the resolved caller of an authenticated request.  Exactly
// one of Admin and User is set, matching Kind.
type Identity struct {
	Kind  SubjectKind
	ID    uint64
	Role  string // admin role; empty for users
	Admin *Admin
	User  *User
}
