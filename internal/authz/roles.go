package authz

// Роли совпадают со значениями в колонке users.role.
const (
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
	RoleParent  = "PARENT"
	RoleAdmin   = "ADMIN"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleParent, RoleAdmin:
		return true
	}
	return false
}

func IsAdmin(role string) bool {
	return role == RoleAdmin
}

func IsStaff(role string) bool {
	return role == RoleTeacher || role == RoleAdmin
}
