package role

// Account roles carried on a user.
const (
	Patient = "patient"
	Doctor  = "doctor"
	Admin   = "admin"
	Staff   = "staff"
)

// Staff directory roles.
const (
	Nurse        = "nurse"
	Technician   = "technician"
	Receptionist = "receptionist"
	Pharmacist   = "pharmacist"
)

var (
	UserRoles     = []string{Patient, Doctor, Admin, Staff}
	StaffRoles    = []string{Doctor, Nurse, Technician, Receptionist, Admin, Pharmacist}
	ClinicalRoles = []string{Doctor, Nurse}

	// StaffMembers is every account role that works inside the hospital.
	StaffMembers = []string{Doctor, Admin, Staff}
)

func in(list []string, r string) bool {
	for _, v := range list {
		if v == r {
			return true
		}
	}
	return false
}

func IsUserRole(r string) bool {
	return in(UserRoles, r)
}

func IsStaffRole(r string) bool {
	return in(StaffRoles, r)
}

func IsClinical(r string) bool {
	return in(ClinicalRoles, r)
}

/*
* Map an account role onto the staff directory
* Generic staff accounts are filed as receptionists unless told otherwise
 */
func StaffRoleFor(userRole, requested string) string {
	if requested != "" && IsStaffRole(requested) {
		return requested
	}
	switch userRole {
	case Doctor:
		return Doctor
	case Admin:
		return Admin
	default:
		return Receptionist
	}
}
