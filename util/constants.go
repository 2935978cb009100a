package util

const (
	UserCollection        = "users"
	PatientCollection     = "patients"
	StaffCollection       = "staff"
	AppointmentCollection = "appointments"
	TestCollection        = "tests"
	ReportCollection      = "reports"
	SettingsCollection    = "settings"
)

// Cache key prefixes
const (
	AppointmentKey = "APPOINTMENT:"
	TestKey        = "TEST:"
	PatientKey     = "PATIENT:"
	StaffKey       = "STAFF:"
	LoginLimitKey  = "LOGIN_LIMIT:"
)

const SettingsID = "hospital-settings"

const (
	PLEASE_PROVIDE_EMAIL_AND_PASSWORD = "Please provide email and password"
	USER_ALREADY_EXISTS               = "User already exists with this email"
	INCORRECT_EMAIL_OR_PASSWORD       = "Incorrect email or password"
	ACCOUNT_DEACTIVATED               = "Your account has been deactivated. Please contact admin."
	CURRENT_PASSWORD_INCORRECT        = "Your current password is incorrect"
	NO_TOKEN_PROVIDED                 = "Access denied. No token provided."
	INVALID_OR_EXPIRED_TOKEN          = "Invalid token or token expired."
	USER_NO_LONGER_EXISTS             = "User belonging to this token no longer exists."
	PASSWORD_CHANGED_RECENTLY         = "User recently changed password. Please log in again."
	NO_PERMISSION                     = "You do not have permission to perform this action."
	RESET_TOKEN_INVALID               = "Token is invalid or has expired"
	ADMIN_EMAIL_DOMAIN_REQUIRED       = "Admin login requires an address ending in "
	INVALID_ADMIN_CREDENTIALS         = "Invalid admin credentials"
	ADMIN_ACCOUNT_DEACTIVATED         = "Admin account is deactivated"

	INVALID_ID_FORMAT       = "Invalid ID format"
	PATIENT_NOT_FOUND       = "Patient not found"
	DOCTOR_NOT_FOUND        = "Doctor not found"
	STAFF_NOT_FOUND         = "Staff member not found"
	APPOINTMENT_NOT_FOUND   = "Appointment not found"
	TEST_NOT_FOUND          = "Test not found"
	REPORT_NOT_FOUND        = "Report not found"
	USER_NOT_FOUND          = "User not found"
	SETTINGS_NOT_FOUND      = "Settings not found"
	SLOT_ALREADY_BOOKED     = "Doctor already has an appointment at this date and time"
	PATIENT_ALREADY_EXISTS  = "Patient with this email or phone already exists"
	STAFF_ALREADY_EXISTS    = "Staff member with this email or phone already exists"
	LICENSE_ALREADY_EXISTS  = "License number already exists"
	SPECIALIZATION_NEEDED   = "Specialization is required for doctors"
	INVALID_STATUS          = "Invalid status value"
	INVALID_DATE            = "Invalid date, expected YYYY-MM-DD"
	INVALID_TIME            = "Invalid time, expected HH:MM"
	NO_FIELDS_TO_UPDATE     = "No valid fields provided for update"
	REQUIRED_FIELDS_MISSING = "All required fields must be filled"
	TOO_MANY_REQUESTS       = "Too many requests. Please try again later."
	SOMETHING_WENT_WRONG    = "Something went wrong"
)

const (
	INVALID_EMAIL         = "Please provide a valid email"
	PASSWORD_TOO_SHORT    = "Password must be at least 6 characters long"
	PASSWORD_TOO_LONG     = "Password must be at most 72 bytes long"
	NAME_TOO_SHORT        = "Name must be at least 2 characters long"
	INVALID_ROLE          = "Invalid role"
	INVALID_PRICE         = "Price cannot be negative"
	INVALID_SAMPLE_TYPE   = "Invalid sample type"
	INVALID_PRIORITY      = "Invalid priority"
	INVALID_TYPE          = "Invalid appointment type"
	INVALID_DURATION      = "Duration must be a positive number of minutes"
	INVALID_STATUS_CHANGE = "Status change not allowed"
	INVALID_SETTING       = "Invalid setting value"
	SETTING_NOT_FOUND     = "Setting not found"
	INVALID_BODY          = "Invalid request body"

	CANNOT_CHANGE_SELF     = "You cannot deactivate or delete your own account"
	REPORT_FIELDS_REQUIRED = "Patient name, doctor name, report type, findings and amount are required"
)

const (
	REGISTERED_SUCCESSFULLY     = "User registered successfully"
	LOGGED_IN_SUCCESSFULLY      = "Login successful"
	ADMIN_LOGGED_IN             = "Admin login successful"
	LOGGED_OUT_SUCCESSFULLY     = "Logged out successfully"
	PASSWORD_CHANGED            = "Password changed successfully"
	PASSWORD_RESET_SENT         = "If an account exists for this email, a reset token has been sent"
	PASSWORD_RESET_SUCCESSFULLY = "Password reset successfully"
	PROFILE_UPDATED             = "Profile updated successfully"
	PREFERENCES_UPDATED         = "Preferences updated successfully"
	CREATED_SUCCESSFULLY        = "Created successfully"
	UPDATED_SUCCESSFULLY        = "Updated successfully"
	DELETED_SUCCESSFULLY        = "Deleted successfully"
	APPOINTMENT_BOOKED          = "Appointment booked successfully"
	SETTINGS_UPDATED            = "Settings updated successfully"
	SETTINGS_RESET              = "Settings reset to defaults"
)
