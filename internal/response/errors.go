package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrAccessDenied      ErrCode = "ACCESS_DENIED"
	ErrTeacherAccessOnly ErrCode = "TEACHER_ACCESS_ONLY"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation           ErrCode = "VALIDATION_ERROR"
	ErrInvalidID            ErrCode = "INVALID_ID"
	ErrInvalidPayload       ErrCode = "INVALID_PAYLOAD"
	ErrInvalidCorrectOption ErrCode = "INVALID_CORRECT_OPTION"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound            ErrCode = "NOT_FOUND"
	ErrConstraintViolation ErrCode = "CONSTRAINT_VIOLATION"

	// ─── Exam-specific ─────────────────────────────────────────────────
	ErrExamNotReady     ErrCode = "EXAM_NOT_READY"
	ErrAlreadySubmitted ErrCode = "ALREADY_SUBMITTED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid username or password."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "Authentication required."
	case ErrTokenInvalid:
		return "Invalid session token."
	case ErrTokenExpired:
		return "Session expired. Please log in again."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrAccessDenied:
		return "You cannot take this exam."
	case ErrTeacherAccessOnly:
		return "This page is for teachers only."
	case ErrStudentAccessOnly:
		return "This page is for students only."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Some fields are invalid."
	case ErrInvalidID:
		return "Invalid ID."
	case ErrInvalidPayload:
		return "Malformed request body."
	case ErrInvalidCorrectOption:
		return "The correct option must be one of the supplied options."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Not found."
	case ErrConstraintViolation:
		return "The request conflicts with existing data."

	// ─── Exam-specific ─────────────────────────────────────────────────
	case ErrExamNotReady:
		return "This exam has no questions yet."
	case ErrAlreadySubmitted:
		return "You have already submitted this exam."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."

	default:
		return "An unexpected error occurred."
	}
}
