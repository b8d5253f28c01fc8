package errors

// ErrorCode is the machine readable code returned in error bodies
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 200

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_ALREADY_EXISTS    ErrorCode = 1003
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1007

	// Auth
	ErrorCode_AUTH_INVALID_TOKEN       ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED       ErrorCode = 2001
	ErrorCode_AUTH_INVALID_CREDENTIALS ErrorCode = 2002
	ErrorCode_AUTH_USER_NOT_FOUND      ErrorCode = 2003
	ErrorCode_AUTH_USER_ALREADY_EXISTS ErrorCode = 2004

	// Conversations
	ErrorCode_CONVERSATION_NOT_FOUND      ErrorCode = 3000
	ErrorCode_CONVERSATION_ENDED          ErrorCode = 3001
	ErrorCode_CONVERSATION_ACCESS_DENIED  ErrorCode = 3002
	ErrorCode_CONVERSATION_NOT_ENOUGH_MSG ErrorCode = 3003
	ErrorCode_INVALID_SCENARIO            ErrorCode = 3004
	ErrorCode_INVALID_DIFFICULTY          ErrorCode = 3005

	// Streak
	ErrorCode_STREAK_INVALID_SCORE ErrorCode = 4000
	ErrorCode_STREAK_BUSY          ErrorCode = 4001

	// AI
	ErrorCode_AI_SERVICE_UNAVAILABLE ErrorCode = 5001
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                     "HTTP_OK",
	ErrorCode_INTERNAL:                    "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:            "INVALID_ARGUMENT",
	ErrorCode_ALREADY_EXISTS:              "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:           "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:             "UNAUTHENTICATED",
	ErrorCode_INVALID_PAYLOAD:             "INVALID_PAYLOAD",
	ErrorCode_AUTH_INVALID_TOKEN:          "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:          "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_INVALID_CREDENTIALS:    "AUTH_INVALID_CREDENTIALS",
	ErrorCode_AUTH_USER_NOT_FOUND:         "AUTH_USER_NOT_FOUND",
	ErrorCode_AUTH_USER_ALREADY_EXISTS:    "AUTH_USER_ALREADY_EXISTS",
	ErrorCode_CONVERSATION_NOT_FOUND:      "CONVERSATION_NOT_FOUND",
	ErrorCode_CONVERSATION_ENDED:          "CONVERSATION_ENDED",
	ErrorCode_CONVERSATION_ACCESS_DENIED:  "CONVERSATION_ACCESS_DENIED",
	ErrorCode_CONVERSATION_NOT_ENOUGH_MSG: "CONVERSATION_NOT_ENOUGH_MESSAGES",
	ErrorCode_INVALID_SCENARIO:            "INVALID_SCENARIO",
	ErrorCode_INVALID_DIFFICULTY:          "INVALID_DIFFICULTY",
	ErrorCode_STREAK_INVALID_SCORE:        "STREAK_INVALID_SCORE",
	ErrorCode_STREAK_BUSY:                 "STREAK_BUSY",
	ErrorCode_AI_SERVICE_UNAVAILABLE:      "AI_SERVICE_UNAVAILABLE",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
