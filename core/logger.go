package core

// Logger is any service that can log messages.
// args may hold errors, extra data (map[string]interface{}) and the AuthContext of the request being served.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
