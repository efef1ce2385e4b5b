package core

// Logger is any service that can log messages.
// args may contain errors, *http.Request, map[string]interface{} extras and a Person.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person identifies the authenticated caller of a request, when known.
type Person struct {
	ID    string
	Email string
}
