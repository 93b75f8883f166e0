package assistant

// Result codes. Only 200 and 201 let the orchestration loop continue.
const (
	CodeOK         = 200
	CodeCreated    = 201
	CodeValidation = 300
	CodeNotFound   = 400
	CodeInternal   = 500
)

// ResultKind is the tag of a Result
type ResultKind string

const (
	KindSuccess    ResultKind = "success"
	KindValidation ResultKind = "validation"
	KindNotFound   ResultKind = "not_found"
	KindInternal   ResultKind = "internal"
)

// Result is what a tool handler returns. It is serialized verbatim into the
// tool message content, and into the HTTP error body when it aborts a chat.
type Result struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func OK(message string, data interface{}) Result {
	return Result{Code: CodeOK, Message: message, Data: data}
}

func Created(message string, data interface{}) Result {
	return Result{Code: CodeCreated, Message: message, Data: data}
}

func Invalid(message string, data interface{}) Result {
	return Result{Code: CodeValidation, Message: message, Data: data}
}

func NotFound(message string, data interface{}) Result {
	return Result{Code: CodeNotFound, Message: message, Data: data}
}

func Internal(message string) Result {
	return Result{Code: CodeInternal, Message: message}
}

// Succeeded reports whether the loop may continue after this result
func (r Result) Succeeded() bool {
	return r.Code == CodeOK || r.Code == CodeCreated
}

// Kind classifies the result code
func (r Result) Kind() ResultKind {
	switch {
	case r.Succeeded():
		return KindSuccess
	case r.Code == CodeValidation:
		return KindValidation
	case r.Code == CodeNotFound:
		return KindNotFound
	default:
		return KindInternal
	}
}
