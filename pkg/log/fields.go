package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Service
	FieldService = "service"

	// Domain
	FieldConversationID = "conversation_id"
	FieldMessageID      = "message_id"
	FieldUserID         = "user_id"
)
