package ping

// PingRequest is the POST ping payload
type PingRequest struct {
	Action string `json:"action" validate:"required,oneof=ping"`
}
