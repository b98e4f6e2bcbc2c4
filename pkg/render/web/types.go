package web

// message is sent to browsers over the websocket
type message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// health is the body of /health
type health struct {
	Status     string `json:"status"`
	Charts     int    `json:"charts"`
	LastUpdate string `json:"last_update,omitempty"`
}
