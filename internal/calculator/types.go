package calculator

// SessionResponse is the JSON response for session endpoints.
type SessionResponse struct {
	ID string `json:"id"`
	Snapshot
}

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys.
// Keys are keypad labels such as "7", "×", "±" or "Decimal point".
type KeysRequest struct {
	Keys []string `json:"keys"`
}

// KeyResult records the display after one applied key.
type KeyResult struct {
	Key     string `json:"key"`
	Display string `json:"display"`
	Error   string `json:"error,omitempty"` // error kind, when the key failed an evaluation
}

// KeysResponse is the JSON response for POST /calculator/sessions/{id}/keys.
type KeysResponse struct {
	ID      string      `json:"id"`
	Results []KeyResult `json:"results"`
	Session Snapshot    `json:"session"`
}

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Expression string `json:"expression"` // e.g. "3 + 4 × 2"
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Expression string  `json:"expression"`
	Result     float64 `json:"result"`
	Display    string  `json:"display"`
}

// ApplyRequest is the JSON body for POST /calculator/apply.
type ApplyRequest struct {
	A  float64 `json:"a"`
	Op string  `json:"op"` // "add", "+", "−", "×", "÷", "%", ...
	B  float64 `json:"b"`
}

// ApplyResponse is the JSON response for POST /calculator/apply.
type ApplyResponse struct {
	Operation string  `json:"operation"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Result    float64 `json:"result"`
	Display   string  `json:"display"`
}
