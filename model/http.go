package model

type FitRequestBody struct {
	Model     string   `json:"model"`
	Precision *float64 `json:"precision,omitempty"`
}

type SweepRequestBody struct {
	Model       string `json:"model"`
	MinExponent int    `json:"min_exponent"`
	MaxExponent int    `json:"max_exponent"`
}

type CompareRequestBody struct {
	Models      []string `json:"models"`
	MinExponent int      `json:"min_exponent"`
	MaxExponent int      `json:"max_exponent"`
}

type ModelsResponse struct {
	Models []string `json:"models"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
