package model

type NameResponse struct {
	TPC  int    `json:"tpc"`
	Name string `json:"name"`
}

type ExtractResponse struct {
	Id      string         `json:"id"`
	Total   int            `json:"total"`
	Pitches []LabeledPitch `json:"pitches"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
