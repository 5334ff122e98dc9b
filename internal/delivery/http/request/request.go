package request

type AnalyzeRequest struct {
	URL string `json:"url"`
}
