package models

type SearchFilter struct {
	Subject   string
	Location  string
	MaxPrice  *float64
	Method    string
	MinRating *float64
}

// TutorSummary is a tutor row with its live review aggregate.
type TutorSummary struct {
	Tutor
	AvgRating   float64 `json:"avgRating"`
	ReviewCount int     `json:"reviewCount"`
	Ratings     []int   `json:"ratings"`
}

type TutorProfile struct {
	TutorSummary
	Reviews []ReviewView `json:"reviews"`
}
