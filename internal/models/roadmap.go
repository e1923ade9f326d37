package models

// RoadmapRequest asks for an interview preparation roadmap toward a goal,
// e.g. "backend engineer at a fintech".
type RoadmapRequest struct {
	Query string `json:"query"`
}
