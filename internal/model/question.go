package model

// Question is one quiz item. The coordinator treats the payload as opaque
// content: once stored on a room it is broadcast verbatim, so every
// participant receives an identical sequence.
type Question struct {
	Index     int      `json:"index"`
	Prompt    string   `json:"prompt"`
	Options   []string `json:"options"`
	Answer    int      `json:"answer"` // index into Options
	PointsMax int      `json:"pointsMax"`
}
